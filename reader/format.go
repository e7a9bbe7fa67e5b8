package reader

import (
	"fmt"
	"strconv"
	"strings"

	"rfidcam/protocol"
)

// keyboardFormat describes the digits a keyboard-wedge reader types.
type keyboardFormat struct {
	numDigits int  // expected number of digits (0 = any)
	isHex     bool // true for hex input, false for decimal
	name      string
}

// parseFormat parses "10h", "8d", "8" and the like. Empty means "10h".
func parseFormat(format string) keyboardFormat {
	if format == "" {
		format = "10h"
	}
	format = strings.ToLower(format)

	f := keyboardFormat{isHex: true, name: format}
	switch {
	case strings.HasSuffix(format, "h"):
		f.numDigits, _ = strconv.Atoi(strings.TrimSuffix(format, "h"))
	case strings.HasSuffix(format, "d"):
		f.isHex = false
		f.numDigits, _ = strconv.Atoi(strings.TrimSuffix(format, "d"))
	default:
		f.numDigits, _ = strconv.Atoi(format)
	}
	return f
}

// cardLine converts typed digits into a protocol line so keyboard readers
// feed the same decoder as serial ones. Decimal input is rendered as the
// four UID bytes in hex.
func (f keyboardFormat) cardLine(digits string) (string, error) {
	if f.numDigits > 0 && len(digits) != f.numDigits {
		return "", fmt.Errorf("expected %d digits, got %d (%q)", f.numDigits, len(digits), digits)
	}

	hexDigits := strings.ToUpper(digits)
	if f.isHex {
		if _, err := strconv.ParseUint(hexDigits, 16, 64); err != nil {
			return "", fmt.Errorf("bad hex badge %q: %w", digits, err)
		}
	} else {
		number, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			return "", fmt.Errorf("bad decimal badge %q: %w", digits, err)
		}
		hexDigits = fmt.Sprintf("%08X", number&0xffffffff)
	}

	if len(hexDigits)%2 == 1 {
		hexDigits = "0" + hexDigits
	}
	groups := make([]string, 0, len(hexDigits)/2)
	for i := 0; i < len(hexDigits); i += 2 {
		groups = append(groups, hexDigits[i:i+2])
	}
	return protocol.Marker + " " + strings.Join(groups, " "), nil
}
