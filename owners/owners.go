package owners

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Unknown is returned by Lookup for cards that are not in the directory.
const Unknown = "unknown"

// Normalize returns the canonical form of a card UID: whitespace-separated
// tokens, uppercased, joined by single spaces. Malformed input is not
// rejected; it simply will not match a directory entry.
func Normalize(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), " "))
}

// Directory maps normalized card UIDs to owner display names.
// It is immutable once built and safe for concurrent readers.
type Directory struct {
	owners map[string]string
}

// New builds a Directory from one or more UID -> name maps. Keys are
// normalized; when a UID appears in more than one map the later map wins.
func New(entries ...map[string]string) *Directory {
	d := &Directory{owners: make(map[string]string)}
	for _, m := range entries {
		for uid, name := range m {
			d.owners[Normalize(uid)] = name
		}
	}
	return d
}

// Lookup returns the owner of uid, or Unknown. It never fails; a nil
// Directory behaves as an empty one.
func (d *Directory) Lookup(uid string) string {
	if d == nil {
		return Unknown
	}
	if name, ok := d.owners[Normalize(uid)]; ok {
		return name
	}
	return Unknown
}

// Len returns the number of known cards.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.owners)
}

// LoadFile reads an owner file. Each line holds a UID and a name separated
// by a tab; blank lines and lines starting with '#' are skipped.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open owner file: %w", err)
	}
	defer file.Close()

	entries := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		uid, name, found := strings.Cut(line, "\t")
		if !found {
			return nil, fmt.Errorf("owner file %s line %d: missing tab separator", path, lineNo)
		}
		entries[Normalize(uid)] = strings.TrimSpace(name)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read owner file: %w", err)
	}
	return entries, nil
}
