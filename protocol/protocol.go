package protocol

import "strings"

// Marker prefixes every card-presence line the reader firmware prints.
const Marker = "Kart UID:"

// CardEvent is a card presented to the reader. UID is the raw token as
// printed on the wire, before normalization.
type CardEvent struct {
	UID string
}

// Decode classifies a raw line from the reader.
// Lines that do not start with Marker are diagnostic chatter and yield
// ok == false; they are not an error.
func Decode(line string) (CardEvent, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, Marker) {
		return CardEvent{}, false
	}
	return CardEvent{UID: strings.TrimSpace(strings.TrimPrefix(line, Marker))}, true
}
