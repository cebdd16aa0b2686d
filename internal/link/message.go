package link

import "unicode/utf16"

// EntityType is the kind of a message entity.
type EntityType int

const (
	EntityOther EntityType = iota
	// EntityURL marks a bare URL inside the message text.
	EntityURL
	// EntityTextLink marks display text carrying a hidden target URL.
	EntityTextLink
)

// Entity is a formatted span of a chat message. Offset and Length are
// counted in UTF-16 code units.
type Entity struct {
	Type   EntityType
	Offset int
	Length int
	URL    string
}

// Message is the read-only view of a chat message.
type Message struct {
	Text            string
	Caption         string
	Entities        []Entity
	CaptionEntities []Entity
	ReplyTo         *Message
}

// FromMessage returns the first link found in msg or, failing that, in the
// message it replies to. The boolean is false when neither carries one.
func FromMessage(msg *Message) (string, bool) {
	if msg == nil {
		return "", false
	}
	for _, m := range []*Message{msg, msg.ReplyTo} {
		if m == nil {
			continue
		}
		if u, ok := scanEntities(m.Text, m.Entities); ok {
			return u, true
		}
		if u, ok := scanEntities(m.Caption, m.CaptionEntities); ok {
			return u, true
		}
	}
	return "", false
}

func scanEntities(text string, entities []Entity) (string, bool) {
	for _, e := range entities {
		switch e.Type {
		case EntityTextLink:
			if e.URL != "" {
				return e.URL, true
			}
		case EntityURL:
			if u := utf16Slice(text, e.Offset, e.Length); u != "" {
				return u, true
			}
		}
	}
	return "", false
}

func utf16Slice(s string, offset, length int) string {
	units := utf16.Encode([]rune(s))
	if offset < 0 || length <= 0 || offset >= len(units) {
		return ""
	}
	end := offset + length
	if end > len(units) {
		end = len(units)
	}
	return string(utf16.Decode(units[offset:end]))
}
