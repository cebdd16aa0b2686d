package cli

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/famomatic/ytplay/internal/link"
)

// Bot API shaped message. JSON input decodes too since YAML is a superset.
type messageDoc struct {
	Text            string      `yaml:"text"`
	Caption         string      `yaml:"caption"`
	Entities        []entityDoc `yaml:"entities"`
	CaptionEntities []entityDoc `yaml:"caption_entities"`
	ReplyTo         *messageDoc `yaml:"reply_to_message"`
}

type entityDoc struct {
	Type   string `yaml:"type"`
	Offset int    `yaml:"offset"`
	Length int    `yaml:"length"`
	URL    string `yaml:"url"`
}

// ParseMessage decodes a chat message with its optional reply.
func ParseMessage(r io.Reader) (*link.Message, error) {
	var doc messageDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return doc.message(), nil
}

func (d *messageDoc) message() *link.Message {
	if d == nil {
		return nil
	}
	return &link.Message{
		Text:            d.Text,
		Caption:         d.Caption,
		Entities:        entities(d.Entities),
		CaptionEntities: entities(d.CaptionEntities),
		ReplyTo:         d.ReplyTo.message(),
	}
}

func entities(docs []entityDoc) []link.Entity {
	out := make([]link.Entity, 0, len(docs))
	for _, e := range docs {
		t := link.EntityOther
		switch e.Type {
		case "url":
			t = link.EntityURL
		case "text_link":
			t = link.EntityTextLink
		}
		out = append(out, link.Entity{Type: t, Offset: e.Offset, Length: e.Length, URL: e.URL})
	}
	return out
}
