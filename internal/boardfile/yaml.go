package boardfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a board document. Unknown keys are rejected.
func ParseYAML(data []byte) (Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, errors.New("invalid YAML: empty document")
		}
		return Document{}, fmt.Errorf("invalid YAML: %w", err)
	}
	return doc, nil
}

// MarshalYAML encodes the document
func MarshalYAML(doc Document) ([]byte, error) {
	return yaml.Marshal(doc)
}
