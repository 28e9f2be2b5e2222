package prediction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Payload is a decoded request body. Numbers are kept as json.Number.
type Payload map[string]any

// Required fields per endpoint, in the order they are reported when missing.
var (
	PolicyFields   = PolicyColumns()
	EmissionFields = EmissionColumns()
)

// Validate checks that every required field is present in p.
// Only presence is checked; a null value counts as present.
func Validate(p Payload, required []string) error {
	for _, field := range required {
		if _, ok := p[field]; !ok {
			return &MissingFieldError{Field: field}
		}
	}
	return nil
}

// DecodePayload reads a single JSON object from r.
func DecodePayload(r io.Reader) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &InvalidPayloadError{Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("corpo vazio")
		}
		return nil, &InvalidPayloadError{Err: err}
	}
	if p == nil {
		return nil, &InvalidPayloadError{Err: errors.New("esperado um objeto JSON")}
	}
	if dec.More() {
		return nil, &InvalidPayloadError{Err: fmt.Errorf("conteúdo extra após o objeto JSON")}
	}
	return p, nil
}
