package branding

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// schema is the shape decode accepts. colours and options may arrive as
// empty arrays from the upstream encoder.
const schema = `{
	"type": "object",
	"required": ["head"],
	"properties": {
		"head":      {"type": "string"},
		"bodyFirst": {"type": ["string", "null"]},
		"bodyLast":  {"type": ["string", "null"]},
		"colours": {
			"anyOf": [
				{"$ref": "#/definitions/empty"},
				{"type": "object", "additionalProperties": {
					"anyOf": [{"$ref": "#/definitions/empty"}, {"type": "object"}]
				}}
			]
		},
		"options": {
			"anyOf": [{"$ref": "#/definitions/empty"}, {"type": "object"}]
		}
	},
	"definitions": {
		"empty": {
			"anyOf": [{"type": "null"}, {"type": "array", "maxItems": 0}]
		}
	}
}`

type payload struct {
	Head      string          `json:"head"`
	BodyFirst string          `json:"bodyFirst"`
	BodyLast  string          `json:"bodyLast"`
	Colours   json.RawMessage `json:"colours"`
	Options   json.RawMessage `json:"options"`
}

// checkPayload rejects payloads decode could not map.
func checkPayload(data []byte) error {
	_, err := decode(data)
	return err
}

// decode maps a raw payload into a Branding.
func decode(data []byte) (*Branding, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	var rawColours map[string]json.RawMessage
	if err := decodeObject(p.Colours, &rawColours); err != nil {
		return nil, fmt.Errorf("colours: %w", err)
	}
	colours := make(Colours, len(rawColours))
	for role, raw := range rawColours {
		var rawValues map[string]json.RawMessage
		if err := decodeObject(raw, &rawValues); err != nil {
			return nil, fmt.Errorf("colours.%s: %w", role, err)
		}
		colours[role] = colourValues(rawValues)
	}

	var options map[string]any
	if err := decodeObject(p.Options, &options); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}

	return New(p.Head, p.BodyFirst, p.BodyLast, colours, options), nil
}

// colourValues keeps strings as they are and any other value as its JSON
// text. Nulls are dropped.
func colourValues(raw map[string]json.RawMessage) map[string]string {
	values := make(map[string]string, len(raw))
	for name, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) == 0 || bytes.Equal(v, []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			values[name] = s
			continue
		}
		values[name] = string(v)
	}
	return values
}

// decodeObject unmarshals a JSON object into v, treating null and empty
// arrays as an empty object.
func decodeObject(raw json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return fmt.Errorf("expected an object, got a list of %d items", len(items))
	}
	return json.Unmarshal(trimmed, v)
}
