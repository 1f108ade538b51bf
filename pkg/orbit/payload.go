package orbit

import (
	"encoding/json"
	"fmt"
)

const schema = `{
	"type": "object",
	"required": ["head"],
	"properties": {
		"head":      {"$ref": "#/definitions/fragment"},
		"bodyFirst": {"$ref": "#/definitions/fragment"},
		"bodyLast":  {"$ref": "#/definitions/fragment"}
	},
	"definitions": {
		"fragment": {
			"type": "object",
			"properties": {
				"template": {"type": ["string", "null"]},
				"html":     {"type": ["string", "null"]}
			}
		}
	}
}`

type fragment struct {
	Template string `json:"template"`
	HTML     string `json:"html"`
}

type payload struct {
	Head      fragment `json:"head"`
	BodyFirst fragment `json:"bodyFirst"`
	BodyLast  fragment `json:"bodyLast"`
}

// resolve turns a raw payload into an Orbit. Templates are rendered only when
// params are given; otherwise the literal html is used.
func resolve(data []byte, renderer Renderer, params map[string]any) (*Orbit, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	if len(params) == 0 {
		return New(p.Head.HTML, p.BodyFirst.HTML, p.BodyLast.HTML), nil
	}

	fields := []struct {
		name string
		frag fragment
		out  string
	}{
		{name: "head", frag: p.Head},
		{name: "bodyFirst", frag: p.BodyFirst},
		{name: "bodyLast", frag: p.BodyLast},
	}
	for i := range fields {
		out, err := renderer.Render(fields[i].frag.Template, params)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", fields[i].name, err)
		}
		fields[i].out = out
	}

	return New(fields[0].out, fields[1].out, fields[2].out), nil
}

// checkPayload rejects payloads that resolve could not map.
func checkPayload(data []byte) error {
	var p payload
	return json.Unmarshal(data, &p)
}
