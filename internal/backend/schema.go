package backend

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Structural checks only: lists are lists and rendered book fields are
// strings. Unknown keys pass; missing titles are not rejected.
const bookSchema = `{
  "type": "object",
  "properties": {
    "title":        {"type": ["string", "null"]},
    "author":       {"type": ["string", "null"]},
    "cover":        {"type": ["string", "null"]},
    "link":         {"type": ["string", "null"]},
    "publisher":    {"type": ["string", "null"]},
    "description":  {"type": ["string", "null"]},
    "categoryName": {"type": ["string", "null"]},
    "pubDate":      {"type": ["string", "null"]},
    "reason":       {"type": ["string", "null"]},
    "highlight":    {"type": ["string", "null"]},
    "quote":        {"type": ["string", "null"]}
  }
}`

var schemaSources = map[string]string{
	"recommendation": `{
  "type": "object",
  "properties": {
    "recommendations": {"type": ["array", "null"], "items": ` + bookSchema + `},
    "curator_comment": {"type": ["string", "null"]},
    "mood_analysis":   {"type": ["string", "null"]},
    "encouragement":   {"type": ["string", "null"]},
    "error":           {"type": ["string", "null"]}
  }
}`,
	"chat": `{
  "type": "object",
  "properties": {
    "answer":             {"type": ["string", "null"]},
    "recommendations":    {"type": ["array", "null"], "items": ` + bookSchema + `},
    "followup_questions": {"type": ["array", "null"], "items": {"type": "string"}},
    "error":              {"type": ["string", "null"]}
  }
}`,
	"search": `{
  "type": "object",
  "properties": {
    "item":         {"type": ["array", "null"], "items": ` + bookSchema + `},
    "totalResults": {"type": ["integer", "null"]},
    "error":        {"type": ["string", "null"]}
  }
}`,
	"categories": `{
  "type": "object",
  "properties": {
    "categories": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["categories"]
}`,
}

type schemaSet map[string]*gojsonschema.Schema

func compileSchemas() (schemaSet, error) {
	set := make(schemaSet, len(schemaSources))
	for name, src := range schemaSources {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", name, err)
		}
		set[name] = s
	}
	return set, nil
}

func (s schemaSet) check(name string, data []byte) error {
	schema, ok := s[name]
	if !ok {
		return nil
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}
