package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// Request body schemas, keyed by name.
var schemaDefs = map[string]string{
	"chat": `{
		"type": "object",
		"required": ["message"],
		"properties": {
			"message": {"type": "string", "minLength": 1, "maxLength": 4000},
			"mode": {"type": "string"},
			"language": {"type": "string"},
			"curriculumTopic": {"type": "integer"},
			"history": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["role", "content"],
					"properties": {
						"role": {"enum": ["user", "assistant"]},
						"content": {"type": "string"}
					}
				}
			}
		}
	}`,
	"language": `{
		"type": "object",
		"required": ["language"],
		"properties": {"language": {"type": "string", "minLength": 1}}
	}`,
	"mode": `{
		"type": "object",
		"required": ["mode"],
		"properties": {"mode": {"type": "string", "minLength": 1}}
	}`,
	"topic": `{
		"type": "object",
		"required": ["topic"],
		"properties": {"topic": {"type": "integer"}}
	}`,
	"turn": `{
		"type": "object",
		"required": ["message"],
		"properties": {"message": {"type": "string", "maxLength": 4000}}
	}`,
	"allocation": `{
		"type": "object",
		"required": ["amount"],
		"properties": {"amount": {"type": "integer"}}
	}`,
	"answer": `{
		"type": "object",
		"required": ["choice"],
		"properties": {"choice": {"type": "integer", "minimum": 0}}
	}`,
	"quote": `{
		"type": "object",
		"required": ["amount", "tier"],
		"properties": {
			"amount": {"type": "integer"},
			"tier": {"type": "string"}
		}
	}`,
	"send": `{
		"type": "object",
		"required": ["amount", "tier"],
		"properties": {
			"recipient": {"type": "string", "maxLength": 128},
			"amount": {"type": "integer"},
			"tier": {"type": "string"}
		}
	}`,
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

func compileSchemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		out := make(map[string]*jsonschema.Schema, len(schemaDefs))
		for name, def := range schemaDefs {
			doc, err := jsonschema.UnmarshalJSON(strings.NewReader(def))
			if err != nil {
				compileErr = fmt.Errorf("parse schema %q: %w", name, err)
				return
			}
			url := fmt.Sprintf("schema://%s.json", name)
			if err := c.AddResource(url, doc); err != nil {
				compileErr = fmt.Errorf("add schema %q: %w", name, err)
				return
			}
			s, err := c.Compile(url)
			if err != nil {
				compileErr = fmt.Errorf("compile schema %q: %w", name, err)
				return
			}
			out[name] = s
		}
		compiled = out
	})
	return compiled, compileErr
}

// errBadRequest marks body problems the client can fix.
var errBadRequest = errors.New("bad request")

// decodeBody reads the request body, validates it against the named
// schema and decodes it into dst. Every failure wraps errBadRequest
// except an unknown schema name.
func decodeBody(r *http.Request, schema string, dst any) error {
	schemas, err := compileSchemas()
	if err != nil {
		return err
	}
	s, ok := schemas[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	if len(raw) > maxBodyBytes {
		return fmt.Errorf("%w: body too large", errBadRequest)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: invalid JSON", errBadRequest)
	}
	if err := s.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
