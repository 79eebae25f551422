package syllabus

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a syllabus document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported syllabus file extension %q", filepath.Ext(path))
	}
}

//go:embed syllabus.schema.json
var schemaJSON []byte

const schemaURL = "schema://syllabus.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func syllabusSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

type documentTopic struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
}

type documentSubject struct {
	Name   string          `json:"name"`
	Color  string          `json:"color"`
	Weight WeightInput     `json:"weight"`
	Topics []documentTopic `json:"topics"`
}

type document struct {
	Subjects []documentSubject `json:"subjects"`
}

// Decode reads a syllabus document, validates it against the embedded
// schema and returns the subjects it describes, in document order, with
// fresh IDs. Subjects without a color get one from the palette.
func Decode(r io.Reader, format Format) ([]Subject, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read syllabus: %w", err)
	}

	jsonBytes, err := toJSON(raw, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSyllabus, err)
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidSyllabus, err)
	}

	schema, err := syllabusSchema()
	if err != nil {
		return nil, fmt.Errorf("compile syllabus schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSyllabus, err)
	}

	var doc document
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSyllabus, err)
	}

	subjects := make([]Subject, 0, len(doc.Subjects))
	for i, ds := range doc.Subjects {
		color := ds.Color
		if color == "" {
			color = ColorFor(i)
		}
		s, err := NewSubject(ds.Name, color, ds.Weight.Int())
		if err != nil {
			return nil, fmt.Errorf("subject %d: %w", i, err)
		}
		for j, dt := range ds.Topics {
			d, err := ParseDifficulty(dt.Difficulty)
			if err != nil {
				return nil, fmt.Errorf("subject %q topic %d: %w", s.Name, j, err)
			}
			t, err := NewTopic(s.ID, dt.Name, d)
			if err != nil {
				return nil, fmt.Errorf("subject %q topic %d: %w", s.Name, j, err)
			}
			s.Topics = append(s.Topics, t)
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}

// toJSON converts a document to JSON bytes so both formats share one
// validation path.
func toJSON(raw []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return raw, nil
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("convert YAML: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
