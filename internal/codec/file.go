// Package codec converts map documents to and from their external forms:
// the file form (JSON or YAML), the compact share code and the game export.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// FileDocument is the canonical serialized form of a map. Files, slots and
// share codes all carry this shape.
type FileDocument struct {
	Name        string              `json:"name" yaml:"name" jsonschema:"title=Map name,description=Display name of the map,required"`
	Path        []core.Point        `json:"path" yaml:"path" jsonschema:"title=Path,description=Ordered path cells from enemy spawn to player base,required"`
	Decorations []mapdoc.Decoration `json:"decorations" yaml:"decorations" jsonschema:"title=Decorations,description=Scenery objects in placement order,required"`
	Settings    mapdoc.Settings     `json:"settings" yaml:"settings" jsonschema:"title=Settings,description=Visual tuning of the map,required"`
}

// ToFile captures a document in file form.
func ToFile(doc *mapdoc.Document) FileDocument {
	return FileDocument{
		Name:        doc.Name(),
		Path:        doc.Path().Cells(),
		Decorations: doc.Decorations(),
		Settings:    doc.Settings(),
	}
}

// Document rebuilds a document from file form. Unknown decoration types
// become generic. No edit rules are applied; run the validator on the result.
func (f FileDocument) Document() *mapdoc.Document {
	decos := make([]mapdoc.Decoration, len(f.Decorations))
	for i, d := range f.Decorations {
		d.Type, _ = mapdoc.ParseDecorationType(string(d.Type))
		decos[i] = d
	}
	return mapdoc.FromParts(f.Name, f.Path, decos, f.Settings)
}

// MarshalJSON returns the pretty-printed (2-space) JSON file form.
func MarshalJSON(doc *mapdoc.Document) ([]byte, error) {
	data, err := json.MarshalIndent(ToFile(doc), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("codec: cannot encode json: %w", err)
	}
	return data, nil
}

// MarshalYAML returns the YAML file form.
func MarshalYAML(doc *mapdoc.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ToFile(doc)); err != nil {
		return nil, fmt.Errorf("codec: cannot encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("codec: cannot encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// ErrIncomplete is returned when a decoded map lacks a required field.
var ErrIncomplete = errors.New("codec: incomplete map document")

// requiredFields are the top-level keys every serialized map carries.
var requiredFields = []string{"name", "path", "decorations", "settings"}

// Unmarshal decodes the file form, choosing the format by extension
// (".json", ".yaml", ".yml"). Unknown keys and missing top-level fields
// are errors; missing settings fall back to the defaults.
func Unmarshal(data []byte, ext string) (*mapdoc.Document, error) {
	var (
		f   FileDocument
		err error
	)
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		f, err = decodeJSON(data)
	case "yaml", "yml":
		f, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("codec: unsupported file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return f.Document(), nil
}

func decodeJSON(data []byte) (FileDocument, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return FileDocument{}, fmt.Errorf("codec: cannot parse json: %w", err)
	}
	present := make(map[string]bool, len(fields))
	for k, v := range fields {
		present[k] = string(bytes.TrimSpace(v)) != "null"
	}
	if err := checkRequired(present); err != nil {
		return FileDocument{}, err
	}

	f := FileDocument{Settings: mapdoc.DefaultSettings()}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return FileDocument{}, fmt.Errorf("codec: cannot parse json: %w", err)
	}
	return f, checkSettings(f.Settings)
}

func decodeYAML(data []byte) (FileDocument, error) {
	var fields map[string]any
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return FileDocument{}, fmt.Errorf("codec: cannot parse yaml: %w", err)
	}
	present := make(map[string]bool, len(fields))
	for k, v := range fields {
		present[k] = v != nil
	}
	if err := checkRequired(present); err != nil {
		return FileDocument{}, err
	}

	f := FileDocument{Settings: mapdoc.DefaultSettings()}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return FileDocument{}, fmt.Errorf("codec: cannot parse yaml: %w", err)
	}
	return f, checkSettings(f.Settings)
}

func checkRequired(present map[string]bool) error {
	if len(present) == 0 {
		return fmt.Errorf("%w: not a map object", ErrIncomplete)
	}
	for _, k := range requiredFields {
		if !present[k] {
			return fmt.Errorf("%w: missing %q", ErrIncomplete, k)
		}
	}
	return nil
}

func checkSettings(s mapdoc.Settings) error {
	colors := []struct {
		name  string
		color core.HexColor
	}{
		{"bgColor", s.BgColor},
		{"floorColor", s.FloorColor},
		{"trackColor", s.TrackColor},
		{"particleColor", s.ParticleColor},
		{"fogColor", s.FogColor},
	}
	for _, c := range colors {
		if !c.color.Valid() {
			return fmt.Errorf("%w: settings.%s %q is not a hex color", ErrIncomplete, c.name, c.color)
		}
	}
	return nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SuggestedFilename turns a map name into an export filename:
// whitespace runs become "_" and ".json" is appended.
func SuggestedFilename(name string) string {
	return whitespaceRun.ReplaceAllString(name, "_") + ".json"
}
