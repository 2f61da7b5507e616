package cv

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func snapshotSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(snapshotSchemaJSON))
	})
	return schema, schemaErr
}

// Serialize returns the pretty-printed JSON snapshot of the document.
func (d *Document) Serialize() ([]byte, error) {
	out := d.Clone()
	if out.Experience == nil {
		out.Experience = []ExperienceEntry{}
	}
	if out.Education == nil {
		out.Education = []EducationEntry{}
	}
	return json.MarshalIndent(out, "", "  ")
}

// Deserialize replaces the document with the snapshot in blob. On any error
// the receiver is left untouched.
func (d *Document) Deserialize(blob []byte) error {
	parsed, err := Parse(blob)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Parse decodes and checks a snapshot, then applies Normalize. Malformed
// JSON and schema violations are reported as *ParseError.
func Parse(blob []byte) (Document, error) {
	var doc Document
	if len(strings.TrimSpace(string(blob))) == 0 {
		return doc, &ParseError{Reason: "empty payload"}
	}
	if !json.Valid(blob) {
		return doc, &ParseError{Reason: "not valid JSON"}
	}
	s, err := snapshotSchema()
	if err != nil {
		return doc, fmt.Errorf("load snapshot schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(blob))
	if err != nil {
		return doc, &ParseError{Reason: "schema check failed", Cause: err}
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, re := range res.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
		}
		return doc, &ParseError{Reason: strings.Join(msgs, "; ")}
	}
	if err := json.Unmarshal(blob, &doc); err != nil {
		return Document{}, &ParseError{Reason: "decode", Cause: err}
	}
	return Normalize(doc)
}

// Normalize enforces the document invariants on a decoded document: entry
// ids are unique within each list, the summary is capped and both lists
// hold at least one entry. Duplicate ids are a *ParseError.
func Normalize(doc Document) (Document, error) {
	if err := checkUniqueIDs(&doc); err != nil {
		return Document{}, err
	}
	doc.Summary = truncateSummary(doc.Summary)
	if len(doc.Experience) == 0 {
		doc.Experience = []ExperienceEntry{{ID: newEntryID()}}
	}
	if len(doc.Education) == 0 {
		doc.Education = []EducationEntry{{ID: newEntryID()}}
	}
	return doc, nil
}

func checkUniqueIDs(doc *Document) error {
	seen := make(map[string]struct{}, len(doc.Experience))
	for _, e := range doc.Experience {
		if _, dup := seen[e.ID]; dup {
			return &ParseError{Reason: "duplicate experience id " + e.ID}
		}
		seen[e.ID] = struct{}{}
	}
	seen = make(map[string]struct{}, len(doc.Education))
	for _, e := range doc.Education {
		if _, dup := seen[e.ID]; dup {
			return &ParseError{Reason: "duplicate education id " + e.ID}
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}
