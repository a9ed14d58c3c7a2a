package model

import (
	"fmt"
	"strings"
	"sync"

	"resume-compiler/templates"

	"github.com/xeipuuv/gojsonschema"
)

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func resumeSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(templates.ResumeSchema))
	})
	return schema, schemaErr
}

// ValidateRecord checks a record against the embedded resume schema and
// returns one message per violation. A nil slice means the record is valid.
func ValidateRecord(m map[string]interface{}) []string {
	s, err := resumeSchema()
	if err != nil {
		return []string{fmt.Sprintf("schema unavailable: %v", err)}
	}
	res, err := s.Validate(gojsonschema.NewGoLoader(m))
	if err != nil {
		return []string{fmt.Sprintf("record not validatable: %v", err)}
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return msgs
}

// ValidateMap validates a record and folds all violations into one error.
func ValidateMap(m map[string]interface{}) error {
	msgs := ValidateRecord(m)
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
