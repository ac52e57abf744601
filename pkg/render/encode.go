package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// JSON writes the snapshot as indented JSON. Gaps are null.
func JSON[T any](w io.Writer, snap Snapshot[T]) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

// YAML writes the snapshot as YAML. Gaps are null.
func YAML[T any](w io.Writer, snap Snapshot[T]) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}

	return nil
}
