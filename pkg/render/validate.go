package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var snapshotSchema []byte

// Validation errors.
var (
	ErrInvalidJSON        = errors.New("invalid json")
	ErrSchemaViolation    = errors.New("snapshot does not match schema")
	ErrMalformedSnapshot  = errors.New("malformed snapshot")
	errUnexpectedTrailing = errors.New("unexpected data after the document")
)

// Schema returns the JSON schema of snapshots written by JSON.
func Schema() []byte {
	return bytes.Clone(snapshotSchema)
}

// ValidateJSON checks a JSON snapshot against the schema and then checks that
// the levels describe a binary tree: the root level has one slot, every level
// has two slots per node of the level above, the last level is not empty and
// size equals the node count.
func ValidateJSON(data []byte) error {
	var document any

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := dec.Decode(&document); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	if dec.More() {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, errUnexpectedTrailing)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(snapshotSchema),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			details = append(details, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
		}

		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(details, "; "))
	}

	var snap Snapshot[json.RawMessage]
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	return checkShape(snap)
}

func checkShape[T any](snap Snapshot[T]) error {
	want, nodes := 1, 0

	for depth, level := range snap.Levels {
		if len(level) != want {
			return fmt.Errorf("%w: level %d has %d slots, want %d", ErrMalformedSnapshot, depth, len(level), want)
		}

		levelNodes := 0

		for _, node := range level {
			if node != nil {
				levelNodes++
			}
		}

		if levelNodes == 0 {
			return fmt.Errorf("%w: level %d has no nodes", ErrMalformedSnapshot, depth)
		}

		nodes += levelNodes
		want = 2 * levelNodes
	}

	if nodes != snap.Size {
		return fmt.Errorf("%w: size is %d but levels hold %d nodes", ErrMalformedSnapshot, snap.Size, nodes)
	}

	return nil
}
