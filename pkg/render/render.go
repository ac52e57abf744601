package render

import (
	"errors"
	"fmt"
	"io"
	"slices"
)

// Format selects an output format.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// ErrUnknownFormat is returned for unsupported formats.
var ErrUnknownFormat = errors.New("unknown render format")

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatHTML}
}

// ParseFormat converts a name into a Format.
func ParseFormat(name string) (Format, error) {
	format := Format(name)
	if !slices.Contains(Formats(), format) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	return format, nil
}

// Write renders snap in the given format.
func Write[T any](w io.Writer, format Format, snap Snapshot[T], options Options) error {
	switch format {
	case FormatText:
		return Text(w, snap, options)
	case FormatJSON:
		return JSON(w, snap)
	case FormatYAML:
		return YAML(w, snap)
	case FormatHTML:
		return HTML(w, snap, options)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
