package render_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
	"github.com/Sumatoshi-tech/redblack/pkg/render"
)

var lz4FrameMagic = []byte{0x04, 0x22, 0x4d, 0x18}

func newTree(values ...int) *rbtree.Tree[int] {
	tree := rbtree.NewOrdered[int]()
	for _, value := range values {
		tree.Insert(value)
	}

	return tree
}

func red(value int) *render.Node[int] { return &render.Node[int]{Value: value, Color: "red"} }
func black(value int) *render.Node[int] { return &render.Node[int]{Value: value, Color: "black"} }

func TestCaptureEmpty(t *testing.T) {
	t.Parallel()

	snap := render.Capture(newTree())

	assert.Equal(t, 0, snap.Size)
	assert.Empty(t, snap.Levels)
	assert.Equal(t, 0, snap.Height())
}

func TestCaptureLevels(t *testing.T) {
	t.Parallel()

	// (1b 2b (3b 4r (5r 6b 7r)))
	snap := render.Capture(newTree(1, 2, 3, 4, 5, 6, 7))

	want := [][]*render.Node[int]{
		{black(2)},
		{black(1), red(4)},
		{nil, nil, black(3), black(6)},
		{nil, nil, red(5), red(7)},
	}

	assert.Equal(t, 7, snap.Size)
	assert.Equal(t, want, snap.Levels)
	assert.Equal(t, 4, snap.Height())
}

func TestText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := render.Text(&buf, render.Capture(newTree(10, 20, 30)), render.Options{NoColor: true})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "20:B")
	assert.Contains(t, out, "10:R 30:R")
	assert.Contains(t, out, "LEVEL")
	assert.Contains(t, out, "SIZE")
	assert.NotContains(t, out, "\x1b[")
}

func TestTextShowsGaps(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.Text(&buf, render.Capture(newTree(1, 2, 3, 4)), render.Options{NoColor: true}))
	assert.Contains(t, buf.String(), render.Gap+" 4:R")
}

func TestJSONRoundTripValidates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.JSON(&buf, render.Capture(newTree(5, 3, 8, 1, 4, 7, 9, 2, 6))))
	assert.Contains(t, buf.String(), `"levels"`)
	assert.Contains(t, buf.String(), "null")
	require.NoError(t, render.ValidateJSON(buf.Bytes()))
}

func TestJSONEmptyTreeValidates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.JSON(&buf, render.Capture(newTree())))
	require.NoError(t, render.ValidateJSON(buf.Bytes()))
}

func TestValidateJSONErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		err  error
	}{
		{"not json", `{"size":`, render.ErrInvalidJSON},
		{"trailing data", `{"size":0,"levels":[]} {}`, render.ErrInvalidJSON},
		{"missing levels", `{"size":0}`, render.ErrSchemaViolation},
		{"bad color", `{"size":1,"levels":[[{"value":1,"color":"green"}]]}`, render.ErrSchemaViolation},
		{"extra field", `{"size":0,"levels":[],"root":1}`, render.ErrSchemaViolation},
		{"wide root", `{"size":2,"levels":[[{"value":1,"color":"black"},{"value":2,"color":"black"}]]}`,
			render.ErrMalformedSnapshot},
		{"empty last level", `{"size":1,"levels":[[{"value":1,"color":"black"}],[null,null]]}`,
			render.ErrMalformedSnapshot},
		{"size mismatch", `{"size":3,"levels":[[{"value":1,"color":"black"}]]}`, render.ErrMalformedSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.ErrorIs(t, render.ValidateJSON([]byte(tt.data)), tt.err)
		})
	}
}

func TestSchemaIsJSON(t *testing.T) {
	t.Parallel()

	schema := render.Schema()
	assert.True(t, bytes.HasPrefix(bytes.TrimSpace(schema), []byte("{")))

	schema[0] = 'x'
	assert.NotEqual(t, schema[0], render.Schema()[0])
}

func TestYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.YAML(&buf, render.Capture(newTree(10, 20, 30))))

	var decoded render.Snapshot[int]
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, 3, decoded.Size)
	assert.Equal(t, [][]*render.Node[int]{{black(20)}, {red(10), red(30)}}, decoded.Levels)
}

func TestHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := render.HTML(&buf, render.Capture(newTree(10, 20, 30)), render.Options{Title: "demo tree"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "demo tree")
	assert.Contains(t, out, "20 (black)")
	assert.Contains(t, out, "30 (red)")
}

func TestWriteDispatch(t *testing.T) {
	t.Parallel()

	snap := render.Capture(newTree(2, 1, 3))

	for _, format := range render.Formats() {
		var buf bytes.Buffer

		require.NoError(t, render.Write(&buf, format, snap, render.Options{NoColor: true}), "format %s", format)
		assert.NotEmpty(t, buf.String())
	}

	err := render.Write(io.Discard, render.Format("svg"), snap, render.Options{})
	require.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	format, err := render.ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, render.FormatYAML, format)

	_, err = render.ParseFormat("png")
	require.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestCompressedRoundTrip(t *testing.T) {
	t.Parallel()

	var compressed bytes.Buffer

	writer := render.NewCompressedWriter(&compressed)
	require.NoError(t, render.JSON(writer, render.Capture(newTree(3, 1, 2))))
	require.NoError(t, writer.Close())

	data, err := io.ReadAll(render.NewCompressedReader(&compressed))
	require.NoError(t, err)
	require.NoError(t, render.ValidateJSON(data))
}

func TestCreateAndOpenFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snap := render.Capture(newTree(4, 2, 6))

	for _, name := range []string{"tree.json", "tree.json.lz4"} {
		path := filepath.Join(dir, name)

		out, err := render.Create(path)
		require.NoError(t, err)
		require.NoError(t, render.JSON(out, snap))
		require.NoError(t, out.Close())

		in, err := render.Open(path)
		require.NoError(t, err)

		data, err := io.ReadAll(in)
		require.NoError(t, err)
		require.NoError(t, in.Close())
		require.NoError(t, render.ValidateJSON(data), name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "tree.json.lz4"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, lz4FrameMagic), "lz4 output starts with the frame magic")

	assert.True(t, render.IsCompressedPath("a.lz4"))
	assert.False(t, render.IsCompressedPath("a.json"))

	_, err = render.Open(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
