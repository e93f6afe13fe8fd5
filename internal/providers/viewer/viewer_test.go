package viewer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A 1x1 PNG.
var pngData = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestPreviewClassifies(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    []byte
		kind    Kind
		charset string
		text    string
	}{
		{name: "utf8 text", file: "notes.md", data: []byte("# Notes\nhéllo wörld\n"), kind: KindText, charset: "UTF-8", text: "# Notes\nhéllo wörld\n"},
		{name: "empty file", file: "empty.txt", data: []byte{}, kind: KindText, charset: "UTF-8", text: ""},
		{name: "png image", file: "dot.png", data: pngData, kind: KindImage},
		{name: "image without extension", file: "dot", data: pngData, kind: KindImage},
		{name: "binary", file: "blob.bin", data: []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01}, kind: KindBinary},
	}

	v := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := v.Preview(writeFile(t, tt.file, tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, p.Kind)
			assert.Equal(t, tt.file, p.Name)
			assert.Equal(t, int64(len(tt.data)), p.Size)
			assert.False(t, p.Truncated)
			if tt.kind == KindText {
				assert.Equal(t, tt.charset, p.Charset)
				assert.Equal(t, tt.text, p.Text)
			}
		})
	}
}

func TestPreviewDecodesLegacyCharsets(t *testing.T) {
	latin1 := strings.Repeat("Le caf\xe9 est tr\xe8s chaud et la cr\xe8me br\xfbl\xe9e est d\xe9licieuse. ", 20)

	p, err := New(nil).Preview(writeFile(t, "menu.txt", []byte(latin1)))
	require.NoError(t, err)
	assert.Equal(t, KindText, p.Kind)
	assert.True(t, utf8.ValidString(p.Text))
	assert.NotEqual(t, "UTF-8", p.Charset)
	assert.Contains(t, p.Text, "caf")
}

func TestDecodeTextFallsBackToMacRoman(t *testing.T) {
	text, charset := decodeText([]byte{'a', 0x8e, 'b'})
	assert.True(t, utf8.ValidString(text))
	assert.NotEmpty(t, charset)

	text, charset = decodeText([]byte("plain"))
	assert.Equal(t, "plain", text)
	assert.Equal(t, "UTF-8", charset)
}

func TestPreviewTruncates(t *testing.T) {
	v := New(nil, WithPreviewLimit(10))

	p, err := v.Preview(writeFile(t, "long.txt", bytes.Repeat([]byte("a"), 100)))
	require.NoError(t, err)
	assert.True(t, p.Truncated)
	assert.Equal(t, strings.Repeat("a", 10), p.Text)
	assert.Equal(t, int64(100), p.Size)
	assert.Contains(t, p.String(), "[truncated: showing 10 B of 100 B]")

	// The cut lands inside the third "é"; the partial rune is dropped.
	p, err = New(nil, WithPreviewLimit(5)).Preview(writeFile(t, "accents.txt", []byte("ééééé")))
	require.NoError(t, err)
	assert.Equal(t, KindText, p.Kind)
	assert.Equal(t, "éé", p.Text)
	assert.Equal(t, "UTF-8", p.Charset)
}

func TestPreviewErrors(t *testing.T) {
	v := New(nil)

	_, err := v.Preview(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = v.Preview(t.TempDir())
	assert.Error(t, err)
}

func TestOpenWritesRendering(t *testing.T) {
	var out bytes.Buffer
	v := New(&out)

	require.NoError(t, v.Open(writeFile(t, "hello.txt", []byte("hello"))))
	assert.Equal(t, "hello\n", out.String())

	out.Reset()
	require.NoError(t, v.Open(writeFile(t, "blob.bin", []byte{0, 1, 2, 3})))
	assert.Equal(t, strings.Join([]string{
		"Binary file preview",
		"",
		"This file can't be displayed as text.",
		"",
		"Name: blob.bin",
		"Size: 4 B",
	}, "\n")+"\n", out.String())

	out.Reset()
	require.NoError(t, v.Open(writeFile(t, "dot.png", pngData)))
	assert.Contains(t, out.String(), "Image preview")
	assert.Contains(t, out.String(), "Type: image/png")

	assert.Error(t, v.Open(filepath.Join(t.TempDir(), "nope")))
}
