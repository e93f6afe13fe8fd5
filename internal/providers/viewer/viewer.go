package viewer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultPreviewLimit is the number of bytes read from a file.
const DefaultPreviewLimit = 4 << 20

// Viewer previews files and writes them to an output.
type Viewer struct {
	out    io.Writer
	limit  int64
	logger *zap.Logger
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithPreviewLimit caps how much of a file is read.
func WithPreviewLimit(n int64) Option {
	return func(v *Viewer) {
		if n > 0 {
			v.limit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Viewer) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New creates a viewer that renders into out. A nil out discards.
func New(out io.Writer, opts ...Option) *Viewer {
	if out == nil {
		out = io.Discard
	}
	v := &Viewer{
		out:    out,
		limit:  DefaultPreviewLimit,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Open previews path and writes the rendering.
func (v *Viewer) Open(path string) error {
	p, err := v.Preview(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(v.out, p.String())
	return err
}

// Preview reads and classifies path.
func (v *Viewer) Preview(path string) (Preview, error) {
	f, err := os.Open(path)
	if err != nil {
		return Preview{}, fmt.Errorf("unable to read file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Preview{}, fmt.Errorf("unable to read file: %w", err)
	}
	if info.IsDir() {
		return Preview{}, fmt.Errorf("unable to read file: %s is a directory", path)
	}

	data, err := io.ReadAll(io.LimitReader(f, v.limit))
	if err != nil {
		return Preview{}, fmt.Errorf("unable to read file: %w", err)
	}

	p := Preview{
		Path:      path,
		Name:      filepath.Base(path),
		Size:      info.Size(),
		Truncated: info.Size() > int64(len(data)),
	}
	v.classify(&p, data)

	v.logger.Debug("Previewed file",
		zap.String("path", path),
		zap.Stringer("kind", p.Kind),
		zap.String("mime", p.MIME),
		zap.String("charset", p.Charset),
		zap.Bool("truncated", p.Truncated))
	return p, nil
}

func (v *Viewer) classify(p *Preview, data []byte) {
	mtype := mimetype.Detect(data)
	p.MIME = mtype.String()

	switch {
	case strings.HasPrefix(mtype.String(), "image/"):
		p.Kind = KindImage
	case bytes.IndexByte(data, 0) >= 0:
		p.Kind = KindBinary
	default:
		p.Kind = KindText
		if p.Truncated {
			data = trimPartialRune(data)
		}
		p.Text, p.Charset = decodeText(data)
	}
}

// decodeText returns data as UTF-8 along with the charset it was read as.
func decodeText(data []byte) (string, string) {
	if utf8.Valid(data) {
		return string(data), "UTF-8"
	}

	if result, err := chardet.NewTextDetector().DetectBest(data); err == nil && result != nil {
		if enc, err := htmlindex.Get(result.Charset); err == nil {
			if text, err := decodeWith(enc, data); err == nil {
				return text, result.Charset
			}
		}
	}

	text, _ := decodeWith(charmap.Macintosh, data)
	return text, "macintosh"
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("decoder produced invalid UTF-8")
	}
	return string(out), nil
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off at the end
// of data.
func trimPartialRune(data []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(data); i++ {
		if !utf8.RuneStart(data[len(data)-i]) {
			continue
		}
		if !utf8.FullRune(data[len(data)-i:]) {
			return data[:len(data)-i]
		}
		break
	}
	return data
}
