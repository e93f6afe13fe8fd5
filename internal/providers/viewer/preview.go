package viewer

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Kind is how a file is shown.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Preview is a classified file.
type Preview struct {
	Path      string
	Name      string
	Kind      Kind
	MIME      string
	Charset   string
	Size      int64
	Text      string
	Truncated bool
}

// String renders the preview for a text pane.
func (p Preview) String() string {
	switch p.Kind {
	case KindImage:
		return strings.Join([]string{
			"Image preview",
			"",
			"Name: " + p.Name,
			"Type: " + p.MIME,
			"Size: " + humanize.Bytes(uint64(p.Size)),
		}, "\n")
	case KindBinary:
		return strings.Join([]string{
			"Binary file preview",
			"",
			"This file can't be displayed as text.",
			"",
			"Name: " + p.Name,
			"Size: " + humanize.Bytes(uint64(p.Size)),
		}, "\n")
	}
	if p.Truncated {
		return p.Text + fmt.Sprintf("\n\n[truncated: showing %s of %s]",
			humanize.Bytes(uint64(len(p.Text))), humanize.Bytes(uint64(p.Size)))
	}
	return p.Text
}
