package types

// Icon names the glyph a UI should draw next to a row.
type Icon string

const (
	IconFolder   Icon = "folder"
	IconFile     Icon = "file"
	IconFavorite Icon = "favorite"
	IconTerminal Icon = "terminal"
)

// Row is anything displayable as a labelled line in a list, outline or
// tab strip.
type Row interface {
	// Label is the user-visible text.
	Label() string
	// Icon selects the glyph.
	Icon() Icon
	// Location is the filesystem path the row refers to.
	Location() string
}

// Labels returns the labels of rows in order.
func Labels[R Row](rows []R) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Label()
	}
	return out
}
