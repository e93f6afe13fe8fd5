package tree

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sorter orders siblings: directories first, then names under a
// case-insensitive collation. Equal collation keys fall back to byte
// order so the result does not depend on listing order.
type sorter struct {
	collator *collate.Collator
}

func newSorter(tag language.Tag) sorter {
	return sorter{collator: collate.New(tag, collate.IgnoreCase)}
}

func (s sorter) compare(a, b *Node) int {
	if a.isDir != b.isDir {
		if a.isDir {
			return -1
		}
		return 1
	}
	if c := s.collator.CompareString(a.name, b.name); c != 0 {
		return c
	}
	return strings.Compare(a.name, b.name)
}

func (s sorter) sort(nodes []*Node) {
	slices.SortFunc(nodes, s.compare)
}
