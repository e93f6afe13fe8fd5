package favorites

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/tami/internal/shared/paths"
	"github.com/GriffinCanCode/tami/internal/shared/types"
)

// Favorite is a named bookmark to a filesystem path.
type Favorite struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	DateAdded time.Time `json:"dateAdded"`
}

// referenceDate is the epoch of numeric dateAdded values.
var referenceDate = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// UnmarshalJSON reads dateAdded either as RFC 3339 text or as a number of
// seconds since referenceDate. A missing dateAdded leaves the zero time.
func (f *Favorite) UnmarshalJSON(data []byte) error {
	var rec struct {
		Name      string `json:"name"`
		Path      string `json:"path"`
		DateAdded any    `json:"dateAdded"`
	}
	if err := sonic.ConfigStd.Unmarshal(data, &rec); err != nil {
		return err
	}

	var added time.Time
	switch v := rec.DateAdded.(type) {
	case nil:
	case float64:
		added = referenceDate.Add(time.Duration(v * float64(time.Second)))
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return fmt.Errorf("dateAdded: %w", err)
		}
		added = t
	default:
		return fmt.Errorf("dateAdded: unexpected %T", v)
	}

	*f = Favorite{Name: rec.Name, Path: rec.Path, DateAdded: added}
	return nil
}

func newFavorite(path string, now time.Time) Favorite {
	return Favorite{
		Name:      paths.LastSegment(path),
		Path:      path,
		DateAdded: now,
	}
}

// Label implements types.Row.
func (f Favorite) Label() string { return f.Name }

// Location implements types.Row.
func (f Favorite) Location() string { return f.Path }

// Icon implements types.Row.
func (Favorite) Icon() types.Icon { return types.IconFavorite }

var _ types.Row = Favorite{}
