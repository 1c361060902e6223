package surface

import (
	"fmt"
	"strings"

	"github.com/matst80/slask-catalog/pkg/types"
)

// Editor is what both surfaces accept.
type Editor interface {
	Current() types.FilterState
	EditingPrice() types.PriceRange
	Toggle(dim types.Dimension, value string) error
	SetFlag(dim types.Dimension, on bool) error
	SetPrice(r types.PriceRange) error
	SetSort(spec types.SortSpec) error
	SetPage(page int) error
	SetQuery(q string) error
	ResetDimension(dim types.Dimension) error
	Clear() error
	ToggleSection(dim types.Dimension) bool
}

var (
	_ Editor = (*Sidebar)(nil)
	_ Editor = (*Drawer)(nil)
)

// Intent is a user edit in wire form.
type Intent struct {
	Action    string   `json:"action"`
	Dimension string   `json:"dimension,omitempty"`
	Value     string   `json:"value,omitempty"`
	On        bool     `json:"on,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Sort      string   `json:"sort,omitempty"`
	Page      int      `json:"page,omitempty"`
	Query     string   `json:"query,omitempty"`
}

func (in Intent) dimension() (types.Dimension, error) {
	dim, ok := types.ParseDimension(strings.TrimSpace(in.Dimension))
	if !ok {
		return "", fmt.Errorf("%w: unknown dimension %q", ErrInvalidIntent, in.Dimension)
	}
	return dim, nil
}

// HandleIntent routes a wire intent to a surface. Malformed intents fail
// with ErrInvalidIntent.
func HandleIntent(e Editor, in Intent) error {
	switch in.Action {
	case "toggle", "flag", "reset", "section":
		dim, err := in.dimension()
		if err != nil {
			return err
		}
		switch in.Action {
		case "toggle":
			return e.Toggle(dim, strings.TrimSpace(in.Value))
		case "flag":
			return e.SetFlag(dim, in.On)
		case "reset":
			return e.ResetDimension(dim)
		}
		e.ToggleSection(dim)
		return nil
	case "price":
		if in.Min == nil && in.Max == nil {
			return fmt.Errorf("%w: price needs min or max", ErrInvalidIntent)
		}
		r := e.EditingPrice()
		if in.Min != nil {
			r.Min = *in.Min
		}
		if in.Max != nil {
			r.Max = *in.Max
		}
		return e.SetPrice(r)
	case "sort":
		return e.SetSort(types.SortSpec(strings.TrimSpace(in.Sort)))
	case "page":
		return e.SetPage(in.Page)
	case "query":
		return e.SetQuery(strings.TrimSpace(in.Query))
	case "clear":
		return e.Clear()
	}
	return fmt.Errorf("%w: unknown action %q", ErrInvalidIntent, in.Action)
}
