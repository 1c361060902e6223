package surface

import (
	"fmt"

	"github.com/matst80/slask-catalog/pkg/types"
)

const (
	SourceSidebar = "sidebar"
	SourceDrawer  = "drawer"
	SourceURL     = "url"
)

type CommandKind string

const (
	CmdToggle  CommandKind = "toggle"
	CmdFlag    CommandKind = "flag"
	CmdPrice   CommandKind = "price"
	CmdSort    CommandKind = "sort"
	CmdPage    CommandKind = "page"
	CmdQuery   CommandKind = "query"
	CmdReset   CommandKind = "reset"
	CmdClear   CommandKind = "clear"
	CmdReplace CommandKind = "replace"
	// CmdRebase is issued by the store itself when the catalog changes.
	CmdRebase CommandKind = "rebase"
)

// Command is one state transition. Seq is the sequence number of the input
// that produced it; commands older than the last applied change of one of
// their keys are discarded.
type Command struct {
	Kind      CommandKind
	Dimension types.Dimension
	Value     string
	On        bool
	Price     types.PriceRange
	Sort      types.SortSpec
	Page      int
	Query     string
	State     *types.FilterState
	Seq       uint64
	Source    string
}

// staleness keys besides the dimensions
const (
	keySort  = "sort"
	keyPage  = "page"
	keyQuery = "query"
)

var allKeys = func() []string {
	ret := make([]string, 0, len(types.AllDimensions)+3)
	for _, d := range types.AllDimensions {
		ret = append(ret, string(d))
	}
	return append(ret, keySort, keyPage, keyQuery)
}()

// keys are what a command writes. A page reset caused by a filter change is
// not counted.
func (c Command) keys() []string {
	switch c.Kind {
	case CmdToggle, CmdFlag, CmdReset:
		return []string{string(c.Dimension)}
	case CmdPrice:
		return []string{string(types.DimensionPrice)}
	case CmdSort:
		return []string{keySort}
	case CmdPage:
		return []string{keyPage}
	case CmdQuery:
		return []string{keyQuery}
	case CmdClear, CmdReplace:
		return allKeys
	}
	return nil
}

func (c Command) resetsPage() bool {
	switch c.Kind {
	case CmdToggle, CmdFlag, CmdPrice, CmdSort, CmdQuery, CmdReset, CmdClear:
		return true
	}
	return false
}

// applyCommand mutates state. It is shared by the store and the drawer
// draft so both surfaces interpret edits the same way.
func applyCommand(state *types.FilterState, cmd Command, bounds types.PriceRange) {
	switch cmd.Kind {
	case CmdToggle:
		if sel := state.Selection(cmd.Dimension); sel != nil {
			sel.Toggle(cmd.Value)
		}
	case CmdFlag:
		state.SetFlag(cmd.Dimension, cmd.On)
	case CmdPrice:
		state.Price = cmd.Price.Clamp(bounds)
	case CmdSort:
		state.Sort = cmd.Sort
	case CmdPage:
		state.Page = cmd.Page
	case CmdQuery:
		state.Query = cmd.Query
	case CmdReset:
		state.Reset(cmd.Dimension, bounds)
	case CmdClear:
		state.ClearFilters(bounds)
	case CmdReplace:
		if cmd.State != nil {
			*state = cmd.State.Clone()
		}
	}
	if cmd.resetsPage() {
		state.Page = 1
	}
}

func (c Command) validate() error {
	switch c.Kind {
	case CmdToggle:
		if !c.Dimension.IsKey() || c.Value == "" {
			return fmt.Errorf("%w: toggle needs a key dimension and a value", ErrInvalidIntent)
		}
	case CmdFlag:
		if !c.Dimension.IsFlag() {
			return fmt.Errorf("%w: %q is not a boolean dimension", ErrInvalidIntent, c.Dimension)
		}
	case CmdReset:
		if _, ok := types.ParseDimension(string(c.Dimension)); !ok {
			return fmt.Errorf("%w: unknown dimension %q", ErrInvalidIntent, c.Dimension)
		}
	case CmdSort:
		if !c.Sort.IsValid() {
			return fmt.Errorf("%w: unknown sort %q", ErrInvalidIntent, c.Sort)
		}
	case CmdPage:
		if c.Page < 1 {
			return fmt.Errorf("%w: page must be at least 1", ErrInvalidIntent)
		}
	case CmdReplace:
		if c.State == nil {
			return fmt.Errorf("%w: replace without state", ErrInvalidIntent)
		}
	case CmdPrice, CmdQuery, CmdClear:
	default:
		return fmt.Errorf("%w: unknown command %q", ErrInvalidIntent, c.Kind)
	}
	return nil
}
