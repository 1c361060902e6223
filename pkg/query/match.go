package query

import (
	"github.com/matst80/slask-catalog/pkg/search"
	"github.com/matst80/slask-catalog/pkg/types"
)

// Predicate is a FilterState compiled for repeated matching.
type Predicate struct {
	state *types.FilterState
	text  *search.Matcher
}

func NewPredicate(state *types.FilterState) *Predicate {
	return &Predicate{
		state: state,
		text:  search.NewMatcher(state.Query),
	}
}

// Match reports whether p satisfies every active constraint.
func (pr *Predicate) Match(p *types.ProductRecord) bool {
	return pr.MatchExcept(p, "")
}

// MatchExcept ignores the constraint of one dimension. Facet counts use it
// to ask what a dimension would show given all the others.
func (pr *Predicate) MatchExcept(p *types.ProductRecord, skip types.Dimension) bool {
	for _, dim := range types.AllDimensions {
		if dim == skip {
			continue
		}
		if !pr.matchDimension(p, dim) {
			return false
		}
	}
	return pr.text.Match(p.Title, p.Description)
}

func (pr *Predicate) matchDimension(p *types.ProductRecord, dim types.Dimension) bool {
	switch {
	case dim.IsKey():
		selected := *pr.state.Selection(dim)
		if selected.Len() == 0 {
			return true
		}
		for _, v := range p.Values(dim) {
			if selected.Has(v) {
				return true
			}
		}
		return false
	case dim.IsFlag():
		return !pr.state.Flag(dim) || p.Flag(dim)
	case dim == types.DimensionPrice:
		return pr.state.Price.Contains(p.EffectivePrice())
	}
	return true
}

// Matches is a one-off convenience around NewPredicate.
func Matches(p *types.ProductRecord, state *types.FilterState) bool {
	return NewPredicate(state).Match(p)
}

// MatchesExcept is Matches without the constraint of dim.
func MatchesExcept(p *types.ProductRecord, state *types.FilterState, dim types.Dimension) bool {
	return NewPredicate(state).MatchExcept(p, dim)
}
