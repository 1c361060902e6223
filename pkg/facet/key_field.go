package facet

import (
	"github.com/matst80/slask-catalog/pkg/types"
)

// KeyField maps every value of one key dimension to the positions of the
// products carrying it. Values are stored as given; records are normalized
// at the fetch boundary.
type KeyField struct {
	Dimension types.Dimension
	Keys      map[string]types.ItemList
}

func EmptyKeyField(dim types.Dimension) *KeyField {
	return &KeyField{
		Dimension: dim,
		Keys:      map[string]types.ItemList{},
	}
}

func (f *KeyField) AddValueLink(values []string, id int) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if k, ok := f.Keys[v]; ok {
			k.AddId(id)
		} else {
			f.Keys[v] = types.ItemList{id: struct{}{}}
		}
	}
}

// Count is how many of base carry value.
func (f *KeyField) Count(value string, base types.ItemList) int {
	ids, ok := f.Keys[value]
	if !ok {
		return 0
	}
	return ids.IntersectionLen(base)
}
