package types

// ItemList is a set of product positions in a product slice.
type ItemList map[int]struct{}

func (i ItemList) AddId(id int) {
	i[id] = struct{}{}
}

// IntersectionLen counts the shared ids without allocating.
func (a ItemList) IntersectionLen(b ItemList) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for id := range a {
		if _, ok := b[id]; ok {
			count++
		}
	}
	return count
}
