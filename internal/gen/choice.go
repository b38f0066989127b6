package gen

// Choice pairs a candidate with its selection weight.
type Choice[T any] struct {
	Value  T
	Weight int
}

// PickWeighted draws one entry from an ordered weight table: a uniform
// bucket in [0, total) is walked through the table in order until it lands
// on an entry. Zero-weight entries are never picked. It panics if the total
// weight is not positive.
func PickWeighted[T any](s *Stream, table []Choice[T]) T {
	total := 0
	for _, c := range table {
		total += c.Weight
	}
	if total <= 0 {
		panic("weighted pick from an empty table")
	}

	bucket := s.Intn(total)
	for _, c := range table {
		if bucket < c.Weight {
			return c.Value
		}
		bucket -= c.Weight
	}
	panic("unreachable")
}

// PickOne returns a uniform element of elems. It panics if elems is empty.
func PickOne[T any](s *Stream, elems []T) T {
	if len(elems) == 0 {
		panic("uniform pick from an empty slice")
	}
	return elems[s.Intn(len(elems))]
}
