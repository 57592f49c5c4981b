package scoring

// Set is a finite set of comparable identifiers. Correct answers and trainee
// selections are both modelled as a Set so the engine compares identities,
// never positions.
type Set[T comparable] map[T]struct{}

func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, v := range items {
		s[v] = struct{}{}
	}
	return s
}

func (s Set[T]) Add(v T) {
	s[v] = struct{}{}
}

func (s Set[T]) Contains(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Len() int {
	return len(s)
}

func (s Set[T]) IsEmpty() bool {
	return len(s) == 0
}

func (s Set[T]) Equal(other Set[T]) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// IntersectCount returns |s ∩ other|.
func (s Set[T]) IntersectCount(other Set[T]) int {
	n := 0
	for v := range s {
		if other.Contains(v) {
			n++
		}
	}
	return n
}

// DiffCount returns |s − other|.
func (s Set[T]) DiffCount(other Set[T]) int {
	return len(s) - s.IntersectCount(other)
}

func (s Set[T]) Values() []T {
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}

// AnswerSet holds answer IDs for a single question.
type AnswerSet = Set[uint]

func NewAnswerSet(ids ...uint) AnswerSet {
	return NewSet(ids...)
}
