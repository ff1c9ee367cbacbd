package neat

// splitMix64Source is a math/rand.Source64 whose entire state is a single
// uint64. The stdlib's default source (returned by rand.NewSource) keeps
// its state in an unexported array with no way to read or restore it, which
// makes byte-for-byte checkpoint resumption impossible with it. This
// generator exists solely to make that state exportable.
type splitMix64Source struct {
	state uint64
}

func newSplitMix64Source(seed int64) *splitMix64Source {
	return &splitMix64Source{state: uint64(seed)}
}

func (s *splitMix64Source) Uint64() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func (s *splitMix64Source) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

func (s *splitMix64Source) Seed(seed int64) {
	s.state = uint64(seed)
}
