package tracer

// Sampler yields uniformly distributed pseudo-random floats in [0,1). Each
// parallel work item owns exactly one sampler instance; sequences are
// deterministic for a given (lane, seed) pair and independent across lanes.
type Sampler interface {
	Float32() float32
}

// xorshift64* generator.
type xorShiftSampler struct {
	state uint64
}

// Create a sampler for the given work item. The lane index and seed are
// scrambled with a splitmix64 round so that adjacent lanes do not start in
// correlated states.
func NewSampler(laneIndex, seed uint32) Sampler {
	z := (uint64(seed) << 32) | uint64(laneIndex)
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	if z == 0 {
		// xorshift state must never be zero
		z = 0x9e3779b97f4a7c15
	}
	return &xorShiftSampler{state: z}
}

func (s *xorShiftSampler) Float32() float32 {
	s.state ^= s.state >> 12
	s.state ^= s.state << 25
	s.state ^= s.state >> 27
	v := s.state * 0x2545f4914f6cdd1d
	// keep the top 24 bits so the result stays strictly below 1.0
	return float32(v>>40) * (1.0 / (1 << 24))
}
