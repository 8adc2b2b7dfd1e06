// Package bloom provides the negative-lookup front for character name sets.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Sizing for the first layer. A season produces on the order of a hundred
// thousand non-ladder names.
const (
	DefaultCapacity          = 100000
	DefaultFalsePositiveRate = 0.01
)

// Filter is a scalable Bloom filter over character names. It starts with one
// layer sized for the configured capacity; once that many names were added a
// new layer twice as large with half the false positive rate takes new names,
// so the compound false positive rate stays below twice the configured one.
// Filter is not safe for concurrent use.
type Filter struct {
	layers   []*bloom.BloomFilter
	capacity uint
	fpRate   float64
	inLayer  uint
	count    int
}

// Option configures a Filter.
type Option func(*Filter)

// WithCapacity sets how many names the first layer holds.
func WithCapacity(n uint) Option {
	return func(f *Filter) {
		f.capacity = n
	}
}

// WithFalsePositiveRate sets the first layer's false positive rate.
func WithFalsePositiveRate(p float64) Option {
	return func(f *Filter) {
		f.fpRate = p
	}
}

// NewFilter creates an empty Filter.
func NewFilter(opts ...Option) *Filter {
	f := &Filter{
		capacity: DefaultCapacity,
		fpRate:   DefaultFalsePositiveRate,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.capacity == 0 {
		f.capacity = DefaultCapacity
	}
	if f.fpRate <= 0 || f.fpRate >= 1 {
		f.fpRate = DefaultFalsePositiveRate
	}
	f.layers = []*bloom.BloomFilter{bloom.NewWithEstimates(f.capacity, f.fpRate)}
	return f
}

// Add records a name, starting a new layer when the current one is full.
func (f *Filter) Add(name string) {
	if f.inLayer >= f.capacity {
		f.capacity *= 2
		f.fpRate /= 2
		f.layers = append(f.layers, bloom.NewWithEstimates(f.capacity, f.fpRate))
		f.inLayer = 0
	}
	f.layers[len(f.layers)-1].AddString(name)
	f.inLayer++
	f.count++
}

// MayContain reports whether the name might have been added.
// A false result is definitive.
func (f *Filter) MayContain(name string) bool {
	for _, l := range f.layers {
		if l.TestString(name) {
			return true
		}
	}
	return false
}

// Len returns the number of Add calls.
func (f *Filter) Len() int {
	return f.count
}

// Layers returns the number of layers allocated so far.
func (f *Filter) Layers() int {
	return len(f.layers)
}
