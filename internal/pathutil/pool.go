package pathutil

import "sync"

// Builders deeper than maxPooledDepth are left to the garbage collector.
const (
	initialDepth   = 8
	maxPooledDepth = 64
)

var builders = sync.Pool{
	New: func() any {
		return &PathBuilder{segments: make([]string, 0, initialDepth)}
	},
}

// Get returns an empty PathBuilder from the pool. Return it with Put.
func Get() *PathBuilder {
	p := builders.Get().(*PathBuilder)
	p.Reset()
	return p
}

// Put returns p to the pool.
func Put(p *PathBuilder) {
	if p != nil && cap(p.segments) <= maxPooledDepth {
		builders.Put(p)
	}
}
