package event

import "sync"

// Bucket is the deduplicating set of condition names an event fired into,
// drained by the bucket condition variant, grounded on the "execution
// bucket" described for the event listener.
type Bucket struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewBucket builds an empty execution bucket.
func NewBucket() *Bucket {
	return &Bucket{names: make(map[string]struct{})}
}

// Add inserts name into the bucket; duplicates are no-ops.
func (b *Bucket) Add(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.names[name] = struct{}{}
}

// Drain empties the bucket and returns every name it held.
func (b *Bucket) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.names))
	for n := range b.names {
		out = append(out, n)
	}
	b.names = make(map[string]struct{})
	return out
}

// Len reports how many names are currently queued.
func (b *Bucket) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.names)
}
