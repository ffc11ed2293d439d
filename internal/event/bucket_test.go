package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketAddIsIdempotent(t *testing.T) {
	b := NewBucket()
	b.Add("cond-a")
	b.Add("cond-a")
	b.Add("cond-b")
	assert.Equal(t, 2, b.Len())
}

func TestBucketDrainEmptiesSet(t *testing.T) {
	b := NewBucket()
	b.Add("cond-a")
	b.Add("cond-b")

	drained := b.Drain()
	assert.ElementsMatch(t, []string{"cond-a", "cond-b"}, drained)
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Drain())
}
