package wres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(KindBusy, "condition busy")
	assert.True(t, Is(err, KindBusy))
	assert.False(t, Is(err, KindFailed))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindFailed, OriginStdIO, "spawn failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "spawn failed")
}
