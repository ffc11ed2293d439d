package singleinstance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almostearthling/whenever-sub000/internal/wres"
)

func TestAcquireRejectsSecondInstance(t *testing.T) {
	name := "design-ledger-test"

	first, err := Acquire(name)
	require.NoError(t, err)
	defer first.Release()

	assert.NotEmpty(t, first.Token())

	_, err = Acquire(name)
	require.Error(t, err)
	assert.True(t, wres.Is(err, wres.KindForbidden))
}

func TestReleaseAllowsReacquire(t *testing.T) {
	name := "design-ledger-reacquire"

	first, err := Acquire(name)
	require.NoError(t, err)
	require.NoError(t, first.Release())

	second, err := Acquire(name)
	require.NoError(t, err)
	defer second.Release()
}
