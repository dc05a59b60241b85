//go:build windows

package power

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionFacility_CombinesLiveLeases(t *testing.T) {
	f := newFacility("keepawake-test", hclog.NewNullLogger()).(*executionFacility)

	s1, idle := f.Create(KindIdle, LevelOn, "test")
	require.Equal(t, StatusSuccess, s1)
	assert.Equal(t, uintptr(esSystemRequired), f.combinedLocked())

	s2, disp := f.Create(KindDisplay, LevelOn, "test")
	require.Equal(t, StatusSuccess, s2)
	assert.Equal(t, uintptr(esSystemRequired|esDisplayRequired), f.combinedLocked())

	f.Release(disp)
	assert.Equal(t, uintptr(esSystemRequired), f.combinedLocked())
	f.Release(idle)
	assert.Zero(t, f.combinedLocked())
	assert.Empty(t, f.live)
}
