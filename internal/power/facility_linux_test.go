//go:build linux

package power

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInhibitFacility(t *testing.T, lookup func(string) (string, error)) *inhibitFacility {
	t.Helper()
	f := newFacility("keepawake-test", hclog.NewNullLogger()).(*inhibitFacility)
	f.lookup = lookup
	return f
}

func TestInhibitFacility_MissingBinary(t *testing.T) {
	f := newTestInhibitFacility(t, func(string) (string, error) {
		return "", errors.New("not found")
	})

	status, h := f.Create(KindSleep, LevelOn, "test")
	assert.Equal(t, StatusUnsupported, status)
	assert.Zero(t, h)
}

func TestInhibitFacility_SpawnFailure(t *testing.T) {
	f := newTestInhibitFacility(t, func(string) (string, error) {
		return filepath.Join(t.TempDir(), "does-not-exist"), nil
	})

	status, h := f.Create(KindSleep, LevelOn, "test")
	assert.Equal(t, StatusSpawnFailed, status)
	assert.Zero(t, h)
}

func TestInhibitFacility_ChildExitsImmediately(t *testing.T) {
	script := filepath.Join(t.TempDir(), "systemd-inhibit")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'Failed to inhibit: Access denied' >&2\nexit 1\n"), 0o755))

	f := newTestInhibitFacility(t, func(string) (string, error) { return script, nil })

	status, h := f.Create(KindIdle, LevelOn, "test")
	assert.Equal(t, StatusExited, status)
	assert.Zero(t, h)
	assert.Empty(t, f.procs)

	g, err := New(Options{Idle: true}, WithFacility(f))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StatusExited, se.Status)
	assert.False(t, g.Active(KindIdle))
	require.NoError(t, g.Close())
}

func TestInhibitFacility_CreateRelease(t *testing.T) {
	script := filepath.Join(t.TempDir(), "systemd-inhibit")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexec sleep 1000\n"), 0o755))

	f := newTestInhibitFacility(t, func(string) (string, error) { return script, nil })

	s1, h1 := f.Create(KindDisplay, LevelOn, "test")
	s2, h2 := f.Create(KindSleep, LevelOn, "test")
	require.Equal(t, StatusSuccess, s1)
	require.Equal(t, StatusSuccess, s2)
	assert.NotZero(t, h1)
	assert.NotEqual(t, h1, h2)

	p := f.procs[h1]
	require.NotNil(t, p)
	assert.Contains(t, p.cmd.Args, "--what=idle")
	assert.Contains(t, p.cmd.Args, "--who=keepawake-test")
	assert.Contains(t, p.cmd.Args, "--mode=block")

	f.Release(h1)
	f.Release(h2)
	assert.Empty(t, f.procs)

	// unknown handles are ignored
	f.Release(h1)
}

func TestWhat(t *testing.T) {
	assert.Equal(t, "idle", what(KindDisplay))
	assert.Equal(t, "idle", what(KindIdle))
	assert.Equal(t, "sleep", what(KindSleep))
}
