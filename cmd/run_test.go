package cmd

import (
	"bytes"
	"context"
	"os"
	"runtime"
	"sync"
	"syscall"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/scienceol/keepawake/internal/power"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFacility struct {
	mu   sync.Mutex
	next power.Handle
	live map[power.Handle]power.Kind
}

func (f *countingFacility) Create(kind power.Kind, _ power.Level, _ string) (power.Status, power.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.live[f.next] = kind
	return power.StatusSuccess, f.next
}

func (f *countingFacility) Release(h power.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.live, h)
}

func (f *countingFacility) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func TestDisplayToggle(t *testing.T) {
	fac := &countingFacility{live: map[power.Handle]power.Kind{}}
	g, err := power.New(power.Options{Idle: true}, power.WithFacility(fac))
	require.NoError(t, err)

	d := &display{guard: g, logger: hclog.NewNullLogger()}
	d.toggle()
	assert.True(t, g.Active(power.KindDisplay))
	d.set(true)
	assert.Len(t, fac.live, 2)
	d.toggle()
	assert.False(t, g.Active(power.KindDisplay))

	require.NoError(t, g.Close())
	assert.Empty(t, fac.live)
}

func TestRunFlagsOnlyChanged(t *testing.T) {
	require.NoError(t, runCmd.ParseFlags([]string{"--idle", "--reason", "build"}))
	t.Cleanup(func() {
		flagIdle, flagReason = false, ""
		runCmd.Flags().Lookup("idle").Changed = false
		runCmd.Flags().Lookup("reason").Changed = false
	})

	f := runFlags(runCmd)
	require.NotNil(t, f.Idle)
	assert.True(t, *f.Idle)
	require.NotNil(t, f.Reason)
	assert.Equal(t, "build", *f.Reason)
	assert.Nil(t, f.Display)
	assert.Nil(t, f.Sleep)
	assert.Nil(t, f.AppName)
}

func TestRunCommandExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	require.NoError(t, runCommand(context.Background(), []string{"sh", "-c", "exit 0"}))

	err := runCommand(context.Background(), []string{"sh", "-c", "exit 3"})
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 3, ee.code)

	assert.Error(t, runCommand(context.Background(), []string{"keepawake-no-such-binary"}))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "keepawake v"+version+"\n", buf.String())
}

func TestDisplayClose_DropsLaterToggles(t *testing.T) {
	fac := &countingFacility{live: map[power.Handle]power.Kind{}}
	g, err := power.New(power.Options{Idle: true}, power.WithFacility(fac))
	require.NoError(t, err)

	d := &display{guard: g, logger: hclog.NewNullLogger()}
	d.close()
	d.toggle()
	d.set(true)

	assert.Zero(t, fac.liveCount())
	assert.False(t, g.Active(power.KindDisplay))
}

func TestToggleLoop_StopThenCloseReleasesEverything(t *testing.T) {
	for i := 0; i < 50; i++ {
		fac := &countingFacility{live: map[power.Handle]power.Kind{}}
		g, err := power.New(power.Options{Sleep: true}, power.WithFacility(fac))
		require.NoError(t, err)

		d := &display{guard: g, logger: hclog.NewNullLogger()}
		ch := make(chan os.Signal, 4)
		stop := d.toggleOn(ch)
		for j := 0; j < 3; j++ {
			ch <- syscall.SIGTERM
		}

		stop()
		d.close()
		assert.Zero(t, fac.liveCount(), "iteration %d", i)
	}
}
