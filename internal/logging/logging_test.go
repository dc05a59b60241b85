package logging

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  hclog.Level
	}{
		{"debug", hclog.Debug},
		{"INFO", hclog.Info},
		{"error", hclog.Error},
		{"", hclog.Warn},
		{"nonsense", hclog.Warn},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := newWithOutput(tt.level, &bytes.Buffer{})
			assert.Equal(t, tt.want, l.GetLevel())
			assert.Equal(t, "keepawake", l.Name())
		})
	}
}

func TestNewWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	l := newWithOutput("info", &buf)
	l.Info("assertion created", "kind", "display")
	assert.Contains(t, buf.String(), "assertion created")
	assert.Contains(t, buf.String(), "kind=display")
}
