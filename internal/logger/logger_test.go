package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/screa/fixpoint-miner/pkg/types"
)

func TestNewWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, zapcore.InfoLevel)

	log.Debugf("hidden %d", 1)
	log.Infof("Starting with %d workers", 4)
	require.NoError(t, log.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Starting with 4 workers", entry["msg"])
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, LevelFor(types.Silent))
	assert.Equal(t, zapcore.InfoLevel, LevelFor(types.Compact))
	assert.Equal(t, zapcore.DebugLevel, LevelFor(types.Detailed))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Infof("nothing %s", "here") })
}
