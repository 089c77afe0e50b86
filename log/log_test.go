package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		out = append(out, m)
	}
	return out
}

func TestLevels(t *testing.T) {
	t.Cleanup(func() { Init(LogLevelInfo, "stderr") })

	var buf bytes.Buffer
	initWriter(LogLevelWarn, &buf)
	assert.Equal(t, LogLevelWarn, Level())

	Debugw("hidden")
	Infow("hidden", "n", 1)
	Warnw("group check failed", "modulusBits", 128, "dangling")
	Errorw(errors.New("boom"), "batch aborted", "stage", "guard")

	got := lines(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "warn", got[0]["level"])
	assert.Equal(t, "group check failed", got[0]["message"])
	assert.Equal(t, float64(128), got[0]["modulusBits"])
	assert.Equal(t, "dangling", got[0]["EXTRA_VALUE_AT_END"])
	assert.Equal(t, "error", got[1]["level"])
	assert.Equal(t, "boom", got[1]["error"])
	assert.Equal(t, "guard", got[1]["stage"])
}

func TestUnknownLevel(t *testing.T) {
	t.Cleanup(func() { Init(LogLevelInfo, "stderr") })

	var buf bytes.Buffer
	initWriter("chatty", &buf)
	assert.Equal(t, LogLevelInfo, Level())
	Debugw("hidden")
	Infow("shown")
	assert.Len(t, lines(t, &buf), 1)
}
