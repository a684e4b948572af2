package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for in, expected := range cases {
		lvl, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, lvl, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	l := CreateLogger(PkgChildren)
	l.Debugf("hidden %d", 1)
	assert.Empty(t, buf.String(), "debug must be filtered at the default level")

	l.Infof("switched to %s", "hash")
	assert.Contains(t, buf.String(), "INFO  | children   | switched to hash")

	buf.Reset()
	l.SetLevel(logger.DEBUG)
	l.Debugf("visible")
	assert.Contains(t, buf.String(), "DEBUG | children   | visible")

	buf.Reset()
	l.SetLevel(logger.ERROR)
	l.Warningf("dropped")
	l.Errorf("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "ERROR | children   | kept")
}

func TestPanicf(t *testing.T) {
	SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { SetOutput(os.Stderr) })

	assert.PanicsWithValue(t, "broken invariant 7", func() {
		CreateLogger(PkgSortedMap).Panicf("broken invariant %d", 7)
	})
}

func TestInitLoggersRejectsInvalidLevel(t *testing.T) {
	assert.Error(t, InitLoggers("loud"))
}
