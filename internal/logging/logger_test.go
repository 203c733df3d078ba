package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		expected    []string
		notExpected []string
	}{
		{
			name:     "debug level shows all messages",
			level:    "debug",
			expected: []string{"debug message", "info message", "warn message", "error message"},
		},
		{
			name:        "info level hides debug messages",
			level:       "info",
			expected:    []string{"info message", "warn message", "error message"},
			notExpected: []string{"debug message"},
		},
		{
			name:        "error level shows only errors",
			level:       "error",
			expected:    []string{"error message"},
			notExpected: []string{"debug message", "info message", "warn message"},
		},
		{
			name:        "off level shows nothing",
			level:       "off",
			notExpected: []string{"debug message", "info message", "warn message", "error message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, ParseLevel(tt.level))
			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message")

			out := buf.String()
			for _, s := range tt.expected {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notExpected {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, LevelOff, ParseLevel("off"))
	assert.Equal(t, log.InfoLevel, ParseLevel("bogus"))
	assert.True(t, ValidLevel("error"))
	assert.False(t, ValidLevel("bogus"))
}

func TestGlobalLoggerFields(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	var buf bytes.Buffer
	SetLogger(New(&buf, log.DebugLevel))

	WithFields(Fields{"part": "/word/document.xml", "size": Size(2048)}).Debug("loaded")
	WithField("op", "save").Info("written")

	out := buf.String()
	assert.Contains(t, out, "ooxml")
	assert.Contains(t, out, "part=/word/document.xml")
	assert.Contains(t, out, "size=\"2.0 KiB\"")
	assert.Contains(t, out, "op=save")
}

func TestSetLoggerNil(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	SetLogger(nil)
	assert.NotPanics(t, func() { Info("discarded") })
	assert.Equal(t, LevelOff, GetLogger().GetLevel())
}
