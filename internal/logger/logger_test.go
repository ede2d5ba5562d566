package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name          string
		level         string
		expectedLevel logrus.Level
	}{
		{name: "debug level", level: "debug", expectedLevel: logrus.DebugLevel},
		{name: "warn level", level: "warn", expectedLevel: logrus.WarnLevel},
		{name: "unknown level falls back to info", level: "chatty", expectedLevel: logrus.InfoLevel},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log := New(&bytes.Buffer{}, tc.level, "text")
			assert.Equal(t, tc.expectedLevel, log.GetLevel())
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")
	log.WithField("username", "alice").Info("snapshot ready")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "alice", entry["username"])
	assert.Equal(t, "snapshot ready", entry["msg"])
}
