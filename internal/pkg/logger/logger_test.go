package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Logging: config.LoggingConfig{Level: "warn", Format: "json"}}

	log := NewWithWriter(cfg, &buf)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("dropped")
	log.WithField("order_number", "TP123456ABCD").Warn("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "TP123456ABCD", entry["order_number"])
}

func TestNewWithWriter_UnknownLevelFallsBackToInfo(t *testing.T) {
	cfg := &config.Config{Logging: config.LoggingConfig{Level: "loud", Format: "text"}}
	log := NewWithWriter(cfg, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
