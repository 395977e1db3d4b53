//go:build unit

package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactFormatter_Format(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2024, 1, 2, 13, 4, 5, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Link not ready",
		Data: logrus.Fields{
			FieldComponent: "static",
			FieldInterface: "wlan0",
			"trial":        3,
			"max_trials":   10,
		},
	}

	t.Run("WithoutTime", func(t *testing.T) {
		out, err := (&CompactFormatter{}).Format(entry)
		require.NoError(t, err)
		assert.Equal(t, "[WARNING][static][wlan0] Link not ready (max_trials=10, trial=3)\n", string(out))
	})

	t.Run("WithTime", func(t *testing.T) {
		out, err := (&CompactFormatter{ShowTime: true}).Format(entry)
		require.NoError(t, err)
		assert.Equal(t, "[13:04:05][WARNING][static][wlan0] Link not ready (max_trials=10, trial=3)\n", string(out))
	})

	t.Run("NoFields", func(t *testing.T) {
		bare := &logrus.Entry{Logger: logrus.New(), Level: logrus.InfoLevel, Message: "hello", Data: logrus.Fields{}}
		out, err := (&CompactFormatter{}).Format(bare)
		require.NoError(t, err)
		assert.Equal(t, "[INFO] hello\n", string(out))
	})
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	t.Run("JSONFormat", func(t *testing.T) {
		var buf bytes.Buffer
		InitLogger(LogConfig{Level: "debug", Format: "json", Output: &buf})
		assert.Equal(t, logrus.DebugLevel, Logger.GetLevel())

		buf.Reset()
		WithComponentAndInterface("static", "wlan0").Info("applied")

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "applied", line["msg"])
		assert.Equal(t, "static", line[FieldComponent])
		assert.Equal(t, "wlan0", line[FieldInterface])
	})

	t.Run("InvalidLevelDefaultsToInfo", func(t *testing.T) {
		var buf bytes.Buffer
		InitLogger(LogConfig{Level: "loud", Format: "simple", Output: &buf})
		assert.Equal(t, logrus.InfoLevel, Logger.GetLevel())
		assert.Contains(t, buf.String(), "Invalid log level 'loud'")
	})

	t.Run("InvalidFormatDefaultsToText", func(t *testing.T) {
		var buf bytes.Buffer
		InitLogger(LogConfig{Level: "info", Format: "xml", Output: &buf})
		_, ok := Logger.Formatter.(*logrus.TextFormatter)
		assert.True(t, ok)
		assert.Contains(t, buf.String(), "Invalid log format 'xml'")
	})

	t.Run("GetLoggerInitializesDefault", func(t *testing.T) {
		Logger = nil
		assert.NotNil(t, GetLogger())
		assert.Equal(t, logrus.InfoLevel, Logger.GetLevel())
	})
}
