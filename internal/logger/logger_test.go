package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferedLogger(buf *bytes.Buffer, level zapcore.Level) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(buf),
		level,
	)
	return zap.New(core)
}

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			log, err := New(env, true)
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestNew_QuietByDefault(t *testing.T) {
	log, err := New("development", false)
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

// Debug entries only reach the output when verbose logging is on
func TestProperty_VerboseControlsDebugOutput(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("debug entries are written only when verbose", prop.ForAll(
		func(message string, verbose bool) bool {
			var buf bytes.Buffer
			log := newBufferedLogger(&buf, Level(verbose))
			defer log.Sync()

			log.Debug(message)

			if !verbose {
				return buf.Len() == 0
			}

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}
			return entry["message"] == message && entry["level"] == "debug"
		},
		gen.AnyString(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Warnings are always written, whatever the verbosity
func TestProperty_WarningsAlwaysWritten(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("warn entries include their context fields", prop.ForAll(
		func(message string, errorMsg string, verbose bool) bool {
			var buf bytes.Buffer
			log := newBufferedLogger(&buf, Level(verbose))
			defer log.Sync()

			log.Warn(message, zap.String("error", errorMsg))

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}
			return entry["error"] == errorMsg
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
