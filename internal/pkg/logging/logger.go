package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// Fields rendered in brackets ahead of the message by CompactFormatter.
const (
	FieldComponent = "component"
	FieldInterface = "interface"
)

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string    `yaml:"level"`
	Format string    `yaml:"format"` // json, text, simple, or compact
	Output io.Writer `yaml:"-"`      // defaults to stdout
}

// CompactFormatter renders one line per entry: [time][LEVEL][component][interface] message (k=v, ...)
type CompactFormatter struct {
	ShowTime bool
}

// Format renders a single log entry
func (f *CompactFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	if f.ShowTime {
		fmt.Fprintf(b, "[%s]", entry.Time.Format("15:04:05"))
	}
	fmt.Fprintf(b, "[%s]", strings.ToUpper(entry.Level.String()))

	for _, key := range []string{FieldComponent, FieldInterface} {
		if v, ok := entry.Data[key]; ok {
			fmt.Fprintf(b, "[%v]", v)
		}
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != FieldComponent && k != FieldInterface {
			keys = append(keys, k)
		}
	}

	if len(keys) > 0 {
		sort.Strings(keys)
		b.WriteString(" (")
		for i, key := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s=%v", key, entry.Data[key])
		}
		b.WriteString(")")
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// InitLogger initializes the global logger with the provided configuration
func InitLogger(config LogConfig) {
	Logger = logrus.New()

	if config.Output != nil {
		Logger.SetOutput(config.Output)
	} else {
		Logger.SetOutput(os.Stdout)
	}

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
		Logger.Warnf("Invalid log level '%s', defaulting to 'info'", config.Level)
	}
	Logger.SetLevel(level)

	textFormatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}

	switch strings.ToLower(config.Format) {
	case "json":
		Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case "simple":
		Logger.SetFormatter(&CompactFormatter{ShowTime: false})
	case "compact":
		Logger.SetFormatter(&CompactFormatter{ShowTime: true})
	case "text", "":
		Logger.SetFormatter(textFormatter)
	default:
		Logger.SetFormatter(textFormatter)
		Logger.Warnf("Invalid log format '%s', defaulting to 'text'", config.Format)
	}

	Logger.Debugf("Logger initialized with level: %s, format: %s", level.String(), config.Format)
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		InitLogger(LogConfig{
			Level:  "info",
			Format: "text",
		})
	}
	return Logger
}

func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField(FieldComponent, component)
}

func WithComponentAndInterface(component, iface string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		FieldComponent: component,
		FieldInterface: iface,
	})
}

func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}
