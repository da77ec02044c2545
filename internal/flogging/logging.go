// Package flogging provides named, leveled zap loggers for the engine.
package flogging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is used to provide dependencies to a Logging instance.
type Config struct {
	// Format is either "json" or "console". Empty means console.
	Format string

	// Spec is the minimum enabled level: debug, info, warn or error.
	// Empty means info.
	Spec string

	// Writer is the sink for encoded log records. Defaults to os.Stderr.
	Writer io.Writer
}

// Logging owns the zap sink shared by every named logger.
type Logging struct {
	mutex sync.RWMutex
	level zap.AtomicLevel
	sink  zapcore.Core
}

// Global is the logging system used by MustGetLogger.
var Global = mustNew(Config{})

// New creates a logging system and applies c.
func New(c Config) (*Logging, error) {
	l := &Logging{level: zap.NewAtomicLevel()}
	if err := l.Apply(c); err != nil {
		return nil, err
	}
	return l, nil
}

func mustNew(c Config) *Logging {
	l, err := New(c)
	if err != nil {
		panic(err)
	}
	return l
}

// Apply applies the provided configuration to the logging system. Loggers
// obtained before the call switch to the new level and sink.
func (l *Logging) Apply(c Config) error {
	level, err := ParseLevel(c.Spec)
	if err != nil {
		return err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.NameKey = "name"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(c.Format) {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "", "console":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return errors.Errorf("invalid log format [%s]", c.Format)
	}

	w := c.Writer
	if w == nil {
		w = os.Stderr
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.level.SetLevel(level)
	l.sink = zapcore.NewCore(encoder, zapcore.AddSync(w), l.level)
	return nil
}

// Logger returns a named sugared logger backed by this logging system.
func (l *Logging) Logger(name string) *zap.SugaredLogger {
	c := &core{LevelEnabler: l.level, logging: l}
	return zap.New(c, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Named(name).Sugar()
}

// SetLevel changes the enabled level of every logger.
func (l *Logging) SetLevel(spec string) error {
	level, err := ParseLevel(spec)
	if err != nil {
		return err
	}
	l.level.SetLevel(level)
	return nil
}

// ParseLevel converts a level spec into a zapcore.Level.
func ParseLevel(spec string) (zapcore.Level, error) {
	if spec == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(spec))); err != nil {
		return zapcore.InfoLevel, errors.Wrapf(err, "invalid log spec [%s]", spec)
	}
	return level, nil
}

// Init reconfigures the global logging system.
func Init(c Config) error {
	return Global.Apply(c)
}

// MustGetLogger returns a logger with the given name from the global system.
func MustGetLogger(name string) *zap.SugaredLogger {
	return Global.Logger(name)
}
