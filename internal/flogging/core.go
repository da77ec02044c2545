package flogging

import (
	"go.uber.org/zap/zapcore"
)

// core looks up the current sink of its Logging on every write, so loggers
// created at package init follow later calls to Apply.
type core struct {
	zapcore.LevelEnabler
	logging *Logging
	fields  []zapcore.Field
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	clone := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	clone = append(clone, c.fields...)
	clone = append(clone, fields...)
	return &core{
		LevelEnabler: c.LevelEnabler,
		logging:      c.logging,
		fields:       clone,
	}
}

func (c *core) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c *core) Write(e zapcore.Entry, fields []zapcore.Field) error {
	sink := c.sink()
	if len(c.fields) > 0 {
		sink = sink.With(c.fields)
	}
	return sink.Write(e, fields)
}

func (c *core) Sync() error {
	return c.sink().Sync()
}

func (c *core) sink() zapcore.Core {
	c.logging.mutex.RLock()
	defer c.logging.mutex.RUnlock()
	return c.logging.sink
}
