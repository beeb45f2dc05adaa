package logger

import (
	"go.uber.org/zap/zapcore"
)

type logSink interface {
	AddLog(entry LogEntry)
}

// DBCore tees warnings, errors and entries carrying a reason field into the
// log sink. Everything still reaches the wrapped core.
type DBCore struct {
	zapcore.Core
	sink   logSink
	fields []zapcore.Field
}

func NewDBCore(baseCore zapcore.Core, sink logSink) zapcore.Core {
	return &DBCore{Core: baseCore, sink: sink}
}

// With keeps the sink and remembers the fields so Write can still see them.
func (c *DBCore) With(fields []zapcore.Field) zapcore.Core {
	return &DBCore{
		Core:   c.Core.With(fields),
		sink:   c.sink,
		fields: append(append([]zapcore.Field(nil), c.fields...), fields...),
	}
}

func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	logEntry := LogEntry{
		Level:   entry.Level,
		Message: entry.Message,
		Caller:  entry.Caller.Function,
	}
	logEntry.extract(c.fields)
	logEntry.extract(fields)
	if entry.Level >= zapcore.WarnLevel || logEntry.Reason != "" {
		c.sink.AddLog(logEntry)
	}

	return c.Core.Write(entry, fields)
}

func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (e *LogEntry) extract(fields []zapcore.Field) {
	for _, f := range fields {
		if f.Type != zapcore.StringType {
			continue
		}
		switch f.Key {
		case "user_id":
			e.UserID = f.String
		case "route":
			e.Route = f.String
		case "reason":
			e.Reason = f.String
		case "ip":
			e.IpAddress = f.String
		}
	}
}
