package logger

import (
	"fmt"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap/zapcore"
)

// taggedFields are promoted from extra data to Sentry tags so events can be
// grouped by platform and provider.
var taggedFields = []string{"platform", "provider", "kind", "request_id"}

// sentryCore is a zapcore.Core that forwards entries to Sentry.
type sentryCore struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
}

func (c *sentryCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)

	return &sentryCore{LevelEnabler: c.LevelEnabler, fields: merged}
}

func (c *sentryCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}

	return checked
}

func (c *sentryCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)

	sentry.CaptureEvent(buildEvent(entry, all))

	return nil
}

func (c *sentryCore) Sync() error {
	sentry.Flush(sentryFlushTimeout)

	return nil
}

// buildEvent converts a log entry into a Sentry event. Fields become extra
// data; an error field becomes the event exception.
func buildEvent(entry zapcore.Entry, fields []zapcore.Field) *sentry.Event {
	enc := zapcore.NewMapObjectEncoder()
	var errField error
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if err, ok := f.Interface.(error); ok {
				errField = err
			}
		}
		f.AddTo(enc)
	}

	event := sentry.NewEvent()
	event.Level = sentryLevel(entry.Level)
	event.Message = entry.Message
	event.Logger = entry.LoggerName
	event.Timestamp = entry.Time
	event.Extra = enc.Fields

	for _, key := range taggedFields {
		if v, ok := enc.Fields[key].(string); ok && v != "" {
			event.Tags[key] = v
		}
	}

	if errField != nil {
		event.Exception = []sentry.Exception{{
			Type:  fmt.Sprintf("%T", errField),
			Value: errField.Error(),
		}}
	}

	return event
}

func sentryLevel(level zapcore.Level) sentry.Level {
	switch level {
	case zapcore.DebugLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	default:
		return sentry.LevelFatal
	}
}
