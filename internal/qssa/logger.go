package qssa

import "fmt"

// Logger is the printf-style sink used by engines, ensembles and the
// notification manager. *zap.SugaredLogger satisfies it as is.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

type discardLogger struct{}

func (discardLogger) Debugf(string, ...any) {}
func (discardLogger) Infof(string, ...any)  {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Errorf(string, ...any) {}

// NewNoOpLogger returns a Logger that drops everything.
func NewNoOpLogger() Logger {
	return discardLogger{}
}

// memberLogger tags every line with the run and trajectory it belongs to.
type memberLogger struct {
	next   Logger
	prefix string
}

func withTrajectory(l Logger, runID string, index int) Logger {
	if _, ok := l.(discardLogger); ok {
		return l
	}
	return memberLogger{next: l, prefix: fmt.Sprintf("run_id=%s trajectory=%d ", runID, index)}
}

func (m memberLogger) Debugf(format string, v ...any) { m.next.Debugf(m.prefix+format, v...) }
func (m memberLogger) Infof(format string, v ...any)  { m.next.Infof(m.prefix+format, v...) }
func (m memberLogger) Warnf(format string, v ...any)  { m.next.Warnf(m.prefix+format, v...) }
func (m memberLogger) Errorf(format string, v ...any) { m.next.Errorf(m.prefix+format, v...) }
