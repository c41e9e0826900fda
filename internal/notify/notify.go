// Package notify is the client's user-facing notification surface, standing
// in for the toast/prompt layer of the UI.
package notify

import "log/slog"

// Notifier surfaces outcomes to the user. Prompt is the inline "login
// required" affordance; Failure is a failure toast; Info is a success toast.
type Notifier interface {
	Prompt(msg string)
	Failure(msg string)
	Info(msg string)
}

// Log routes notifications to structured logging. It is the default sink
// when no UI layer is attached.
type Log struct {
	Logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{Logger: logger}
}

func (l *Log) Prompt(msg string) {
	l.Logger.Warn("PROMPT", slog.String("message", msg))
}

func (l *Log) Failure(msg string) {
	l.Logger.Error("TOAST_FAILURE", slog.String("message", msg))
}

func (l *Log) Info(msg string) {
	l.Logger.Info("TOAST_INFO", slog.String("message", msg))
}

// Spy records notifications for tests.
type Spy struct {
	Prompts  []string
	Failures []string
	Infos    []string
}

func (s *Spy) Prompt(msg string)  { s.Prompts = append(s.Prompts, msg) }
func (s *Spy) Failure(msg string) { s.Failures = append(s.Failures, msg) }
func (s *Spy) Info(msg string)    { s.Infos = append(s.Infos, msg) }
