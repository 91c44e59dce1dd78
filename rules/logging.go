package rules

import "time"

// LogEvent describes an evaluation attempt for logging.
type LogEvent struct {
	Engine   string
	Expr     string
	Duration time.Duration
	Err      error
}

// RuleLogger records evaluator events.
type RuleLogger interface {
	LogEvaluation(LogEvent)
}

// RuleLoggerFunc adapts a function to RuleLogger.
type RuleLoggerFunc func(LogEvent)

// LogEvaluation implements RuleLogger.
func (f RuleLoggerFunc) LogEvaluation(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopRuleLogger struct{}

func (noopRuleLogger) LogEvaluation(LogEvent) {}
