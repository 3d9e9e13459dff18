package runtime

import (
	"log/slog"

	"github.com/aretw0/rdrscript/pkg/domain"
)

// Reporter receives events the session consumed without acting on them.
type Reporter interface {
	// Unmatched is called for events no subscription matched.
	Unmatched(msg *domain.Message)

	// Unresolved is called when a subscription names an operation the script does not define.
	Unresolved(action string, msg *domain.Message)
}

// LogReporter writes reports to a structured logger.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a reporter backed by logger.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Unmatched(msg *domain.Message) {
	r.logger.Info("event not handled",
		"event", msg.Event,
		"target", msg.Target,
		"target_value", domain.FormatHandle(msg.TargetValue),
		"element_type", msg.ElementType,
		"element", msg.Element,
		"data", Payload(msg),
	)
}

func (r *LogReporter) Unresolved(action string, msg *domain.Message) {
	r.logger.Warn("named operation not defined",
		"action", action,
		"event", msg.Event,
		"target", msg.Target,
	)
}

// Payload renders the data of a message for display.
func Payload(msg *domain.Message) string {
	switch msg.DataType {
	case domain.DataText:
		s, _ := msg.Data.AsString()
		return s
	case domain.DataEJSON:
		return msg.Data.String()
	default:
		return "VOID"
	}
}
