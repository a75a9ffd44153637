package llm

import "github.com/alexanderramin/pathway/internal/logger"

// LLMCallEvent records metadata about a single completion call.
type LLMCallEvent struct {
	CallID     string
	Task       TaskType
	Model      string
	LatencyMs  int64
	Success    bool
	StatusCode int
	ErrorCode  string
}

// Observer receives events about completion calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes one structured log line per call.
type LogObserver struct {
	log *logger.Logger
}

// NewLogObserver creates an Observer that logs events through log.
func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{log: log.With("component", "llm")}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	kv := []any{
		"call_id", event.CallID,
		"task", string(event.Task),
		"model", event.Model,
		"latency_ms", event.LatencyMs,
	}
	if event.Success {
		o.log.Info("llm_call", append(kv, "status", "ok")...)
		return
	}
	if event.StatusCode != 0 {
		kv = append(kv, "http_status", event.StatusCode)
	}
	o.log.Warn("llm_call", append(kv, "status", "err:"+event.ErrorCode)...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
