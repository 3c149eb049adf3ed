package llm

import (
	"go.uber.org/zap"
)

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Task      TaskType
	Backend   Backend
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// FallbackEvent records a component substituting a locally computed result
// for a failed or unparsable completion.
type FallbackEvent struct {
	Component string
	Task      TaskType
	Reason    string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
	OnFallback(event FallbackEvent)
}

// ZapObserver writes LLM call and fallback events to a zap logger.
type ZapObserver struct {
	log      *zap.Logger
	logCalls bool
}

// NewZapObserver creates an Observer backed by log. Successful calls are
// logged at debug level unless logCalls is set, which raises them to info.
func NewZapObserver(log *zap.Logger, logCalls bool) *ZapObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapObserver{log: log.Named("llm"), logCalls: logCalls}
}

func (o *ZapObserver) OnCallComplete(event LLMCallEvent) {
	fields := []zap.Field{
		zap.String("task", string(event.Task)),
		zap.String("backend", string(event.Backend)),
		zap.String("model", event.Model),
		zap.Int64("latency_ms", event.LatencyMs),
		zap.Int("attempts", event.Attempts),
	}
	if !event.Success {
		o.log.Warn("llm call failed", append(fields, zap.String("error_code", event.ErrorCode))...)
		return
	}
	if o.logCalls {
		o.log.Info("llm call", fields...)
		return
	}
	o.log.Debug("llm call", fields...)
}

func (o *ZapObserver) OnFallback(event FallbackEvent) {
	o.log.Info("using fallback",
		zap.String("component", event.Component),
		zap.String("task", string(event.Task)),
		zap.String("reason", event.Reason),
	)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}

func (NoopObserver) OnFallback(FallbackEvent) {}
