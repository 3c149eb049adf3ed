package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapUseCaseObserver_LogsSuccessAtInfo(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewZapUseCaseObserver(zap.New(core))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "refine-start",
		Duration: 1500 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"max_questions": 5, "active_modules": []string{"character"}},
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "service_use_case", entry.Message)
	assert.Equal(t, "service", entry.LoggerName)
	ctx := entry.ContextMap()
	assert.Equal(t, "refine-start", ctx["use_case"])
	assert.Equal(t, int64(1500), ctx["duration_ms"])
	assert.Equal(t, true, ctx["success"])
	assert.EqualValues(t, 5, ctx["max_questions"])
}

func TestZapUseCaseObserver_LogsFailureAtError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewZapUseCaseObserver(zap.New(core))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "history-delete",
		Err:  errors.New("boom"),
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "boom", entry.ContextMap()["error"])
}

func TestNewZapUseCaseObserver_NilLoggerIsNoop(t *testing.T) {
	obs := NewZapUseCaseObserver(nil)
	assert.IsType(t, NoopUseCaseObserver{}, obs)
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	rec := &recordingUseCaseObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
}
