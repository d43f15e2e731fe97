package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsObserver_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewMetricsObserver(reg)
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "apply-recovery-plan", Success: true, Duration: 3 * time.Millisecond})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "apply-recovery-plan", Err: contract.NewError(contract.ErrPlanAlreadyApplied, "again")})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "apply-recovery-plan", Err: errors.New("disk")})

	m := obs.(*metricsObserver)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.total.WithLabelValues("apply-recovery-plan", "ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.total.WithLabelValues("apply-recovery-plan", string(contract.ErrPlanAlreadyApplied))))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.total.WithLabelValues("apply-recovery-plan", "internal")))
	assert.Equal(t, 1, promtest.CollectAndCount(m.duration))
}

func TestLogObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "build-recovery-plan", UserID: "u1", Err: contract.NewError(contract.ErrNotWarranted, "early")})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "build-recovery-plan", UserID: "u1", Err: errors.New("disk")})

	dec := json.NewDecoder(&buf)
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "u1", first["user_id"])
	assert.Equal(t, "ERROR", second["level"])
	assert.Equal(t, "disk", second["error"])
}

func TestUseCaseObserverOrNoop_FansOut(t *testing.T) {
	var a, b int
	obs := useCaseObserverOrNoop([]UseCaseObserver{
		observerFunc(func(context.Context, UseCaseEvent) { a++ }),
		nil,
		observerFunc(func(context.Context, UseCaseEvent) { b++ }),
	})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{})
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)

	_, isNoop := useCaseObserverOrNoop(nil).(NoopUseCaseObserver)
	assert.True(t, isNoop)
}
