package healthchecker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	name string
	err  error
	slow bool
}

func (f fakeTarget) Name() string { return f.name }

func (f fakeTarget) Check(ctx context.Context) error {
	if f.slow {
		<-ctx.Done()
		return ctx.Err()
	}

	return f.err
}

func TestCheckHealthy(t *testing.T) {
	checker := &Healthchecker{Timeout: time.Second}

	require.NoError(t, checker.Check(context.Background(), fakeTarget{name: "file"}, fakeTarget{name: "kafka"}))
}

func TestCheckAggregatesFailures(t *testing.T) {
	refused := errors.New("connection refused")
	checker := &Healthchecker{Timeout: 10 * time.Millisecond}

	err := checker.Check(context.Background(),
		fakeTarget{name: "file"},
		fakeTarget{name: "mongo", err: refused},
		fakeTarget{name: "kafka", slow: true},
	)

	require.ErrorIs(t, err, ErrUnhealthy)
	require.ErrorIs(t, err, refused)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorContains(t, err, "mongo: connection refused")
	require.NotContains(t, err.Error(), "file")
}
