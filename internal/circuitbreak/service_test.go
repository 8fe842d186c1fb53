package circuitbreak

import (
	"errors"
	"testing"

	prometheusConversas "github.com/josericardo-fo/jul.ia-bancodedados/internal/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	breaker := New[int]("test_backend", 30, 2)
	opened := testutil.ToFloat64(prometheusConversas.CircuitBreakerOpened.WithLabelValues("test_backend"))

	fail := func() (int, error) { return 0, errBackend }

	_, err := breaker.Execute(fail)
	require.ErrorIs(t, err, errBackend)
	require.Equal(t, gobreaker.StateClosed, breaker.State())

	_, err = breaker.Execute(fail)
	require.ErrorIs(t, err, errBackend)
	require.Equal(t, gobreaker.StateOpen, breaker.State())

	_, err = breaker.Execute(func() (int, error) { return 1, nil })
	require.ErrorIs(t, err, gobreaker.ErrOpenState)

	require.Equal(t, opened+1, testutil.ToFloat64(prometheusConversas.CircuitBreakerOpened.WithLabelValues("test_backend")))
}

func TestBreakerResetsOnSuccess(t *testing.T) {
	breaker := New[int]("flaky_backend", 30, 2)

	_, _ = breaker.Execute(func() (int, error) { return 0, errBackend })
	value, err := breaker.Execute(func() (int, error) { return 5, nil })
	require.NoError(t, err)
	require.Equal(t, 5, value)

	_, _ = breaker.Execute(func() (int, error) { return 0, errBackend })
	require.Equal(t, gobreaker.StateClosed, breaker.State())
}
