package prometheus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushSendsGroupedMetrics(t *testing.T) {
	var (
		method string
		path   string
		body   []byte
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	RecordsGenerated.WithLabelValues("complete", "scheduling").Add(3)

	err := Push(context.Background(), server.URL, "conversas", "run-1")
	require.NoError(t, err)

	require.Equal(t, http.MethodPut, method)
	require.Equal(t, "/metrics/job/conversas/run_id/run-1", path)
	require.NotEmpty(t, body)
}

func TestPushReportsGatewayErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := Push(context.Background(), server.URL, "conversas", "run-2")
	require.Error(t, err)
}
