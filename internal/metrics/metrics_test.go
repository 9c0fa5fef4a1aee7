package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"sdtr/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *domain.RunResult {
	started := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	run := &domain.RunResult{ID: "run-1", Phrase: "nightly", Started: started, Finished: started.Add(2 * time.Minute)}
	run.Append(domain.NewTargetResult("login", 4, 1))
	run.Append(domain.NewFailedTargetResult("checkout", errors.New("missing badge")))
	return run
}

func TestRecorder_Record(t *testing.T) {
	r := NewRecorder(t.TempDir(), "", nil)
	r.Record(sampleRun())

	assert.Equal(t, 4.0, testutil.ToFloat64(r.targetPassed.WithLabelValues("nightly", "login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.targetFailed.WithLabelValues("nightly", "login")))
	assert.Equal(t, 80.0, testutil.ToFloat64(r.targetPassRatio.WithLabelValues("nightly", "login")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.targetReportError.WithLabelValues("nightly", "login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.targetReportError.WithLabelValues("nightly", "checkout")))
	assert.Equal(t, 80.0, testutil.ToFloat64(r.runPassRatio.WithLabelValues("nightly")))
	assert.Equal(t, 120.0, testutil.ToFloat64(r.runDuration.WithLabelValues("nightly")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder(t.TempDir(), "", nil)
	require.NoError(t, r.Write(context.Background(), sampleRun()))

	data, err := os.ReadFile(r.TextfilePath())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `sdtr_target_tests_passed{phrase="nightly",target="login"} 4`)
	assert.Contains(t, content, `sdtr_run_pass_ratio_percent{phrase="nightly"} 80`)
}

func TestRecorder_Push(t *testing.T) {
	var gotPath, gotMethod, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		gotMethod = req.Method
		body, _ := io.ReadAll(req.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := NewRecorder(t.TempDir(), server.URL, nil)
	require.NoError(t, r.Write(context.Background(), sampleRun()))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/metrics/job/sdtr", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestRecorder_PushFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := NewRecorder(t.TempDir(), server.URL, nil)
	err := r.Write(context.Background(), sampleRun())
	assert.ErrorContains(t, err, "push metrics")
	assert.FileExists(t, r.TextfilePath(), "textfile is written before pushing")
}
