package registrar

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jobServer serves scripted status responses for one job.
type jobServer struct {
	auth      authServer
	statuses  []map[string]any
	pollCalls int
}

func newJobServer(t *testing.T, statuses ...map[string]any) (*jobServer, string) {
	t.Helper()

	js := &jobServer{statuses: statuses}
	mux := http.NewServeMux()
	js.auth.handle(mux)
	mux.HandleFunc("/domains/status/", func(w http.ResponseWriter, r *http.Request) {
		idx := js.pollCalls
		if idx >= len(js.statuses) {
			idx = len(js.statuses) - 1
		}
		js.pollCalls++
		json.NewEncoder(w).Encode(js.statuses[idx])
	})

	server := newTestServer(t, mux)
	return js, server.URL
}

func pending(jobID string) map[string]any {
	return map[string]any{"jobId": jobID, "status": "pending", "domain": "example.com"}
}

func completed(jobID string) map[string]any {
	return map[string]any{
		"jobId":  jobID,
		"status": "completed",
		"domain": "example.com",
		"result": map[string]any{"txHash": "0xabc"},
	}
}

func TestWaitForJobImmediateCompletion(t *testing.T) {
	js, url := newJobServer(t, completed("job-1"))
	client := newTestClient(t, url, true, WithPollInterval(10*time.Millisecond))

	job, err := client.WaitForJob(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, 1, js.pollCalls)
	assert.Equal(t, JobCompleted, job.Status)
	assert.Equal(t, "example.com", job.Domain)
	assert.Equal(t, "0xabc", job.Result["txHash"])
}

func TestWaitForJobPendingThenCompletion(t *testing.T) {
	js, url := newJobServer(t,
		pending("job-1"),
		pending("job-1"),
		pending("job-1"),
		completed("job-1"),
	)
	interval := 20 * time.Millisecond
	client := newTestClient(t, url, true, WithPollInterval(interval))

	start := time.Now()
	job, err := client.WaitForJob(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, 4, js.pollCalls)
	assert.Equal(t, JobCompleted, job.Status)
	// Three waits separate the four polls.
	assert.GreaterOrEqual(t, time.Since(start), 3*interval)
}

func TestWaitForJobFailure(t *testing.T) {
	_, url := newJobServer(t, map[string]any{
		"jobId":  "job-1",
		"status": "failed",
		"error":  "name is reserved by the registry",
	})
	client := newTestClient(t, url, true, WithPollInterval(10*time.Millisecond))

	_, err := client.WaitForJob(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrJobFailed)
	assert.Contains(t, err.Error(), "name is reserved by the registry")
}

func TestWaitForJobFailureWithoutDetail(t *testing.T) {
	_, url := newJobServer(t, map[string]any{"jobId": "job-1", "status": "failed"})
	client := newTestClient(t, url, true, WithPollInterval(10*time.Millisecond))

	_, err := client.WaitForJob(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrJobFailed)
}

func TestWaitForJobTimeout(t *testing.T) {
	js, url := newJobServer(t, pending("job-1"))
	client := newTestClient(t, url, true,
		WithPollInterval(10*time.Millisecond),
		WithPollTimeout(60*time.Millisecond),
	)

	_, err := client.WaitForJob(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrJobPollTimeout)
	assert.Contains(t, err.Error(), "may still be in progress")
	assert.Greater(t, js.pollCalls, 1)
}

func TestWaitForJobRequiresWallet(t *testing.T) {
	js, url := newJobServer(t, completed("job-1"))
	client := newTestClient(t, url, false, WithPollInterval(10*time.Millisecond))

	_, err := client.WaitForJob(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrNoWallet)
	assert.Equal(t, 0, js.pollCalls)
}

func TestWaitForJobContextCancellation(t *testing.T) {
	_, url := newJobServer(t, pending("job-1"))
	client := newTestClient(t, url, true,
		WithPollInterval(50*time.Millisecond),
		WithPollTimeout(10*time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.WaitForJob(ctx, "job-1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobPending.Terminal())
	assert.False(t, JobProcessing.Terminal())
	assert.True(t, JobCompleted.Terminal())
	assert.True(t, JobFailed.Terminal())
}
