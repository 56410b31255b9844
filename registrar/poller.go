package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GetJob fetches the current state of a provisioning job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/domains/status/"+url.PathEscape(jobID), nil, nil, true)
	if err != nil {
		return nil, err
	}

	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job status: %w", err)
	}

	return &job, nil
}

// WaitForJob polls a provisioning job until it reaches a terminal state
// or the polling budget runs out. Session validity is re-checked on
// every iteration because a token valid at loop start can expire while
// the job is still provisioning.
func (c *Client) WaitForJob(ctx context.Context, jobID string) (*Job, error) {
	start := time.Now()

	for time.Since(start) < c.pollTimeout {
		if err := c.EnsureAuthenticated(ctx); err != nil {
			return nil, err
		}

		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch job.Status {
		case JobCompleted:
			c.logger.Info().
				Str("job_id", jobID).
				Str("domain", job.Domain).
				Dur("elapsed", time.Since(start)).
				Msg("Provisioning job completed")
			return job, nil
		case JobFailed:
			if job.Error != "" {
				return nil, fmt.Errorf("%w: %s", ErrJobFailed, job.Error)
			}
			return nil, fmt.Errorf("%w: job %s reported failure without detail", ErrJobFailed, jobID)
		}

		c.logger.Debug().
			Str("job_id", jobID).
			Str("status", string(job.Status)).
			Msg("Job still provisioning")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	return nil, fmt.Errorf("%w: job %s did not finish within %s; it may still be in progress, check its status again later", ErrJobPollTimeout, jobID, c.pollTimeout)
}
