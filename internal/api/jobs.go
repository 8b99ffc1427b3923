package api

import (
	"context"
	"fmt"

	"github.com/altinukshini/logview/internal/model"
)

func (c *Client) GetJob(ctx context.Context, jobID int64) (*model.Job, error) {
	var job model.Job
	err := c.Get(ctx, fmt.Sprintf("actions/jobs/%d", jobID), &job)
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", jobID, err)
	}
	return &job, nil
}
