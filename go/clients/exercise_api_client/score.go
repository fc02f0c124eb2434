package exercise_api_client

import (
	"context"
	"strconv"

	"github.com/rvbops/warroom/go/internal/events"
	"github.com/rvbops/warroom/go/internal/models"
)

// GetScore returns the current score.
func (c *ExerciseApiClient) GetScore(ctx context.Context) (*models.Score, error) {
	var score models.Score
	if err := c.GetJSON(ctx, ScoreEndpoint, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

// ResetScore zeroes the score (GM only).
func (c *ExerciseApiClient) ResetScore(ctx context.Context) error {
	return c.PostJSON(ctx, ScoreResetEndpoint, nil, nil)
}

// GetTimeline returns the server-side event timeline, most recent last.
func (c *ExerciseApiClient) GetTimeline(ctx context.Context, limit int) ([]events.Event, error) {
	var timeline []events.Event
	endpoint := TimelineEndpoint
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}
	if err := c.GetJSON(ctx, endpoint, &timeline); err != nil {
		return nil, err
	}
	return timeline, nil
}
