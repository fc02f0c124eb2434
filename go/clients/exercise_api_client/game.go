package exercise_api_client

import (
	"context"

	"github.com/rvbops/warroom/go/internal/models"
)

// GetGameState fetches the current snapshot. The server recomputes the
// elapsed-seconds timer field on every read.
func (c *ExerciseApiClient) GetGameState(ctx context.Context) (*models.GameState, error) {
	var state models.GameState
	if err := c.GetJSON(ctx, GameStateEndpoint, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// StartGame starts a round with the given scenario.
func (c *ExerciseApiClient) StartGame(ctx context.Context, scenarioID string) (*models.GameState, error) {
	var state models.GameState
	req := models.GameStartRequest{ScenarioID: scenarioID}
	if err := c.PostJSON(ctx, GameStartEndpoint, req, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// StopGame ends the current round.
func (c *ExerciseApiClient) StopGame(ctx context.Context) (*models.GameState, error) {
	var state models.GameState
	if err := c.PostJSON(ctx, GameStopEndpoint, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// PauseGame pauses a running round.
func (c *ExerciseApiClient) PauseGame(ctx context.Context) (*models.GameState, error) {
	var state models.GameState
	if err := c.PostJSON(ctx, GamePauseEndpoint, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ResumeGame resumes a paused round.
func (c *ExerciseApiClient) ResumeGame(ctx context.Context) (*models.GameState, error) {
	var state models.GameState
	if err := c.PostJSON(ctx, GameResumeEndpoint, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ResetGame returns the session to the lobby.
func (c *ExerciseApiClient) ResetGame(ctx context.Context) (*models.GameState, error) {
	var state models.GameState
	if err := c.PostJSON(ctx, GameResetEndpoint, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// DismissBriefing acknowledges the Red briefing; the round clock starts
// counting only after this call.
func (c *ExerciseApiClient) DismissBriefing(ctx context.Context) (*models.GameState, error) {
	var state models.GameState
	if err := c.PostJSON(ctx, GameDismissEndpoint, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// GMInjectRequest is a manual Game Manager inject.
type GMInjectRequest struct {
	Type   string `json:"event_type"`
	Target string `json:"target"`
	Note   string `json:"note"`
}

// Inject emits a manual GM inject event to all clients.
func (c *ExerciseApiClient) Inject(ctx context.Context, req GMInjectRequest) error {
	return c.PostJSON(ctx, GameInjectEndpoint, req, nil)
}
