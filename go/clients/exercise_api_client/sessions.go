package exercise_api_client

import (
	"context"

	"github.com/rvbops/warroom/go/internal/models"
)

// GMLogin authenticates the Game Manager and returns a bearer token.
func (c *ExerciseApiClient) GMLogin(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	var token models.TokenResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.PostJSON(ctx, AuthGMLoginEndpoint, req, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// GetActiveSession returns the currently active session, if any.
func (c *ExerciseApiClient) GetActiveSession(ctx context.Context) (*models.GameSession, error) {
	var session models.GameSession
	if err := c.GetJSON(ctx, SessionsActiveEndpoint, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateSession creates a session with fresh per-role join codes (GM only).
func (c *ExerciseApiClient) CreateSession(ctx context.Context) (*models.SessionCreateResponse, error) {
	var resp models.SessionCreateResponse
	if err := c.PostJSON(ctx, SessionsEndpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RotateCodes replaces the active session's join codes (GM only).
func (c *ExerciseApiClient) RotateCodes(ctx context.Context) (*models.SessionCreateResponse, error) {
	var resp models.SessionCreateResponse
	if err := c.PostJSON(ctx, SessionsRotateEndpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// JoinSession exchanges an access code for a role-scoped token.
func (c *ExerciseApiClient) JoinSession(ctx context.Context, code string) (*models.JoinResponse, error) {
	var resp models.JoinResponse
	if err := c.PostJSON(ctx, SessionsJoinEndpoint, models.JoinRequest{Code: code}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSession fetches one session by id.
func (c *ExerciseApiClient) GetSession(ctx context.Context, id string) (*models.GameSession, error) {
	var session models.GameSession
	if err := c.GetJSON(ctx, SessionsEndpoint+"/"+id, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// AssignName asks the server to pick a player alias for a team.
func (c *ExerciseApiClient) AssignName(ctx context.Context, req models.AssignNameRequest) (*models.AssignNameResponse, error) {
	var resp models.AssignNameResponse
	if err := c.PostJSON(ctx, PlayersAssignNameEndpoint, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReleaseName returns a player alias to the pool.
func (c *ExerciseApiClient) ReleaseName(ctx context.Context, req models.ReleaseNameRequest) error {
	return c.PostJSON(ctx, PlayersReleaseNameEndpoint, req, nil)
}

// GetTeamSize reports the current head count for a team.
func (c *ExerciseApiClient) GetTeamSize(ctx context.Context, role string) (*models.TeamSizeResponse, error) {
	var resp models.TeamSizeResponse
	if err := c.GetJSON(ctx, PlayersTeamSizeEndpoint+"?role="+role, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
