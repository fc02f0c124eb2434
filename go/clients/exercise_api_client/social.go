package exercise_api_client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rvbops/warroom/go/internal/models"
)

// CastVote votes for another player's proposed choice.
func (c *ExerciseApiClient) CastVote(ctx context.Context, req models.VoteRequest) (*models.VoteResponse, error) {
	var resp models.VoteResponse
	if err := c.PostJSON(ctx, VoteEndpoint, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitChoice records the caller's proposed action for the current turn.
func (c *ExerciseApiClient) SubmitChoice(ctx context.Context, choice models.PlayerChoice) (*models.VoteResponse, error) {
	var resp models.VoteResponse
	if err := c.PostJSON(ctx, VoteChoiceEndpoint, choice, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetVotingStatus returns the choice/vote tally for a team's current turn.
func (c *ExerciseApiClient) GetVotingStatus(ctx context.Context, role string) (*models.VotingStatus, error) {
	var status models.VotingStatus
	endpoint := VotingStatusEndpoint + "?role=" + url.QueryEscape(role)
	if err := c.GetJSON(ctx, endpoint, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SendChat posts a chat message.
func (c *ExerciseApiClient) SendChat(ctx context.Context, req models.ChatRequest) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := c.PostJSON(ctx, ChatSendEndpoint, req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetChatHistory returns recent chat for a role.
func (c *ExerciseApiClient) GetChatHistory(ctx context.Context, role string, limit int) ([]models.ChatMessage, error) {
	var history []models.ChatMessage
	endpoint := ChatHistoryEndpoint + "?role=" + url.QueryEscape(role)
	if limit > 0 {
		endpoint += "&limit=" + strconv.Itoa(limit)
	}
	if err := c.GetJSON(ctx, endpoint, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// TrackActivity reports what the player is currently doing.
func (c *ExerciseApiClient) TrackActivity(ctx context.Context, req models.ActivityRequest) error {
	return c.PostJSON(ctx, ActivityTrackEndpoint, req, nil)
}

// GetRecentActivity returns the recent activity feed.
func (c *ExerciseApiClient) GetRecentActivity(ctx context.Context, limit int) ([]models.ActivityEvent, error) {
	var activity []models.ActivityEvent
	endpoint := ActivityRecentEndpoint
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}
	if err := c.GetJSON(ctx, endpoint, &activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// UpdatePresence reports the player's online status and current activity.
func (c *ExerciseApiClient) UpdatePresence(ctx context.Context, presence models.PlayerPresence) error {
	return c.PostJSON(ctx, PresenceUpdateEndpoint, presence, nil)
}

// GetPresenceStatus returns presence for a team.
func (c *ExerciseApiClient) GetPresenceStatus(ctx context.Context, role string) (*models.PresenceStatus, error) {
	var status models.PresenceStatus
	endpoint := PresenceStatusEndpoint + "?role=" + url.QueryEscape(role)
	if err := c.GetJSON(ctx, endpoint, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Heartbeat keeps the player marked online.
func (c *ExerciseApiClient) Heartbeat(ctx context.Context, playerName, role string) error {
	req := struct {
		PlayerName string `json:"player_name"`
		Role       string `json:"role"`
	}{PlayerName: playerName, Role: role}
	return c.PostJSON(ctx, PresenceHeartbeatEndpoint, req, nil)
}
