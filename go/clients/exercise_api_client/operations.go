package exercise_api_client

import (
	"context"

	"github.com/rvbops/warroom/go/internal/models"
)

// SubmitScan runs a Red reconnaissance scan against a target node.
func (c *ExerciseApiClient) SubmitScan(ctx context.Context, req models.ScanRequest) (*models.ScanResult, error) {
	var result models.ScanResult
	if err := c.PostJSON(ctx, ScanEndpoint, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LaunchAttack launches a Red attack along a topology edge. The reply is
// preliminary; the authoritative outcome arrives as an attack_resolved
// event once Blue's response is factored in.
func (c *ExerciseApiClient) LaunchAttack(ctx context.Context, req models.AttackLaunchRequest) (*models.AttackLaunchResponse, error) {
	var resp models.AttackLaunchResponse
	if err := c.PostJSON(ctx, AttackLaunchEndpoint, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitAction submits a Blue containment action.
func (c *ExerciseApiClient) SubmitAction(ctx context.Context, req models.ActionRequest) (*models.BlueAction, error) {
	var action models.BlueAction
	if err := c.PostJSON(ctx, ActionsEndpoint, req, &action); err != nil {
		return nil, err
	}
	return &action, nil
}
