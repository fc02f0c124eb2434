package exercise_api_client

import (
	"context"

	"github.com/rvbops/warroom/go/internal/models"
)

// ListScenarios returns the available scenarios.
func (c *ExerciseApiClient) ListScenarios(ctx context.Context) ([]models.Scenario, error) {
	var scenarios []models.Scenario
	if err := c.GetJSON(ctx, ScenariosEndpoint, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

// GetScenario fetches one scenario by id.
func (c *ExerciseApiClient) GetScenario(ctx context.Context, id string) (*models.Scenario, error) {
	var scenario models.Scenario
	if err := c.GetJSON(ctx, ScenariosEndpoint+"/"+id, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// ListScenariosV2 returns advanced multi-step scenarios. The backend serves
// these only when advanced scenarios are enabled.
func (c *ExerciseApiClient) ListScenariosV2(ctx context.Context) ([]models.ScenarioV2, error) {
	var scenarios []models.ScenarioV2
	if err := c.GetJSON(ctx, ScenariosV2Endpoint, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

// GetScenarioV2 fetches one advanced scenario by id.
func (c *ExerciseApiClient) GetScenarioV2(ctx context.Context, id string) (*models.ScenarioV2, error) {
	var scenario models.ScenarioV2
	if err := c.GetJSON(ctx, ScenariosV2Endpoint+"/"+id, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}
