package exercise_api_client

import (
	"github.com/rvbops/warroom/go/clients"
)

// ExerciseApiClient talks to the tabletop exercise backend's REST surface.
// The authoritative game logic lives server-side; every method here is a
// thin call that returns the server's view.
type ExerciseApiClient struct {
	*clients.BaseClient
}

func NewExerciseApiClient(baseURL string) *ExerciseApiClient {
	return &ExerciseApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}

// NewExerciseApiClientWithToken returns a client that authenticates every
// request with the given bearer token.
func NewExerciseApiClientWithToken(baseURL, token string) *ExerciseApiClient {
	client := NewExerciseApiClient(baseURL)
	client.SetBearerToken(token)
	return client
}
