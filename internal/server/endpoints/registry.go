package endpoints

import (
	"github.com/govtorders/goms/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health
		&HealthEndpoint{},

		// Bundle submission
		&ProcessUploadEndpoint{},
		&ProcessPathEndpoint{},

		// Job tracking
		&ListJobsEndpoint{},
		&GetJobEndpoint{},
		&DeleteJobEndpoint{},
	}
}

// JobCommands returns the endpoints grouped under the "jobs" CLI
// subcommand.
func JobCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListJobsEndpoint{},
		&GetJobEndpoint{},
		&DeleteJobEndpoint{},
	}
}
