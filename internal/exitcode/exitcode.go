// Package exitcode defines exit codes for the CLI.
package exitcode

// Process exit codes. Scripts depend on these values.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task or project, ambiguous name,
	// malformed content).
	UserError = 1

	// AuthError indicates missing or rejected credentials.
	AuthError = 2

	// BackendError indicates a failed call to the task service.
	BackendError = 3
)
