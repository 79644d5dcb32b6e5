// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, empty text, unknown task).
	UserError = 1

	// ConfigError indicates a bad config file, flag value or base URL.
	ConfigError = 2

	// BackendError indicates a network, HTTP status or response shape error.
	BackendError = 3
)
