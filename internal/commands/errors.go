package commands

import (
	"errors"
	"fmt"
	"io"

	"craftdoist/internal/exitcode"
	"craftdoist/internal/service"
)

// report prints err to errOut and returns the matching exit code.
func report(errOut io.Writer, err error) int {
	var (
		upErr  *service.UpstreamError
		refErr *refError
	)
	switch {
	case errors.Is(err, service.ErrNoSession):
		fmt.Fprintln(errOut, "error: not logged in (run: craftdoist login)")
		return exitcode.AuthError
	case errors.As(err, &refErr):
		fmt.Fprintf(errOut, "error: %s\n", refErr.msg)
		return exitcode.UserError
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintln(errOut, "error: task not found")
		return exitcode.UserError
	case errors.As(err, &upErr) && upErr.IsAuth():
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case errors.As(err, &upErr):
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	default:
		// Malformed content, busy imports and bad settings.
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
}
