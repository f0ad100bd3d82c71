package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"craftdoist/internal/config"
	"craftdoist/internal/exitcode"
	"craftdoist/internal/service"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd detaches the session from its backend and deletes the stored
// credentials of the configured backend: todoist_token for Todoist, token.json
// for Google. Settings and the OAuth client file are kept so a later login
// needs no setup.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Close the session and remove backend credentials" }
func (c *LogoutCmd) Usage() string     { return "craftdoist logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	attached := sess.LoggedIn()
	sess.Logout()

	if !cfg.HasToken() {
		if !cfg.Quiet {
			if attached {
				fmt.Fprintln(out, "session closed")
			} else {
				fmt.Fprintln(out, "not logged in")
			}
		}
		return exitcode.Success
	}

	if err := cfg.RemoveToken(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove %s token: %v\n", cfg.Settings.Backend, err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
