package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"craftdoist/internal/backend/googletasks"
	"craftdoist/internal/backend/todoist"
	"craftdoist/internal/config"
	"craftdoist/internal/exitcode"
	"craftdoist/internal/service"
)

const (
	// OAuth callback timeout
	oauthCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	oauthStartPort = 8085

	// Max port attempts
	oauthMaxPortAttempts = 5
)

func init() {
	Register(&LoginCmd{})
}

// TodoistConnector builds a Todoist client for token.
type TodoistConnector func(ctx context.Context, cfg *config.Config, token string) service.Service

// ConnectTodoist builds the REST client, honouring todoist_base_url.
func ConnectTodoist(ctx context.Context, cfg *config.Config, token string) service.Service {
	var opts []todoist.Option
	if u := cfg.Settings.TodoistBaseURL; u != "" {
		opts = append(opts, todoist.WithBaseURL(u))
	}
	return todoist.New(ctx, token, opts...)
}

// LoginCmd implements the login command.
type LoginCmd struct {
	token string

	// Connect overrides how a Todoist client is built (for testing).
	Connect TodoistConnector

	// In is read for the token when --token is not given; nil means stdin.
	In io.Reader
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with the task service" }
func (c *LoginCmd) Usage() string     { return "craftdoist login [common flags] [--token <api-token>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.token, "token", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	if cfg.Settings.Backend == config.BackendGoogle {
		return c.runGoogle(ctx, cfg, sess, out, errOut)
	}
	return c.runTodoist(ctx, cfg, sess, out, errOut)
}

// runTodoist validates an API token by fetching projects, then stores it.
func (c *LoginCmd) runTodoist(ctx context.Context, cfg *config.Config, sess *service.Session, out, errOut io.Writer) int {
	token := strings.TrimSpace(c.token)
	if token == "" {
		in := c.In
		if in == nil {
			in = os.Stdin
			fmt.Fprintln(errOut, "Paste your Todoist API token (Settings > Integrations > Developer):")
		}
		scanner := bufio.NewScanner(in)
		if scanner.Scan() {
			token = strings.TrimSpace(scanner.Text())
		}
	}
	if token == "" {
		fmt.Fprintln(errOut, "error: token required (pass --token or write it to stdin)")
		return exitcode.UserError
	}

	connect := c.Connect
	if connect == nil {
		connect = ConnectTodoist
	}
	if err := sess.Login(ctx, connect(ctx, cfg, token)); err != nil {
		return report(errOut, err)
	}

	if err := cfg.SaveTodoistToken(token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// runGoogle runs the OAuth loopback flow with PKCE, validates the resulting
// client and stores the token.
func (c *LoginCmd) runGoogle(ctx context.Context, cfg *config.Config, sess *service.Session, out, errOut io.Writer) int {
	if !cfg.HasOAuthClient() {
		printOAuthSetup(errOut, cfg)
		return exitcode.AuthError
	}
	if cfg.HasToken() && isTokenValid(cfg) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	oauthConfig, err := googletasks.OAuthConfig(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	port, listener, err := findAvailablePort()
	if err != nil {
		fmt.Fprintln(errOut, "error: could not bind to local port for OAuth callback")
		return exitcode.AuthError
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	verifier := oauth2.GenerateVerifier()
	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)))

	code, err := awaitCallback(ctx, listener)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()
	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to exchange code for token: %v\n", err)
		return exitcode.AuthError
	}

	client, err := googletasks.NewWithHTTPClient(ctx, oauthConfig.Client(ctx, token))
	if err != nil {
		return report(errOut, err)
	}
	if err := sess.Login(ctx, client); err != nil {
		return report(errOut, err)
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := googletasks.SaveToken(cfg, token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func printOAuthSetup(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "error: %s not found in %s\n\n", config.OAuthClientFile, cfg.Dir)
	fmt.Fprintf(w, `The Google Tasks backend needs OAuth client credentials:

1. Go to https://console.cloud.google.com/apis/credentials
2. Enable the Google Tasks API:
   https://console.cloud.google.com/apis/library/tasks.googleapis.com
3. Create an OAuth client ID of type 'Desktop app' and download the JSON file
4. Save it as:
   %s

Then run 'craftdoist login' again.
`, cfg.OAuthClientPath())
}

// awaitCallback serves the redirect on listener until it delivers an
// authorization code, ctx ends or oauthCallbackTimeout passes.
func awaitCallback(ctx context.Context, listener net.Listener) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			errCh <- errors.New("no code in callback")
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>craftdoist is authorized</h1><p>You may close this window.</p></body></html>")
		codeCh <- code
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-time.After(oauthCallbackTimeout):
		return "", errors.New("oauth callback timed out")
	case <-ctx.Done():
		return "", errors.New("cancelled")
	}
}

// isTokenValid reports whether the stored Google token has a refresh token
// and can still be exchanged for an access token.
func isTokenValid(cfg *config.Config) bool {
	token, err := googletasks.LoadToken(cfg)
	if err != nil || token.RefreshToken == "" {
		return false
	}
	oauthConfig, err := googletasks.OAuthConfig(cfg)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = oauthConfig.TokenSource(ctx, token).Token()
	return err == nil
}
