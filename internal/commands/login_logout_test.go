package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"craftdoist/internal/commands"
	"craftdoist/internal/config"
	"craftdoist/internal/exitcode"
	"craftdoist/internal/service"
	"craftdoist/internal/testutil"
)

func newConfig(t *testing.T, backend string, quiet bool) *config.Config {
	t.Helper()
	settings := config.DefaultSettings()
	settings.Backend = backend
	return &config.Config{Dir: t.TempDir(), Quiet: quiet, Settings: settings}
}

// fakeConnector returns svc for any token and records the tokens it saw.
func fakeConnector(svc service.Service, seen *[]string) commands.TodoistConnector {
	return func(ctx context.Context, cfg *config.Config, token string) service.Service {
		*seen = append(*seen, token)
		return svc
	}
}

func TestLoginCommand_TodoistTokenFromInput(t *testing.T) {
	var seen []string
	cmd := &commands.LoginCmd{Connect: fakeConnector(testutil.NewFakeService(), &seen), In: strings.NewReader("")}
	cfg := newConfig(t, config.BackendTodoist, false)
	sess := service.NewSession()

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, sess, nil, &outBuf, &errBuf)
	if code != exitcode.UserError {
		t.Fatalf("expected exit code %d without a token, got %d", exitcode.UserError, code)
	}

	cmd.In = strings.NewReader("  abc123  \nignored\n")
	outBuf.Reset()
	errBuf.Reset()
	code = cmd.Run(context.Background(), cfg, sess, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}
	if len(seen) != 1 || seen[0] != "abc123" {
		t.Errorf("expected connector to see trimmed token, got %q", seen)
	}
	if !sess.LoggedIn() {
		t.Error("expected session to be logged in")
	}

	token, err := cfg.TodoistToken()
	if err != nil || token != "abc123" {
		t.Errorf("expected stored token abc123, got %q (err %v)", token, err)
	}
	info, err := os.Stat(cfg.TodoistTokenPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected token mode 0600, got %o", info.Mode().Perm())
	}
}

func TestLoginCommand_TodoistTokenFlag(t *testing.T) {
	var seen []string
	cmd := &commands.LoginCmd{Connect: fakeConnector(testutil.NewFakeService(), &seen), In: strings.NewReader("unused\n")}

	stdout, stderr, code := runCommand(t, cmd, nil, []string{"--token", "xyz"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if len(seen) != 1 || seen[0] != "xyz" {
		t.Errorf("expected --token to win over input, got %q", seen)
	}
}

func TestLoginCommand_TodoistRejectedToken(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.ProjectsErr = &service.UpstreamError{Op: "get projects", Status: 401, Err: errors.New("token expired or revoked")}

	var seen []string
	cmd := &commands.LoginCmd{Connect: fakeConnector(fake, &seen), In: strings.NewReader("bad\n")}
	cfg := newConfig(t, config.BackendTodoist, false)

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, service.NewSession(), nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	expected := "error: auth error: login: get projects: status 401: token expired or revoked\n"
	if errBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, errBuf.String())
	}
	if cfg.HasToken() {
		t.Error("rejected token should not be stored")
	}
}

// TestLoginCommand_NoOAuthClient verifies Google login fails without oauth_client.json
func TestLoginCommand_NoOAuthClient(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := newConfig(t, config.BackendGoogle, false)

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, service.NewSession(), nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	if !strings.Contains(errBuf.String(), "oauth_client.json not found") {
		t.Errorf("expected error message about missing oauth_client.json, got %q", errBuf.String())
	}
}

// TestLoginCommand_NoRefreshToken verifies Google login proceeds when the
// stored token cannot be refreshed.
func TestLoginCommand_NoRefreshToken(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := newConfig(t, config.BackendGoogle, false)

	oauthClient := `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(cfg.OAuthClientPath(), []byte(oauthClient), 0600); err != nil {
		t.Fatalf("failed to write oauth_client.json: %v", err)
	}
	token := `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`
	if err := os.WriteFile(cfg.TokenPath(), []byte(token), 0600); err != nil {
		t.Fatalf("failed to write token.json: %v", err)
	}

	// Cancelled so the flow stops before waiting for the callback.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(ctx, cfg, service.NewSession(), nil, &outBuf, &errBuf)

	if outBuf.String() == "already logged in\n" {
		t.Error("should not say 'already logged in' with token missing refresh_token")
	}
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
}

// TestLogoutCommand_OnlyRemovesToken verifies logout only removes the stored token
func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	cfg := newConfig(t, config.BackendTodoist, false)
	if err := cfg.SaveTodoistToken("abc123"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Settings.Save(cfg.SettingsPath()); err != nil {
		t.Fatal(err)
	}

	sess := service.NewSession()
	sess.Resume(testutil.NewFakeService())

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, sess, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}
	if sess.LoggedIn() {
		t.Error("expected session to be logged out")
	}
	if _, err := os.Stat(cfg.TodoistTokenPath()); !os.IsNotExist(err) {
		t.Error("todoist_token should have been deleted")
	}
	if _, err := os.Stat(filepath.Join(cfg.Dir, config.SettingsFile)); err != nil {
		t.Error("settings should NOT have been deleted")
	}
}

func TestLogoutCommand_GoogleToken(t *testing.T) {
	cfg := newConfig(t, config.BackendGoogle, false)
	if err := os.WriteFile(cfg.TokenPath(), []byte(`{"access_token":"test","refresh_token":"test"}`), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.OAuthClientPath(), []byte(`{"installed":{}}`), 0600); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, service.NewSession(), nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(cfg.OAuthClientPath()); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
}

// TestLogoutCommand_SessionWithoutToken verifies an attached session is closed
// even when no credentials are stored
func TestLogoutCommand_SessionWithoutToken(t *testing.T) {
	cfg := newConfig(t, config.BackendTodoist, false)
	sess := service.NewSession()
	sess.Resume(testutil.NewFakeService())

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, sess, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "session closed\n" {
		t.Errorf("expected %q, got %q", "session closed\n", outBuf.String())
	}
	if sess.LoggedIn() {
		t.Error("expected session to be logged out")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cfg := newConfig(t, config.BackendTodoist, false)
	code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, service.NewSession(), nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", outBuf.String())
	}
}

// TestLogoutCommand_NotLoggedInQuiet verifies logout is quiet when not logged in
func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cfg := newConfig(t, config.BackendTodoist, true)
	code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, service.NewSession(), nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", outBuf.String())
	}
}
