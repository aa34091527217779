package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snakegame/snake-api/internal/app"
	"github.com/snakegame/snake-api/internal/client"
	"github.com/snakegame/snake-api/internal/game"
	"github.com/snakegame/snake-api/internal/pkg/config"
)

type harness struct {
	url     string
	cfgPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		Env:          "test",
		ClientURL:    "http://localhost:3000",
		StoreBackend: config.BackendMemory,
		Session: config.SessionConfig{
			Secret: "test-secret",
			TTL:    time.Hour,
			Store:  config.BackendMemory,
		},
		RateLimit: config.RateLimitConfig{
			Max:    1000,
			Window: time.Minute,
			Store:  config.BackendMemory,
		},
	}
	a, err := app.New(context.Background(), cfg, app.Options{Log: zerolog.Nop(), Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)

	srv := httptest.NewServer(a.Router)
	t.Cleanup(srv.Close)
	return &harness{url: srv.URL, cfgPath: filepath.Join(t.TempDir(), "config.yaml")}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", h.cfgPath, "--server", h.url}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) config(t *testing.T) *client.Config {
	t.Helper()
	cfg, err := client.LoadConfig(h.cfgPath)
	require.NoError(t, err)
	return cfg
}

func TestAccountAndLeaderboardFlow(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "signup", "-u", "abc", "-e", "a@b.com", "-p", "Passw0rd")
	require.NoError(t, err)
	assert.Contains(t, out, "abc <a@b.com>")

	saved := h.config(t)
	require.NotEmpty(t, saved.Session)
	assert.Equal(t, "abc", saved.Username)
	assert.Equal(t, h.url, saved.Server)

	out, err = h.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "best score: 0")

	// Games are reported by the TUI; submit one directly with the saved session.
	api, err := client.New(h.url)
	require.NoError(t, err)
	api.SetSessionToken(saved.Session)
	_, err = api.SubmitScore(context.Background(), 150)
	require.NoError(t, err)

	out, err = h.run(t, "scores")
	require.NoError(t, err)
	assert.Contains(t, out, "150")

	out, err = h.run(t, "leaderboard")
	require.NoError(t, err)
	assert.Contains(t, out, "abc (you)")
	assert.Contains(t, out, "Your rank: #1 with 150")

	out, err = h.run(t, "-o", "json", "top")
	require.NoError(t, err)
	var lb client.Leaderboard
	require.NoError(t, json.Unmarshal([]byte(out), &lb))
	require.Len(t, lb.Entries, 1)
	assert.Equal(t, 150, lb.Entries[0].Score)

	out, err = h.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	assert.Empty(t, h.config(t).Session)

	_, err = h.run(t, "whoami")
	assert.ErrorContains(t, err, "not logged in")

	out, err = h.run(t, "login", "-e", "A@B.com", "-p", "Passw0rd")
	require.NoError(t, err)
	assert.Contains(t, out, "best score: 150")
	assert.Equal(t, 150, h.config(t).BestScore)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "signup", "-u", "abc", "-e", "a@b.com", "-p", "Passw0rd")
	require.NoError(t, err)

	_, err = h.run(t, "login", "-e", "a@b.com", "-p", "wrong-one")
	assert.EqualError(t, err, "Invalid email or password")
}

func TestSignup_ValidationErrors(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "signup", "-u", "ab", "-e", "nope", "-p", "1")

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.NotEmpty(t, apiErr.ValidationErrors)
	assert.Empty(t, h.config(t).Session)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "health")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Snake Game API is running! (test, "), out)
}

func TestUnknownOutputFormat(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "-o", "yaml", "health")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestRender(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "board.png")

	out, err := h.run(t, "render", "--seed", "3", "--moves", "RRRR..UU", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = os.Stat(path)
	assert.NoError(t, err)

	_, err = h.run(t, "render", "--moves", "RX")
	assert.ErrorContains(t, err, `unknown direction 'X'`)
}

func TestReplay(t *testing.T) {
	moves, err := parseMoves(strings.Repeat("u", 15))
	require.NoError(t, err)

	eng := replay(9, moves)
	assert.Equal(t, game.GameOver, eng.State())
	assert.Equal(t, 0, eng.Head().Y)

	a, b := replay(4, moves[:5]), replay(4, moves[:5])
	assert.Equal(t, a.Snapshot(), b.Snapshot())
}
