package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tbourn/power-status-tracker/internal/config"
	"github.com/tbourn/power-status-tracker/internal/services"
)

// botAPI fakes the Telegram Bot API and records sendMessage recipients.
type botAPI struct {
	mu      sync.Mutex
	chatIDs []string
	reject  map[string]string
	srv     *httptest.Server
}

func newBotAPI(t *testing.T) *botAPI {
	t.Helper()
	b := &botAPI{reject: map[string]string{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			_ = r.ParseForm()
			id := r.PostForm.Get("chat_id")
			b.mu.Lock()
			b.chatIDs = append(b.chatIDs, id)
			desc, rejected := b.reject[id]
			b.mu.Unlock()
			if rejected {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"ok":false,"error_code":403,"description":"` + desc + `"}`))
				return
			}
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Power","username":"power_bot","can_join_groups":true}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *botAPI) sent() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.chatIDs...)
}

// setEnv points the configuration at a temp database and the fake bot.
// An empty apiBase leaves the bot token unset.
func setEnv(t *testing.T, apiBase string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("DB_PATH", filepath.Join(dir, "power.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("GIN_MODE", "test")
	t.Setenv("PORT", "0")
	t.Setenv("TIME_ZONE", "UTC")
	if apiBase != "" {
		t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
		t.Setenv("TELEGRAM_API_BASE", apiBase)
		t.Setenv("TELEGRAM_TIMEOUT", "2s")
	} else {
		t.Setenv("TELEGRAM_BOT_TOKEN", "")
	}
}

func run(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	app := NewApp("test")
	app.LogWriter = io.Discard
	t.Cleanup(func() { _ = app.Close() })

	root := app.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, context.Background(), args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestStatusShow_Unknown(t *testing.T) {
	setEnv(t, "")
	out := mustRun(t, "status", "show")
	if !strings.Contains(out, "UNKNOWN") || !strings.Contains(out, "Last updated: Never") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStatusSet_CreateThenFlipNotifies(t *testing.T) {
	bot := newBotAPI(t)
	setEnv(t, bot.srv.URL)

	out := mustRun(t, "subscribers", "add", "111", "--name", "Alice", "--username", "@alice")
	if !strings.Contains(out, "Subscriber added successfully: 111: Alice (@alice)") ||
		!strings.Contains(out, "Test message sent to verify subscription.") {
		t.Fatalf("unexpected add output %q", out)
	}

	out = mustRun(t, "status", "set", "--status", "on")
	for _, want := range []string{"Starting power status update...", "Created new power status record", "Power status updated to: ON", "Timestamp: "} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	// Only the verification message so far.
	if got := bot.sent(); len(got) != 1 {
		t.Fatalf("creation must not notify, sent=%v", got)
	}

	out = mustRun(t, "status", "set", "-s", "OFF")
	if strings.Contains(out, "Created new power status record") || !strings.Contains(out, "Power status updated to: OFF") {
		t.Fatalf("unexpected flip output %q", out)
	}
	if got := bot.sent(); len(got) != 2 || got[1] != "111" {
		t.Fatalf("flip must notify subscriber, sent=%v", got)
	}

	out = mustRun(t, "status", "show")
	if !strings.Contains(out, "OFF") || strings.Contains(out, "Never") {
		t.Fatalf("unexpected show output %q", out)
	}
}

func TestStatusSet_InvalidAndMissingFlag(t *testing.T) {
	setEnv(t, "")
	if _, err := run(t, context.Background(), "status", "set", "--status", "maybe"); err == nil {
		t.Fatalf("expected error for invalid status")
	}
	if _, err := run(t, context.Background(), "status", "set"); err == nil {
		t.Fatalf("expected error for missing --status")
	}
}

func TestSubscribers_RequireBotToken(t *testing.T) {
	setEnv(t, "")
	for _, args := range [][]string{
		{"subscribers", "list"},
		{"subscribers", "test"},
		{"subscribers", "add", "111"},
		{"subscribers", "remove", "111"},
		{"bot", "info"},
	} {
		_, err := run(t, context.Background(), args...)
		if !errors.Is(err, services.ErrBotTokenMissing) {
			t.Fatalf("%v: expected ErrBotTokenMissing, got %v", args, err)
		}
	}
}

func TestSubscribers_ListRemoveAndTest(t *testing.T) {
	bot := newBotAPI(t)
	setEnv(t, bot.srv.URL)

	if out := mustRun(t, "subscribers", "list"); !strings.Contains(out, "No active subscribers found.") {
		t.Fatalf("unexpected empty list output %q", out)
	}
	if _, err := run(t, context.Background(), "subscribers", "test"); err == nil || !strings.Contains(err.Error(), "no active subscribers") {
		t.Fatalf("expected no-subscribers error, got %v", err)
	}

	mustRun(t, "subscribers", "add", "111", "--name", "Alice", "--username", "alice")
	mustRun(t, "subscribers", "add", "--name", "Group", "--", "-100222")

	out := mustRun(t, "subscribers", "list")
	if !strings.Contains(out, "Active subscribers:") ||
		!strings.Contains(out, "  - 111: Alice (@alice)") ||
		!strings.Contains(out, "  - -100222: Group (@)") {
		t.Fatalf("unexpected list output %q", out)
	}

	out = mustRun(t, "subscribers", "test")
	if !strings.Contains(out, "Test message sent successfully to 111") {
		t.Fatalf("unexpected test output %q", out)
	}

	if out := mustRun(t, "subscribers", "remove", "111"); !strings.Contains(out, "Subscriber 111 removed successfully.") {
		t.Fatalf("unexpected remove output %q", out)
	}
	if _, err := run(t, context.Background(), "subscribers", "remove", "999"); err == nil {
		t.Fatalf("expected error removing unknown subscriber")
	}
	if _, err := run(t, context.Background(), "subscribers", "remove", "abc"); err == nil {
		t.Fatalf("expected error for non-numeric chat id")
	}

	out = mustRun(t, "subscribers", "list")
	if strings.Contains(out, "111:") {
		t.Fatalf("removed subscriber still listed: %q", out)
	}
}

func TestSubscribersAdd_TestMessageFailureIsReported(t *testing.T) {
	bot := newBotAPI(t)
	bot.reject["333"] = "Forbidden: bot was blocked by the user"
	setEnv(t, bot.srv.URL)

	out := mustRun(t, "subscribers", "add", "333")
	if !strings.Contains(out, "Could not send test message: Telegram API error: Forbidden: bot was blocked by the user") {
		t.Fatalf("unexpected output %q", out)
	}
	// A failed test message never deactivates.
	if out := mustRun(t, "subscribers", "list"); !strings.Contains(out, "333:") {
		t.Fatalf("subscriber must stay active: %q", out)
	}
}

func TestBotInfo(t *testing.T) {
	bot := newBotAPI(t)
	setEnv(t, bot.srv.URL)

	out := mustRun(t, "bot", "info")
	if !strings.Contains(out, "Bot: Power (@power_bot)") || !strings.Contains(out, "ID: 42") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSetup_ConfigError(t *testing.T) {
	setEnv(t, "")
	t.Setenv("LOG_LEVEL", "loud")
	if _, err := run(t, context.Background(), "status", "show"); err == nil || !strings.Contains(err.Error(), "failed to load config") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestSetup_InjectedDependencies(t *testing.T) {
	app := NewApp("test")
	app.LogWriter = io.Discard
	app.LoadConfig = func() (config.Config, error) {
		return config.Config{LogLevel: "error", DBPath: filepath.Join(t.TempDir(), "x.db"), TimeZone: "UTC"}, nil
	}
	t.Cleanup(func() { _ = app.Close() })

	if err := app.setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if app.status == nil || app.notifier == nil || app.gw == nil {
		t.Fatalf("services not wired: %+v", app)
	}
	if app.gw.Configured() {
		t.Fatalf("gateway without token must not be configured")
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	setEnv(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		_, err := run(t, ctx, "serve")
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("serve did not stop")
	}
}

func TestNewServer_UsesConfigTimeouts(t *testing.T) {
	app := &App{cfg: config.Config{
		Port:              "9090",
		ReadTimeout:       time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      3 * time.Second,
		IdleTimeout:       4 * time.Second,
		MaxHeaderBytes:    1024,
	}}
	srv := app.newServer(http.NotFoundHandler())
	if srv.Addr != ":9090" || srv.ReadTimeout != time.Second || srv.ReadHeaderTimeout != 2*time.Second ||
		srv.WriteTimeout != 3*time.Second || srv.IdleTimeout != 4*time.Second || srv.MaxHeaderBytes != 1024 {
		t.Fatalf("unexpected server config %+v", srv)
	}
}
