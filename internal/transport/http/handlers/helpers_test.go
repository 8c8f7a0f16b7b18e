package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"strings"
	"testing"

	"corpdash/internal/app/server"
	"corpdash/internal/platform/config"
)

const (
	ceoEmail    = "ceo@test.local"
	ceoPassword = "ChangeMe123!"
)

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func testConfig(dbURL string) config.Config {
	cfg := config.Default()
	cfg.DatabaseURL = dbURL
	cfg.SessionSecret = "test-secret"
	cfg.CSRFKey = "0123456789abcdef0123456789abcdef"
	cfg.Environment = "test"
	cfg.SeedCEOEmail = ceoEmail
	cfg.SeedCEOPassword = ceoPassword
	cfg.LoginRateLimit = 1000
	return cfg
}

// startApp boots the full router against TEST_DATABASE_URL.
func startApp(t *testing.T) (*server.App, *httptest.Server) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	app, err := server.New(context.Background(), testConfig(dbURL))
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	ts := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		ts.Close()
		app.Close()
	})
	return app, ts
}

// browser keeps one signed-in session with its cookies and never follows
// redirects, so tests can assert on them.
type browser struct {
	t      *testing.T
	client *http.Client
	base   string
}

func newBrowser(t *testing.T, ts *httptest.Server) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := ts.Client()
	client.Jar = jar
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &browser{t: t, client: client, base: ts.URL}
}

func (b *browser) get(path string) (int, string, http.Header) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	if err != nil {
		b.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read %s: %v", path, err)
	}
	return resp.StatusCode, string(body), resp.Header
}

// token loads a page and returns the CSRF token embedded in its forms.
func (b *browser) token(path string) string {
	b.t.Helper()
	status, body, _ := b.get(path)
	match := csrfInput.FindStringSubmatch(body)
	if match == nil {
		b.t.Fatalf("no csrf token on %s (status %d)", path, status)
	}
	return match[1]
}

// submit posts a form the way the page at formPage would, token included.
func (b *browser) submit(formPage, action string, form url.Values) (int, string, string) {
	b.t.Helper()
	form.Set("csrf_token", b.token(formPage))
	return b.post(action, form)
}

func (b *browser) post(action string, form url.Values) (int, string, string) {
	b.t.Helper()
	resp, err := b.client.Post(b.base+action, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		b.t.Fatalf("POST %s: %v", action, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read %s: %v", action, err)
	}
	return resp.StatusCode, string(body), resp.Header.Get("Location")
}

func (b *browser) login(email, password string) {
	b.t.Helper()
	status, body, location := b.submit("/login", "/login", url.Values{"email": {email}, "password": {password}})
	if status != http.StatusSeeOther || location != "/dashboard" {
		b.t.Fatalf("login %s: status %d location %q body %s", email, status, location, body)
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (b *browser) getJSON(path string, want int) envelope {
	b.t.Helper()
	status, body, _ := b.get(path)
	if status != want {
		b.t.Fatalf("GET %s: expected %d, got %d: %s", path, want, status, body)
	}
	var env envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		b.t.Fatalf("decode %s: %v", path, err)
	}
	return env
}
