package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/lemonberrylabs/calc/pkg/calc"
	"github.com/lemonberrylabs/calc/pkg/store"
)

func setupTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	s := store.New(0)
	h := New(s, 0)
	app := fiber.New()
	h.Register(app)
	return app, s
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestDashboardEmpty(t *testing.T) {
	app, _ := setupTestApp(t)

	code, html := get(t, app, "/ui")
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, html)
	}
	if !strings.Contains(html, "Dashboard") {
		t.Error("expected Dashboard in response")
	}
	if !strings.Contains(html, "No evaluations yet") {
		t.Error("expected empty state message")
	}
}

func TestDashboardWithData(t *testing.T) {
	app, s := setupTestApp(t)
	s.Evaluate("(2+3)*4", calc.Options{})
	s.Evaluate("1/0", calc.Options{})

	code, html := get(t, app, "/ui")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	for _, want := range []string{"(2&#43;3)*4", "20", "Division by zero or near-zero", "Succeeded: 1", "Failed: 1"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in response", want)
		}
	}
}

func TestEvaluateForm(t *testing.T) {
	app, s := setupTestApp(t)

	form := url.Values{"expression": {"7/2"}, "float": {"on"}}
	req := httptest.NewRequest("POST", "/ui/evaluate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	list := s.List()
	if len(list) != 1 {
		t.Fatalf("expected 1 evaluation, got %d", len(list))
	}
	ev := list[0]
	if ev.Result != "3.5000" || ev.Mode != "FLOAT" {
		t.Errorf("unexpected evaluation %+v", ev)
	}
	if loc := resp.Header.Get("Location"); loc != "/ui/evaluations/"+ev.ID {
		t.Errorf("unexpected redirect %q", loc)
	}

	code, html := get(t, app, "/ui/evaluations/"+ev.ID)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(html, "3.5000") {
		t.Error("expected result in detail page")
	}
}

func TestEvaluationDetailFailed(t *testing.T) {
	app, s := setupTestApp(t)
	ev := s.Evaluate("3+4)", calc.Options{})

	code, html := get(t, app, "/ui/evaluations/"+ev.ID)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(html, "TrailingInput") {
		t.Error("expected error kind in detail page")
	}
}

func TestEvaluationNotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	code, _ := get(t, app, "/ui/evaluations/nope")
	if code != 404 {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestRootRedirect(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 302 {
		t.Errorf("expected 302, got %d", resp.StatusCode)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("1+2+3", 3); got != "1+2..." {
		t.Errorf("got %q", got)
	}
	if got := truncate("1+2", 10); got != "1+2" {
		t.Errorf("got %q", got)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	got := truncate("1+€€", 4)
	if got != "1+..." {
		t.Errorf("got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated string is not valid UTF-8: %q", got)
	}
	if got := truncate("1+€€", 5); got != "1+€..." {
		t.Errorf("got %q", got)
	}
}
