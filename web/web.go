// Package web provides the embedded web UI for the calc server.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/lemonberrylabs/calc/pkg/calc"
	"github.com/lemonberrylabs/calc/pkg/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// recentLimit is how many evaluations the dashboard shows.
const recentLimit = 50

// Handler serves the web UI pages.
type Handler struct {
	store    *store.Store
	maxDepth int
	funcMap  template.FuncMap
}

// pageData wraps all page-specific data with common fields.
type pageData struct {
	NavActive string
	Data      interface{}
}

// New creates a new web UI handler.
func New(s *store.Store, maxDepth int) *Handler {
	return &Handler{
		store:    s,
		maxDepth: maxDepth,
		funcMap: template.FuncMap{
			"timeAgo":    timeAgo,
			"formatTime": formatTime,
			"stateClass": stateClass,
			"stateIcon":  stateIcon,
			"truncate":   truncate,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, page string, navActive string, data interface{}) error {
	// Each page is parsed with the layout on its own so define blocks do not
	// collide across pages.
	tmpl, err := template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
	if err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	pd := pageData{
		NavActive: navActive,
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pd); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

// Register adds web UI routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/ui", h.dashboard)
	app.Post("/ui/evaluate", h.evaluate)
	app.Get("/ui/evaluations/:id", h.evaluationDetail)

	// Redirect root to UI
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui")
	})
}

// --- Page Data Types ---

type dashboardContent struct {
	Recent         []*store.Evaluation
	Total          int
	SucceededCount int
	FailedCount    int
	MaxInputSize   int
}

type evaluationDetailContent struct {
	Evaluation *store.Evaluation
}

// --- Handlers ---

func (h *Handler) dashboard(c *fiber.Ctx) error {
	all := h.store.List()
	succeeded, failed := h.store.Counts()

	recent := all
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return h.render(c, "dashboard.html", "dashboard", dashboardContent{
		Recent:         recent,
		Total:          len(all),
		SucceededCount: succeeded,
		FailedCount:    failed,
		MaxInputSize:   calc.MaxInputSize,
	})
}

func (h *Handler) evaluate(c *fiber.Ctx) error {
	opts := calc.Options{
		Float:    c.FormValue("float") != "",
		MaxDepth: h.maxDepth,
	}
	ev := h.store.Evaluate(c.FormValue("expression"), opts)
	return c.Redirect("/ui/evaluations/"+ev.ID, fiber.StatusSeeOther)
}

func (h *Handler) evaluationDetail(c *fiber.Ctx) error {
	ev, err := h.store.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(404).SendString(err.Error())
		}
		return c.Status(500).SendString(err.Error())
	}
	return h.render(c, "evaluation.html", "dashboard", evaluationDetailContent{Evaluation: ev})
}

// --- Template Helpers ---

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("2006-01-02 15:04:05")
}

func stateClass(state store.EvaluationState) string {
	switch state {
	case store.EvaluationSucceeded:
		return "state-succeeded"
	case store.EvaluationFailed:
		return "state-failed"
	default:
		return ""
	}
}

func stateIcon(state store.EvaluationState) template.HTML {
	switch state {
	case store.EvaluationSucceeded:
		return "&#10003;"
	case store.EvaluationFailed:
		return "&#10007;"
	default:
		return "&#8226;"
	}
}

// truncate cuts s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
