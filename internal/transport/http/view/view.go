// Package view renders the server-side HTML pages. Every page template is
// parsed together with the shared layout once at start-up.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"corpdash/internal/domain/auth"
	"corpdash/internal/requestctx"
	"corpdash/internal/transport/http/shared"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Page is what handlers pass to Render.
type Page struct {
	Title       string
	Data        any
	Error       string
	Notice      string
	FieldErrors map[string]string
}

// pageContext is the value templates execute against.
type pageContext struct {
	Page
	Principal auth.Principal
	SignedIn  bool
	CSRFField template.HTML
	Path      string
	RequestID string
	Now       time.Time
}

// notices are the confirmations a redirect may request via ?notice=.
var notices = map[string]string{
	"created":  "Saved.",
	"updated":  "Changes saved.",
	"deleted":  "Deleted.",
	"recorded": "Reward recorded.",
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	names, err := fs.Glob(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := map[string]*template.Template{}
	for _, file := range names {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == "layout" {
			continue
		}
		tmpl, err := template.New("layout.html").Funcs(funcs()).ParseFS(templateFiles, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render executes a page into a buffer first so a template error never
// produces a half-written response.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := v.pages[name]
	if !ok {
		zap.L().Error("unknown template", zap.String("template", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if page.Notice == "" {
		page.Notice = notices[r.URL.Query().Get("notice")]
	}
	principal, signedIn := requestctx.GetPrincipal(r.Context())
	data := pageContext{
		Page:      page,
		Principal: principal,
		SignedIn:  signedIn,
		CSRFField: csrf.TemplateField(r),
		Path:      r.URL.Path,
		RequestID: requestctx.GetRequestID(r.Context()),
		Now:       time.Now(),
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		zap.L().Error("render template",
			zap.String("template", name),
			zap.Error(err),
			zap.String("requestId", data.RequestID),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the generic error page with a user-facing message.
func (v *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	v.Render(w, r, status, "error", Page{Title: http.StatusText(status), Error: message})
}

// Fail renders the error page for err, logging anything unexpected.
func (v *Renderer) Fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := shared.UserMessage(err)
	if status == http.StatusInternalServerError {
		shared.LogError(r, "request failed", err)
	}
	v.Error(w, r, status, msg)
}
