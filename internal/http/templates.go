package httpx

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/inkwell/inkwell/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData feeds the HTML templates.
type pageData struct {
	Title     string
	Username  string
	FormError string
	FormData  map[string]string
	Post      *domain.Post
	Posts     []domain.Post
}

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
}

// parseTemplates compiles one template set per page, each paired with the
// base layout.
func parseTemplates() map[string]*template.Template {
	pages := []string{"home", "signup", "login", "post", "new_post"}
	cache := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		cache[page] = template.Must(template.New(page).
			Funcs(templateFuncs).
			ParseFS(templateFS, "templates/base.html", "templates/"+page+".html"))
	}
	return cache
}

// render executes a page into a buffer first so a template fault yields a
// clean 500 instead of a torn response.
func (r *Router) render(w http.ResponseWriter, status int, page string, data *pageData) {
	ts, ok := r.templates[page]
	if !ok {
		r.logger.Error("unknown template", "page", page)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if data == nil {
		data = &pageData{}
	}
	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		r.logger.Error("template render failed", "page", page, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
