package gatewayapp

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// PageHandler serves the console's server-rendered shells. The pages
// carry only the markup skeleton; data arrives through the /api routes.
type PageHandler struct {
	tmpl *template.Template
	log  *zap.Logger
}

func NewPageHandler(log *zap.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &PageHandler{tmpl: tmpl, log: log}, nil
}

type pageData struct {
	Title string
}

func (h *PageHandler) Login(w http.ResponseWriter, _ *http.Request) {
	h.render(w, "login.html.tmpl", pageData{Title: "Login"})
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	h.render(w, "dashboard.html.tmpl", pageData{Title: "Dashboard"})
}

func (h *PageHandler) MasterData(w http.ResponseWriter, _ *http.Request) {
	h.render(w, "master_data.html.tmpl", pageData{Title: "Master Data"})
}

func (h *PageHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil && h.log != nil {
		h.log.Error("render page failed", zap.String("template", name), zap.Error(err))
	}
}
