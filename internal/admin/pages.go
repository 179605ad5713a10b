package admin

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/brightpixel/studiosite/internal/auth"
	"github.com/brightpixel/studiosite/pkg"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type loginPageData struct {
	From  string
	Error bool
}

type dashboardPageData struct {
	Username string
	Role     auth.Role
}

func renderPage(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Errorf("render page %s: %s", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.HTML, buf.Bytes())
}

func (handler *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, "login.html", loginPageData{
		From:  auth.SafeRedirectPath(r.URL.Query().Get("from")),
		Error: r.URL.Query().Get("error") != "",
	})
}

func (handler *Handler) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		// only reachable when the gate is not in front of this handler
		http.Redirect(w, r, auth.LoginRedirectURL(r.URL.Path), http.StatusFound)
		return
	}

	renderPage(w, "dashboard.html", dashboardPageData{
		Username: claims.Subject,
		Role:     claims.Role,
	})
}
