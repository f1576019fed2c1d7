package app

import (
	_ "embed"
	"net/http"
)

//go:embed static/index.html
var dashboardPage []byte

// serveDashboard answers the single dashboard page. The page is a thin
// client of the JSON API; all filtering and aggregation happens server
// side on each request.
func (app *Application) serveDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(dashboardPage)
}
