package httpapi

import (
	"database/sql"
	"net/http"
)

// NewMux registers the operational routes. Feature modules add their own
// routes to the returned mux.
func NewMux(db *sql.DB, metrics *Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}
