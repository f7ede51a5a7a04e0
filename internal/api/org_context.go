package api

import (
	"net/http"
	"os"

	"github.com/quantumreach/outreach-server/internal/auth"
)

// orgIDFromRequest resolves the tenant for a request.
// Priority: session, X-Organization-ID header, org_id query param, then the
// DEFAULT_ORG_ID environment fallback in dev mode.
func orgIDFromRequest(r *http.Request, authManager *auth.Manager) string {
	if authManager != nil {
		if sess := authManager.GetSession(r); sess != nil && sess.OrganizationID != "" {
			return sess.OrganizationID
		}
	}
	if id := r.Header.Get("X-Organization-ID"); id != "" {
		return id
	}
	if id := r.URL.Query().Get("org_id"); id != "" {
		return id
	}
	if os.Getenv("DEV_MODE") == "true" || os.Getenv("ENVIRONMENT") == "development" {
		return os.Getenv("DEFAULT_ORG_ID")
	}
	return ""
}
