package api

import (
	"net/http"

	"github.com/mpapenbr/gp-playoffs/pkg/utils"
)

const tokenHeader = "api-token"

// requireAdmin rejects requests without the admin token.
// An empty admin token disables all admin endpoints.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminTokenHash == "" ||
			!utils.TokenMatches(r.Header.Get(tokenHeader), s.adminTokenHash) {
			s.writeError(w, r, http.StatusUnauthorized, errUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
