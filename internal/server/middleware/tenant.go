package middleware

import "net/http"

// RequireTenant rejects requests without a tenant in context. The tenant always
// comes from the verified token; a tenantId query parameter naming a different
// tenant is refused rather than silently ignored.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tid, ok := TenantIDFromContext(r.Context())
			if !ok || tid == "" {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"valid tenant required"}`, http.StatusForbidden)
				return
			}
			if q := r.URL.Query().Get("tenantId"); q != "" && q != tid {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"tenant mismatch"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
