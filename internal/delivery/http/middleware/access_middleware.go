package middleware

import (
	"context"
	"net/http"

	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/response"
)

type AccessMiddleware struct {
	access usecase.AccessUsecase
}

func NewAccessMiddleware(access usecase.AccessUsecase) *AccessMiddleware {
	return &AccessMiddleware{access: access}
}

// RequireAccess runs the access gate for page. Denials carry redirect_to so
// the browser can navigate; the status tells why (401 anonymous, 403
// missing consent or wrong role). Must run after Authenticate or Optional.
func (m *AccessMiddleware) RequireAccess(page, role string) func(http.Handler) http.Handler {
	opts := usecase.DefaultAccessOptions(page)
	opts.RequiredRole = role

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			decision := m.access.CheckAccess(r.Context(), identity, opts)

			if !decision.Allowed() {
				switch {
				case identity == nil:
					response.Redirect(w, http.StatusUnauthorized, "Authentication required", decision.RedirectTo)
				case decision.RedirectTo == usecase.PageLegalGate:
					response.Redirect(w, http.StatusForbidden, "Legal agreement required", decision.RedirectTo)
				default:
					response.Redirect(w, http.StatusForbidden, "You don't have permission to access this resource", decision.RedirectTo)
				}
				return
			}

			ctx := context.WithValue(r.Context(), RoleKey, decision.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireConsent gates any signed-in role on the current terms.
func (m *AccessMiddleware) RequireConsent(page string) func(http.Handler) http.Handler {
	return m.RequireAccess(page, "")
}
