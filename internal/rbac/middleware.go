package rbac

import "net/http"

// Require rejects callers whose role lacks perm under DefaultPolicy.
func Require(perm string) func(http.Handler) http.Handler {
	return DefaultPolicy.Require(perm)
}

// RequireAny rejects callers holding none of perms under DefaultPolicy.
func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return DefaultPolicy.RequireAny(perms...)
}

func (p Policy) Require(perm string) func(http.Handler) http.Handler {
	return p.guard(func(role string) bool { return p.Allows(role, perm) })
}

func (p Policy) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return p.guard(func(role string) bool { return p.AllowsAny(role, perms...) })
}

func (p Policy) guard(allowed func(role string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !allowed(role) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
