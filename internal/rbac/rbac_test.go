package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultPolicy_Allows(t *testing.T) {
	cases := []struct {
		role, perm string
		want       bool
	}{
		{RoleEditor, PermContentImport, true},
		{RoleEditor, PermContentView, true},
		{RoleEditor, "users:list", false},
		{RoleViewer, PermContentImport, false},
		{RoleViewer, PermContentView, true},
		{RoleAdmin, "anything:at-all", true},
		{"", PermContentView, false},
		{"ghost", PermContentView, false},
	}
	for _, tc := range cases {
		if got := DefaultPolicy.Allows(tc.role, tc.perm); got != tc.want {
			t.Fatalf("Allows(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestPolicy_AllowsAny(t *testing.T) {
	p := Policy{"ops": {"content:*"}}
	if !p.AllowsAny("ops", "users:list", PermContentView) {
		t.Fatal("AllowsAny should match one permission")
	}
	if p.AllowsAny("ops", "users:list") {
		t.Fatal("prefix wildcard matched outside its prefix")
	}
}

func TestRequire(t *testing.T) {
	h := Require(PermContentImport)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for role, want := range map[string]int{RoleEditor: 200, RoleViewer: 403, "": 403} {
		req := httptest.NewRequest(http.MethodPost, "/importer/import", nil)
		req = req.WithContext(WithRole(req.Context(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("role %q: code = %d, want %d", role, rec.Code, want)
		}
	}
}

func TestRequireAny(t *testing.T) {
	h := RequireAny("users:list", PermContentView)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/content/1", nil)
	req = req.WithContext(WithRole(req.Context(), RoleViewer))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("code = %d", rec.Code)
	}
}
