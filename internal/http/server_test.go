package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"spentnest/internal/api"
	"spentnest/internal/bus"
	"spentnest/internal/session"
)

// fakeBackend counts API hits so tests can assert that validation
// failures never reach the network. Individual paths can be given
// canned bodies or made to fail.
type fakeBackend struct {
	srv  *httptest.Server
	hits int64

	mu        sync.Mutex
	responses map[string]string
	failing   map[string]bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{
		responses: make(map[string]string),
		failing:   make(map[string]bool),
	}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fb.hits, 1)
		w.Header().Set("Content-Type", "application/json")

		fb.mu.Lock()
		body, canned := fb.responses[r.URL.Path]
		fail := fb.failing[r.URL.Path]
		fb.mu.Unlock()

		switch {
		case fail:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"backend unavailable"}`))
		case canned:
			_, _ = w.Write([]byte(body))
		case r.URL.Path == "/api/auth/login":
			_, _ = w.Write([]byte(`{"token":"tok-123","user":{"id":"u1","name":"Asha","email":"asha@example.com"}}`))
		case r.URL.Path == "/api/auth/signup":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) respond(path, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.responses[path] = body
}

func (fb *fakeBackend) failWith(path string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.failing[path] = true
}

func (fb *fakeBackend) count() int64 {
	return atomic.LoadInt64(&fb.hits)
}

func newTestServer(t *testing.T) (*Server, *fakeBackend, session.Store) {
	t.Helper()
	fb := newFakeBackend(t)
	sessions := session.NewMemoryStore()
	srv := NewServer(":0", api.NewClient(fb.srv.URL), sessions, bus.New(), nil)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, fb, sessions
}

// signIn seeds a session directly and returns the cookie to send.
func signIn(t *testing.T, sessions session.Store) *http.Cookie {
	t.Helper()
	sess := session.Session{
		ID:        session.NewID(),
		Token:     "tok-123",
		UserID:    "u1",
		Name:      "Asha",
		Email:     "asha@example.com",
		CreatedAt: time.Now().UTC(),
	}
	if err := sessions.Put(context.Background(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return &http.Cookie{Name: SessionCookie, Value: sess.ID}
}

func getPath(srv *Server, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func postForm(srv *Server, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "SpentNest") {
		t.Fatal("index body missing app name")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestLoginSetsCookieAndRedirects(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := postForm(srv, "/auth/login", url.Values{
		"email":    {"asha@example.com"},
		"password": {"secret"},
	}, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("login status=%d", rr.Code)
	}
	if got := rr.Header().Get("HX-Redirect"); got != "/dashboard" {
		t.Errorf("HX-Redirect = %q, want /dashboard", got)
	}

	var sid *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie {
			sid = c
		}
	}
	if sid == nil || sid.Value == "" {
		t.Fatal("session cookie not set")
	}
	if !sid.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "Welcome back, Asha!") {
		t.Errorf("missing welcome toast: %s", trigger)
	}
	if strings.Contains(trigger, "tok-123") {
		t.Error("bearer token must not appear in the response")
	}
}

func TestLoginValidationSkipsBackend(t *testing.T) {
	srv, fb, _ := newTestServer(t)

	rr := postForm(srv, "/auth/login", url.Values{"email": {""}, "password": {""}}, nil)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422", rr.Code)
	}
	if fb.count() != 0 {
		t.Errorf("backend hit %d times on invalid input", fb.count())
	}
}

func TestSignupTriggersFormSwitch(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := postForm(srv, "/auth/signup", url.Values{
		"name":     {"Asha"},
		"email":    {"asha@example.com"},
		"password": {"secret"},
	}, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("signup status=%d", rr.Code)
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, `"signup:done"`) {
		t.Errorf("missing signup:done trigger: %s", trigger)
	}
	if rr.Header().Get("HX-Redirect") != "" {
		t.Error("signup should not redirect; the user signs in separately")
	}
}

func TestSessionMiddlewareRedirectsAnonymous(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status=%d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}

	// HTMX partial requests get a full-page redirect header instead.
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ui/expenses", nil)
	req.Header.Set("HX-Request", "true")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rr.Code)
	}
	if got := rr.Header().Get("HX-Redirect"); got != "/" {
		t.Errorf("HX-Redirect = %q, want /", got)
	}
}

func TestStaleCookieIsCleared(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "does-not-exist"})
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status=%d, want 303", rr.Code)
	}
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("stale session cookie was not cleared")
	}
}

func TestCreateExpenseValidationBeforeNetwork(t *testing.T) {
	srv, fb, sessions := newTestServer(t)
	cookie := signIn(t, sessions)

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing amount", url.Values{"category": {"Food"}}},
		{"bad amount", url.Values{"amount": {"abc"}, "category": {"Food"}}},
		{"missing category", url.Values{"amount": {"150.00"}}},
		{"bad date", url.Values{"amount": {"150.00"}, "category": {"Food"}, "date": {"31-12-2024"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := fb.count()
			rr := postForm(srv, "/expenses", tt.form, cookie)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status=%d, want 422", rr.Code)
			}
			if fb.count() != before {
				t.Error("backend was called for invalid input")
			}
			if !strings.Contains(rr.Header().Get("HX-Trigger"), `"type":"error"`) {
				t.Error("expected error toast trigger")
			}
		})
	}
}

func TestCreateExpenseSuccessTriggers(t *testing.T) {
	srv, fb, sessions := newTestServer(t)
	cookie := signIn(t, sessions)

	rr := postForm(srv, "/expenses", url.Values{
		"amount":      {"150.00"},
		"category":    {"Food"},
		"date":        {"2024-05-02"},
		"description": {"lunch"},
	}, cookie)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if fb.count() == 0 {
		t.Fatal("backend was never called")
	}

	trigger := rr.Header().Get("HX-Trigger")
	for _, part := range []string{`"expense:changed"`, `"form:reset"`, `"show-notification"`, "₹150.00"} {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestExpenseEditFormPrefilled(t *testing.T) {
	srv, fb, sessions := newTestServer(t)
	cookie := signIn(t, sessions)
	fb.respond("/api/expenses/u1", `[{"_id":"e1","userId":"u1","amount":150,"category":"Food","date":"2024-05-02","description":"lunch"}]`)

	rr := getPath(srv, "/ui/expenses", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "/ui/expenses/edit") {
		t.Error("expense rows should offer an edit control")
	}

	rr = getPath(srv, "/ui/expenses/edit?id=e1", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("edit form status=%d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, part := range []string{
		`hx-post="/expenses/update"`,
		`name="id" value="e1"`,
		`value="150.00"`,
		`value="2024-05-02"`,
		`value="lunch"`,
	} {
		if !strings.Contains(body, part) {
			t.Errorf("edit form missing %q: %s", part, body)
		}
	}

	rr = getPath(srv, "/ui/expenses/edit?id=nope", cookie)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown id status=%d, want 404", rr.Code)
	}
}

func TestUpdateExpenseTriggersListReload(t *testing.T) {
	srv, _, sessions := newTestServer(t)
	cookie := signIn(t, sessions)

	rr := postForm(srv, "/expenses/update", url.Values{
		"id":       {"e1"},
		"amount":   {"200.00"},
		"category": {"Food"},
		"date":     {"2024-05-02"},
	}, cookie)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	trigger := rr.Header().Get("HX-Trigger")
	for _, part := range []string{`"expense:changed"`, `"show-notification"`} {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestSummaryCardFailsWhenOneReadFails(t *testing.T) {
	srv, fb, sessions := newTestServer(t)
	cookie := signIn(t, sessions)
	fb.failWith("/api/income/u1")

	rr := getPath(srv, "/ui/summary", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := strings.TrimSpace(rr.Body.String())
	if body != `<div class="placeholder">Could not load summary</div>` {
		t.Errorf("want a single error partial, got: %s", body)
	}
}

func TestSavingsChartFailsWhenOneReadFails(t *testing.T) {
	srv, fb, sessions := newTestServer(t)
	cookie := signIn(t, sessions)
	fb.failWith("/api/budgets/u1")

	rr := getPath(srv, "/charts/savings", cookie)
	if rr.Code != http.StatusBadGateway {
		t.Errorf("status=%d, want 502", rr.Code)
	}
}

func TestDeleteThenRelistOmitsExpense(t *testing.T) {
	srv, fb, sessions := newTestServer(t)
	cookie := signIn(t, sessions)
	fb.respond("/api/expenses/u1", `[{"_id":"e1","userId":"u1","amount":150,"category":"Food","date":"2024-05-02","description":"lunch"}]`)

	rr := getPath(srv, "/ui/expenses", cookie)
	if !strings.Contains(rr.Body.String(), "lunch") {
		t.Fatalf("expected expense in first listing: %s", rr.Body.String())
	}

	// The backend no longer returns the record after the delete. The
	// second listing must reflect that, not the cached copy.
	fb.respond("/api/expenses/u1", `[]`)
	rr = postForm(srv, "/expenses/delete", url.Values{"id": {"e1"}}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = getPath(srv, "/ui/expenses", cookie)
	if strings.Contains(rr.Body.String(), "lunch") {
		t.Error("deleted expense still listed; cached list was not invalidated")
	}
	if strings.Contains(rr.Body.String(), "e1") {
		t.Error("deleted id still present in listing")
	}
}

func TestMarkDueDoneTriggers(t *testing.T) {
	srv, _, sessions := newTestServer(t)
	cookie := signIn(t, sessions)

	rr := postForm(srv, "/dues/done", url.Values{"id": {"d1"}}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), `"due:changed"`) {
		t.Errorf("missing due:changed trigger: %s", rr.Header().Get("HX-Trigger"))
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	srv, _, sessions := newTestServer(t)
	cookie := signIn(t, sessions)

	rr := postForm(srv, "/auth/logout", nil, cookie)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status=%d, want 303", rr.Code)
	}

	if _, err := sessions.Get(context.Background(), cookie.Value); err == nil {
		t.Error("session should be deleted after logout")
	}
}

func TestExportDisabledWithoutExporter(t *testing.T) {
	srv, _, sessions := newTestServer(t)
	cookie := signIn(t, sessions)

	rr := postForm(srv, "/export/sheets", url.Values{"sheet": {"Expenses"}}, cookie)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "not configured") {
		t.Errorf("expected not-configured toast: %s", rr.Header().Get("HX-Trigger"))
	}
}

func TestSuspiciousRequestBlocked(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard?q=../etc/passwd", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rr.Code)
	}
}
