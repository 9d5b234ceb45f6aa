package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/blogman/internal/model"
)

// mockSessionFinder はmiddleware.SessionFinderのモック実装。
type mockSessionFinder struct {
	findByIDFn func(ctx context.Context, id string) (*model.Session, error)
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

// mockPinger はPingerのモック実装。
type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func newTestRouterDeps() *RouterDeps {
	return &RouterDeps{
		SessionFinder: &mockSessionFinder{
			findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
				if id == "sess-abc" {
					return testSession(), nil
				}
				return nil, nil
			},
		},
		CORSAllowedOrigin: "http://localhost:3000",
		AuthService:       &mockAuthService{},
		AuthConfig:        testAuthConfig(),
		UserService:       &mockUserService{},
		PostService:       &mockPostService{},
		DraftStore:        &mockDraftStore{},
		DB:                &mockPinger{},
	}
}

func TestRouter_ProtectedRoute_WithoutCookie_Returns401(t *testing.T) {
	router := NewRouter(newTestRouterDeps())

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/posts"},
		{http.MethodPut, "/api/v1/posts/p1"},
		{http.MethodDelete, "/api/v1/posts/p1"},
		{http.MethodPost, "/api/v1/users/logout"},
		{http.MethodDelete, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/drafts"},
		{http.MethodPut, "/api/v1/drafts"},
		{http.MethodDelete, "/api/v1/drafts"},
	}

	for _, tt := range protected {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRouter_ProtectedRoute_WithValidSession_Succeeds(t *testing.T) {
	router := NewRouter(newTestRouterDeps())

	body := `{"title": "Hello", "content": "World"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-abc"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}
}

func TestRouter_ProtectedRoute_WithUnknownSession_Returns401(t *testing.T) {
	router := NewRouter(newTestRouterDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-expired"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRouter_PublicRoutes_RequireNoSession(t *testing.T) {
	deps := newTestRouterDeps()
	deps.PostService = &mockPostService{
		listFn: func(ctx context.Context) ([]*model.Post, error) {
			return []*model.Post{{ID: "p1", Title: "Hello"}}, nil
		},
		getFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, Title: "Hello"}, nil
		},
	}
	router := NewRouter(deps)

	public := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/posts"},
		{http.MethodGet, "/api/v1/posts/p1"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/health"},
	}

	for _, tt := range public {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
			}
		})
	}
}

// 短いパスワード・簡素なメールアドレスでもサインアップ→ログインが通ること。
func TestRouter_SignupThenLogin_ShortCredentials(t *testing.T) {
	router := NewRouter(newTestRouterDeps())

	body := `{"username": "alice", "email": "a@x.com", "password": "secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/signup", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		strings.NewReader(`{"email": "a@x.com", "password": "secret1"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}
	if findSessionCookie(w.Result()) == nil {
		t.Error("expected session cookie after login")
	}
}

func TestRouter_SignupThenLogout_Scenario(t *testing.T) {
	router := NewRouter(newTestRouterDeps())

	// サインアップで暗黙ログイン
	body := `{"username": "alice", "email": "alice@example.com", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/signup", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, want %d", w.Code, http.StatusCreated)
	}
	cookie := findSessionCookie(w.Result())
	if cookie == nil {
		t.Fatal("expected session cookie after signup")
	}

	// 取得したCookieでログアウトできること
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("logout status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_SecurityHeaders_Applied(t *testing.T) {
	router := NewRouter(newTestRouterDeps())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", got, "nosniff")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(newTestRouterDeps())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:3000")
	}
}

func TestRouter_HealthCheck_UnhealthyDB(t *testing.T) {
	deps := newTestRouterDeps()
	deps.DB = &mockPinger{
		pingFn: func(ctx context.Context) error {
			return errors.New("connection refused")
		},
	}
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got["status"] != "unhealthy" {
		t.Errorf("status = %q, want %q", got["status"], "unhealthy")
	}
}
