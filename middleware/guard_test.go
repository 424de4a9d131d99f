package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	blogauth "github.com/alexmrv/blogauth"
)

type stubUserStore struct {
	mu    sync.Mutex
	users map[string]blogauth.UserRecord
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[string]blogauth.UserRecord)}
}

func (s *stubUserStore) put(u blogauth.UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *stubUserStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *stubUserStore) GetUserByID(_ context.Context, id string) (blogauth.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return blogauth.UserRecord{}, fmt.Errorf("%w: %s", blogauth.ErrUserNotFound, id)
	}
	return u, nil
}

func (s *stubUserStore) GetUserByEmail(_ context.Context, email string) (blogauth.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return blogauth.UserRecord{}, fmt.Errorf("%w: %s", blogauth.ErrUserNotFound, email)
}

func (s *stubUserStore) CreateUser(_ context.Context, input blogauth.CreateUserInput) (blogauth.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := blogauth.UserRecord{
		ID:           fmt.Sprintf("u%d", len(s.users)+1),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubUserStore) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return blogauth.ErrUserNotFound
	}
	u.PasswordHash = hash
	s.users[userID] = u
	return nil
}

func (s *stubUserStore) UpdateEmail(_ context.Context, userID, email string, verifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return blogauth.ErrUserNotFound
	}
	u.Email = email
	u.EmailVerifiedAt = verifiedAt
	s.users[userID] = u
	return nil
}

func (s *stubUserStore) ListUsers(_ context.Context) ([]blogauth.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]blogauth.UserRecord, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func newTestEngine(t *testing.T, store blogauth.UserStore) *blogauth.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := blogauth.DefaultConfig()
	cfg.JWT.Secret = []byte("middleware-test-secret")
	cfg.Password.Cost = bcrypt.MinCost

	engine, err := blogauth.New().
		WithConfig(cfg).
		WithRedis(client).
		WithUserStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	return engine
}

func loginToken(t *testing.T, engine *blogauth.Engine, email, password string) string {
	t.Helper()

	result, err := engine.Login(context.Background(), email, password, "")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("Login returned no access token")
	}
	return result.AccessToken
}

func seedUser(t *testing.T, store *stubUserStore, id, email string, role blogauth.Role) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	store.put(blogauth.UserRecord{
		ID:              id,
		Email:           email,
		Name:            "Test User",
		PasswordHash:    string(hash),
		EmailVerifiedAt: time.Now(),
		Role:            role,
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestRequireAuthInjectsUser(t *testing.T) {
	store := newStubUserStore()
	seedUser(t, store, "u1", "alice@example.com", blogauth.RoleUser)
	engine := newTestEngine(t, store)
	token := loginToken(t, engine, "alice@example.com", "correct-horse")

	var seen *blogauth.UserRecord
	handler := RequireAuth(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if seen == nil || seen.ID != "u1" {
		t.Fatalf("context user = %+v, want u1", seen)
	}
	if seen.PasswordHash != "" {
		t.Fatal("context user carries a password hash")
	}
}

func TestRequireAuthMissingToken(t *testing.T) {
	store := newStubUserStore()
	engine := newTestEngine(t, store)

	handler := RequireAuth(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a token")
	}))

	for _, header := range []string{"", "Bearer ", "Basic abc", "token"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
		if code := errorCode(t, rec); code != "errorAuthToken" {
			t.Fatalf("header %q: error = %q, want errorAuthToken", header, code)
		}
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	store := newStubUserStore()
	engine := newTestEngine(t, store)

	handler := RequireAuth(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if code := errorCode(t, rec); code != "errorAuth" {
		t.Fatalf("error = %q, want errorAuth", code)
	}
}

func TestRequireAuthDeletedUser(t *testing.T) {
	store := newStubUserStore()
	seedUser(t, store, "u1", "alice@example.com", blogauth.RoleUser)
	engine := newTestEngine(t, store)
	token := loginToken(t, engine, "alice@example.com", "correct-horse")

	store.remove("u1")

	handler := RequireAuth(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached for a deleted user")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != "errorUserNotFound" {
		t.Fatalf("error = %q, want errorUserNotFound", code)
	}
}

func TestRequireAdmin(t *testing.T) {
	store := newStubUserStore()
	seedUser(t, store, "u1", "alice@example.com", blogauth.RoleUser)
	seedUser(t, store, "u2", "admin@example.com", blogauth.RoleAdmin)
	engine := newTestEngine(t, store)

	handler := RequireAuth(engine)(RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	adminToken := loginToken(t, engine, "admin@example.com", "correct-horse")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin status = %d, want 204", rec.Code)
	}

	userToken := loginToken(t, engine, "alice@example.com", "correct-horse")
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("non-admin status = %d, want 401", rec.Code)
	}
	if code := errorCode(t, rec); code != "errorUserIsNotAdmin" {
		t.Fatalf("error = %q, want errorUserIsNotAdmin", code)
	}
}

func TestRequireAdminWithoutAuthContext(t *testing.T) {
	handler := RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a context user")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if code := errorCode(t, rec); code != "errorUserIsNotAdmin" {
		t.Fatalf("error = %q, want errorUserIsNotAdmin", code)
	}
}
