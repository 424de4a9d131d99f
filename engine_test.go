package blogauth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/alexmrv/blogauth/password"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

// mockUserStore is the in-memory UserStore used across engine tests.
type mockUserStore struct {
	mu      sync.Mutex
	byID    map[string]UserRecord
	byEmail map[string]string
	nextID  int

	failAll bool
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		byID:    make(map[string]UserRecord),
		byEmail: make(map[string]string),
		nextID:  1,
	}
}

func (s *mockUserStore) put(u UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u.ID
}

func (s *mockUserStore) remove(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[userID]; ok {
		delete(s.byEmail, u.Email)
		delete(s.byID, userID)
	}
}

func (s *mockUserStore) GetUserByEmail(_ context.Context, email string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAll {
		return UserRecord{}, fmt.Errorf("store down")
	}
	id, ok := s.byEmail[email]
	if !ok {
		return UserRecord{}, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}
	return s.byID[id], nil
}

func (s *mockUserStore) GetUserByID(_ context.Context, id string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAll {
		return UserRecord{}, fmt.Errorf("store down")
	}
	u, ok := s.byID[id]
	if !ok {
		return UserRecord{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return u, nil
}

func (s *mockUserStore) CreateUser(_ context.Context, input CreateUserInput) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAll {
		return UserRecord{}, fmt.Errorf("store down")
	}
	if _, ok := s.byEmail[input.Email]; ok {
		return UserRecord{}, fmt.Errorf("%w: %s", ErrUserExists, input.Email)
	}

	u := UserRecord{
		ID:           "u" + strconv.Itoa(s.nextID),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		CreatedAt:    time.Now(),
	}
	s.nextID++
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return u, nil
}

func (s *mockUserStore) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	u.PasswordHash = hash
	s.byID[userID] = u
	return nil
}

func (s *mockUserStore) UpdateEmail(_ context.Context, userID, email string, verifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	delete(s.byEmail, u.Email)
	u.Email = email
	u.EmailVerifiedAt = verifiedAt
	s.byID[userID] = u
	s.byEmail[email] = userID
	return nil
}

func (s *mockUserStore) ListUsers(_ context.Context) ([]UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAll {
		return nil, fmt.Errorf("store down")
	}
	out := make([]UserRecord, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	return out, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("test-secret")
	// MinCost keeps hashing fast in tests.
	cfg.Password.Cost = 4
	cfg.Audit.Enabled = false
	return cfg
}

func newTestEngine(t *testing.T, store UserStore) (*Engine, *miniredis.Miniredis) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	engine, err := New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		WithUserStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, mr
}

func testHash(t *testing.T, pass string) string {
	t.Helper()

	hasher, err := password.New(password.Config{Cost: 4})
	if err != nil {
		t.Fatalf("password.New failed: %v", err)
	}
	hash, err := hasher.Hash(pass)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	return hash
}

func verifiedUser(t *testing.T, id, email, pass string) UserRecord {
	t.Helper()

	return UserRecord{
		ID:              id,
		Email:           email,
		Name:            "Test User",
		PasswordHash:    testHash(t, pass),
		EmailVerifiedAt: time.Now().Add(-time.Hour),
		Role:            RoleUser,
		CreatedAt:       time.Now().Add(-24 * time.Hour),
	}
}
