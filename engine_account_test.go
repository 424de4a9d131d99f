package blogauth

import (
	"context"
	"errors"
	"testing"
)

func TestChangePasswordSuccess(t *testing.T) {
	store := newMockUserStore()
	store.put(verifiedUser(t, "u1", "alice@example.com", "old-password-123"))
	engine, _ := newTestEngine(t, store)

	ctx := context.Background()
	if err := engine.ChangePassword(ctx, "u1", "old-password-123", "new-password-456"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := engine.Login(ctx, "alice@example.com", "new-password-456", ""); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := engine.Login(ctx, "alice@example.com", "old-password-123", ""); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("login with old password = %v, want ErrPasswordMismatch", err)
	}
}

func TestChangePasswordReuse(t *testing.T) {
	store := newMockUserStore()
	store.put(verifiedUser(t, "u1", "alice@example.com", "old-password-123"))
	engine, _ := newTestEngine(t, store)

	err := engine.ChangePassword(context.Background(), "u1", "old-password-123", "old-password-123")
	if !errors.Is(err, ErrSamePassword) {
		t.Fatalf("ChangePassword = %v, want ErrSamePassword", err)
	}
}

func TestChangePasswordReuseReportedBeforeMismatch(t *testing.T) {
	store := newMockUserStore()
	store.put(verifiedUser(t, "u1", "alice@example.com", "old-password-123"))
	engine, _ := newTestEngine(t, store)

	// Old and new are equal AND both wrong; reuse wins.
	err := engine.ChangePassword(context.Background(), "u1", "wrong-password", "wrong-password")
	if !errors.Is(err, ErrSamePassword) {
		t.Fatalf("ChangePassword = %v, want ErrSamePassword", err)
	}
}

func TestChangePasswordWrongOld(t *testing.T) {
	store := newMockUserStore()
	store.put(verifiedUser(t, "u1", "alice@example.com", "old-password-123"))
	engine, _ := newTestEngine(t, store)

	err := engine.ChangePassword(context.Background(), "u1", "wrong-password", "new-password-456")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("ChangePassword = %v, want ErrPasswordMismatch", err)
	}
}

func TestChangePasswordUnknownUser(t *testing.T) {
	engine, _ := newTestEngine(t, newMockUserStore())

	err := engine.ChangePassword(context.Background(), "ghost", "old-password", "new-password")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ChangePassword = %v, want ErrUserNotFound", err)
	}
}

func TestChangePasswordEmptyFields(t *testing.T) {
	engine, _ := newTestEngine(t, newMockUserStore())

	for _, tc := range []struct{ id, old, new string }{
		{"", "old", "new"},
		{"u1", "", "new"},
		{"u1", "old", ""},
	} {
		if err := engine.ChangePassword(context.Background(), tc.id, tc.old, tc.new); !errors.Is(err, ErrEmptyFields) {
			t.Fatalf("ChangePassword(%q, %q, %q) = %v, want ErrEmptyFields", tc.id, tc.old, tc.new, err)
		}
	}
}

func TestChangeEmailSuccess(t *testing.T) {
	store := newMockUserStore()
	store.put(verifiedUser(t, "u1", "alice@example.com", "correct-horse"))
	engine, _ := newTestEngine(t, store)

	ctx := context.Background()
	if err := engine.ChangeEmail(ctx, "u1", "alice@example.com", "alice-new@example.com"); err != nil {
		t.Fatalf("ChangeEmail failed: %v", err)
	}

	after, err := store.GetUserByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if after.Email != "alice-new@example.com" {
		t.Fatalf("email = %q, want new address", after.Email)
	}
	// The account holder proved control of the session; the new address
	// is verified immediately.
	if !after.Verified() {
		t.Fatal("new email not marked verified")
	}
}

func TestChangeEmailCurrentMismatch(t *testing.T) {
	store := newMockUserStore()
	store.put(verifiedUser(t, "u1", "alice@example.com", "correct-horse"))
	engine, _ := newTestEngine(t, store)

	err := engine.ChangeEmail(context.Background(), "u1", "wrong@example.com", "alice-new@example.com")
	if !errors.Is(err, ErrEmailMismatch) {
		t.Fatalf("ChangeEmail = %v, want ErrEmailMismatch", err)
	}
}

func TestChangeEmailTaken(t *testing.T) {
	store := newMockUserStore()
	store.put(verifiedUser(t, "u1", "alice@example.com", "correct-horse"))
	store.put(verifiedUser(t, "u2", "bob@example.com", "correct-horse"))
	engine, _ := newTestEngine(t, store)

	err := engine.ChangeEmail(context.Background(), "u1", "alice@example.com", "bob@example.com")
	if !errors.Is(err, ErrEmailAlreadyUsed) {
		t.Fatalf("ChangeEmail = %v, want ErrEmailAlreadyUsed", err)
	}
}

func TestChangeEmailInvalidNew(t *testing.T) {
	store := newMockUserStore()
	store.put(verifiedUser(t, "u1", "alice@example.com", "correct-horse"))
	engine, _ := newTestEngine(t, store)

	err := engine.ChangeEmail(context.Background(), "u1", "alice@example.com", "not-an-email")
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("ChangeEmail = %v, want ErrInvalidEmail", err)
	}
}

func TestProfile(t *testing.T) {
	store := newMockUserStore()
	store.put(verifiedUser(t, "u1", "alice@example.com", "correct-horse"))
	engine, _ := newTestEngine(t, store)

	user, err := engine.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("unexpected profile: %+v", user)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash leaked through profile")
	}

	if _, err := engine.Profile(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown profile = %v, want ErrUserNotFound", err)
	}
}

func TestUsers(t *testing.T) {
	store := newMockUserStore()
	store.put(verifiedUser(t, "u1", "alice@example.com", "correct-horse"))
	store.put(verifiedUser(t, "u2", "bob@example.com", "correct-horse"))
	engine, _ := newTestEngine(t, store)

	users, err := engine.Users(context.Background())
	if err != nil {
		t.Fatalf("Users failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len(users) = %d, want 2", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("password hash leaked for %s", u.ID)
		}
	}
}

func TestUsersEmpty(t *testing.T) {
	engine, _ := newTestEngine(t, newMockUserStore())

	if _, err := engine.Users(context.Background()); !errors.Is(err, ErrNoUsers) {
		t.Fatalf("Users = %v, want ErrNoUsers", err)
	}
}
