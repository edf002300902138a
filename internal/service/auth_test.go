package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/auth"
	"github.com/nadia/studydesk/internal/session"
)

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo, *fakeBlobStore, session.Store) {
	t.Helper()
	users := newMockUserRepo()
	sessions := session.NewMemoryStore()
	blobs := newFakeBlobStore()
	// bcrypt cost 4 keeps each test in the milliseconds
	svc := NewAuthService(users, sessions, auth.NewPasswordServiceForTest(4), blobs, testLogger())
	return svc, users, blobs, sessions
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Username: "nadia",
		Name:     "Nadia R",
		Email:    "nadia@example.com",
		Password: "s3cret-pass",
	}
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Register() did not assign an ID")
	}
	if user.PasswordHash == "" {
		t.Error("Register() did not hash the password")
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Error("Register() stored the password in plaintext")
	}
}

func TestRegister_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing username", func(in *RegisterInput) { in.Username = "" }},
		{"missing name", func(in *RegisterInput) { in.Name = "" }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
		{"whitespace username", func(in *RegisterInput) { in.Username = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newTestAuthService(t)
			in := validRegistration()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	dup := validRegistration()
	dup.Email = "other@example.com" // only the username collides
	_, err := svc.Register(ctx, dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() with duplicate username error = %v, want ErrConflict", err)
	}
}

func TestRegister_WithProfilePicture(t *testing.T) {
	svc, users, blobs, _ := newTestAuthService(t)

	in := validRegistration()
	in.ProfilePic = strings.NewReader("png bytes")
	in.ProfilePicName = "me.png"

	user, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ProfilePicture == nil {
		t.Fatal("Register() did not record the profile picture path")
	}
	if !blobs.has(*user.ProfilePicture) {
		t.Errorf("profile picture %q not found in blob store", *user.ProfilePicture)
	}

	stored, _ := users.GetByID(context.Background(), user.ID)
	if stored.ProfilePicture == nil || *stored.ProfilePicture != *user.ProfilePicture {
		t.Error("stored user does not reference the saved picture")
	}
}

func TestRegister_ReclaimsPictureWhenInsertFails(t *testing.T) {
	svc, users, blobs, _ := newTestAuthService(t)
	users.failCreate = apperror.Conflict("username", "username already taken")

	in := validRegistration()
	in.ProfilePic = strings.NewReader("png bytes")
	in.ProfilePicName = "me.png"

	if _, err := svc.Register(context.Background(), in); err == nil {
		t.Fatal("Register() should have failed")
	}

	// The picture was saved before the insert; the failed insert must
	// trigger its (async) reclamation.
	blobs.waitRemoved(t)
	if blobs.count() != 0 {
		t.Errorf("blob store holds %d blobs after failed registration, want 0", blobs.count())
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	svc, _, _, sessions := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	sid, err := svc.Login(ctx, "nadia", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// The session must resolve back to the user.
	userID, err := sessions.Get(ctx, sid)
	if err != nil {
		t.Fatalf("sessions.Get() error = %v", err)
	}
	if userID != user.ID {
		t.Errorf("session resolves to %q, want %q", userID, user.ID)
	}
}

func TestLogin_UnifiedErrorForBadCredentials(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, errUnknownUser := svc.Login(ctx, "nobody", "whatever")
	_, errWrongPass := svc.Login(ctx, "nadia", "wrong-password")

	// Both must be 401s with the SAME message — different messages would
	// let an attacker enumerate which usernames exist.
	for _, err := range []error{errUnknownUser, errWrongPass} {
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("Login() error = %v, want ErrUnauthorized", err)
		}
	}

	var a, b *apperror.AppError
	errors.As(errUnknownUser, &a)
	errors.As(errWrongPass, &b)
	if a == nil || b == nil || a.Message != b.Message {
		t.Errorf("credential errors differ: %q vs %q", a.Message, b.Message)
	}
}

// =========================================================================
// LOGOUT TESTS
// =========================================================================

func TestLogout_DestroysSession(t *testing.T) {
	svc, _, _, sessions := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	sid, _ := svc.Login(ctx, "nadia", "s3cret-pass")

	if err := svc.Logout(ctx, sid); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if userID, _ := sessions.Get(ctx, sid); userID != "" {
		t.Error("session still resolves after Logout()")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	// No session at all, a made-up one, twice in a row: all fine.
	if err := svc.Logout(ctx, ""); err != nil {
		t.Errorf("Logout(\"\") error = %v", err)
	}
	if err := svc.Logout(ctx, "never-existed"); err != nil {
		t.Errorf("Logout(unknown) error = %v", err)
	}
	if err := svc.Logout(ctx, "never-existed"); err != nil {
		t.Errorf("repeated Logout(unknown) error = %v", err)
	}
}

// =========================================================================
// PROFILE TESTS
// =========================================================================

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, _ := svc.Register(ctx, validRegistration())

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Phone: "555-0100",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	if updated.Phone != "555-0100" {
		t.Errorf("Phone = %q, want %q", updated.Phone, "555-0100")
	}
	// Unsupplied fields keep their stored values.
	if updated.Name != "Nadia R" {
		t.Errorf("Name = %q, want unchanged %q", updated.Name, "Nadia R")
	}
	if updated.Email != "nadia@example.com" {
		t.Errorf("Email = %q, want unchanged", updated.Email)
	}
}

func TestUpdateProfile_PasswordChange(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, _ := svc.Register(ctx, validRegistration())

	if _, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Password: "new-pass"}); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	if _, err := svc.Login(ctx, "nadia", "s3cret-pass"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Error("old password still works after a password change")
	}
	if _, err := svc.Login(ctx, "nadia", "new-pass"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestUpdateProfile_NewPictureReclaimsOld(t *testing.T) {
	svc, _, blobs, _ := newTestAuthService(t)
	ctx := context.Background()

	in := validRegistration()
	in.ProfilePic = strings.NewReader("old pic")
	in.ProfilePicName = "old.png"
	user, err := svc.Register(ctx, in)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	oldKey := *user.ProfilePicture

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		ProfilePic:     strings.NewReader("new pic"),
		ProfilePicName: "new.png",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	if *updated.ProfilePicture == oldKey {
		t.Fatal("profile picture key did not change")
	}

	if removed := blobs.waitRemoved(t); removed != oldKey {
		t.Errorf("reclaimed %q, want old picture %q", removed, oldKey)
	}
	if !blobs.has(*updated.ProfilePicture) {
		t.Error("new picture missing from blob store")
	}
}
