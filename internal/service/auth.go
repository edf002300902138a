package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/auth"
	"github.com/nadia/studydesk/internal/blob"
	"github.com/nadia/studydesk/internal/model"
	"github.com/nadia/studydesk/internal/repository"
	"github.com/nadia/studydesk/internal/session"
)

// AuthService handles registration, login/logout, and profile management.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → read/write user records
//   - sessions  session.Store             → the session registry
//   - passwords *auth.PasswordService     → bcrypt hashing
//   - blobs     blob.Store                → profile picture storage
type AuthService struct {
	users     repository.UserRepository
	sessions  session.Store
	passwords *auth.PasswordService
	blobs     blob.Store
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	sessions session.Store,
	passwords *auth.PasswordService,
	blobs blob.Store,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		passwords: passwords,
		blobs:     blobs,
		logger:    logger,
	}
}

// RegisterInput carries the registration form. ProfilePic is nil when no
// picture was uploaded.
type RegisterInput struct {
	Username       string
	Name           string
	Email          string
	Password       string
	Phone          string
	Socials        string
	ProfilePic     io.Reader
	ProfilePicName string
}

// Register validates the input, hashes the password, stores the optional
// profile picture, and persists the user.
//
// The picture is saved BEFORE the insert because the row records its path.
// If the insert then fails (e.g. duplicate username), the just-saved blob is
// reclaimed so a failed registration leaves nothing behind.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if in.Name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if in.Email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if in.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", in.Username, err)
	}

	user := &model.User{
		Username:     in.Username,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		Socials:      strings.TrimSpace(in.Socials),
	}

	if in.ProfilePic != nil {
		key, err := s.blobs.Save(ctx, in.ProfilePic, in.ProfilePicName)
		if err != nil {
			return nil, fmt.Errorf("storing profile picture: %w", err)
		}
		user.ProfilePicture = &key
	}

	if err := s.users.Create(ctx, user); err != nil {
		if user.ProfilePicture != nil {
			reclaimBlob(s.blobs, s.logger, *user.ProfilePicture)
		}
		return nil, err // already an apperror.Conflict or wrapped storage error
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies credentials and creates a session.
//
// UNIFIED CREDENTIAL ERRORS:
// "user not found" and "wrong password" return the IDENTICAL error. If the
// messages differed, an attacker could enumerate which usernames exist by
// watching which error comes back. The real cause still goes to the server
// log at debug level for operators.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Debug("login failed: unknown username", slog.String("username", username))
			return "", apperror.Unauthorized("invalid username or password")
		}
		return "", fmt.Errorf("logging in %s: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Debug("login failed: wrong password", slog.String("username", username))
		return "", apperror.Unauthorized("invalid username or password")
	}

	sid, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("creating session for %s: %w", username, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return sid, nil
}

// Logout destroys the session. Idempotent — logging out with no session (or
// an already-destroyed one) succeeds silently.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// GetUser returns the user record for a userID resolved by the session
// middleware. PasswordHash never serializes (json:"-"), so handlers can
// return the struct directly.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput carries the profile-update form. All fields are
// optional: the empty string means "leave unchanged" (this is a multipart
// form — an absent field arrives as ""). ProfilePic nil means keep the
// current picture.
type UpdateProfileInput struct {
	Name           string
	Email          string
	Phone          string
	Socials        string
	Password       string
	ProfilePic     io.Reader
	ProfilePicName string
}

// UpdateProfile applies a partial update to the caller's own profile.
// Unsupplied fields keep their stored values. A new profile picture
// supersedes the old one, which is reclaimed best-effort.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		user.Name = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		user.Email = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		user.Phone = v
	}
	if v := strings.TrimSpace(in.Socials); v != "" {
		user.Socials = v
	}
	if in.Password != "" {
		hash, err := s.passwords.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("updating password: %w", err)
		}
		user.PasswordHash = hash
	}

	var oldPic string
	if in.ProfilePic != nil {
		key, err := s.blobs.Save(ctx, in.ProfilePic, in.ProfilePicName)
		if err != nil {
			return nil, fmt.Errorf("storing profile picture: %w", err)
		}
		if user.ProfilePicture != nil {
			oldPic = *user.ProfilePicture
		}
		user.ProfilePicture = &key
	}

	if err := s.users.Update(ctx, user); err != nil {
		if in.ProfilePic != nil && user.ProfilePicture != nil {
			// The new picture never made it into the row — drop it, keep the old.
			reclaimBlob(s.blobs, s.logger, *user.ProfilePicture)
		}
		return nil, err
	}

	// Row now points at the new picture; the old blob is garbage.
	reclaimBlob(s.blobs, s.logger, oldPic)

	s.logger.Info("profile updated", slog.String("userID", userID))
	return user, nil
}
