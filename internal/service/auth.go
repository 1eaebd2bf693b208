package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/moviesuggest/movie_system/internal/common"
	"github.com/moviesuggest/movie_system/internal/hash"
	"github.com/moviesuggest/movie_system/internal/logging"
	"github.com/moviesuggest/movie_system/internal/models"
	"github.com/moviesuggest/movie_system/internal/repo"
	"github.com/moviesuggest/movie_system/internal/tokens"
)

// Validation holds the shape rules applied to registration and profile
// updates.
type Validation struct {
	MinUsernameLen int
	MinPasswordLen int
}

func DefaultValidation() Validation {
	return Validation{MinUsernameLen: 3, MinPasswordLen: 6}
}

type AuthService struct {
	Repo   repo.GormRepo
	Tokens *tokens.Service
	Rules  Validation
}

type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type LoginResult struct {
	Token string
	User  PublicUser
}

// ProfileUpdate carries the optional fields of an update request. Nil
// means "leave unchanged".
type ProfileUpdate struct {
	Username *string
	Email    *string
	Password *string
}

func (s *AuthService) validateUsername(username string) error {
	if len(username) < s.Rules.MinUsernameLen {
		return fmt.Errorf("%w: username must be at least %d characters", common.ErrValidation, s.Rules.MinUsernameLen)
	}
	return nil
}

func (s *AuthService) validatePassword(password string) error {
	if len(password) < s.Rules.MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, s.Rules.MinPasswordLen)
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email address", common.ErrValidation)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := s.validateUsername(username); err != nil {
		return 0, err
	}
	if err := validateEmail(email); err != nil {
		return 0, err
	}
	if err := s.validatePassword(password); err != nil {
		return 0, err
	}

	// The pre-reads give a precise conflict message; the unique
	// constraints on the store remain the authority under concurrent
	// registration.
	if _, err := s.Repo.FindByUsername(ctx, username); err == nil {
		return 0, fmt.Errorf("%w: username already exists", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		l.Error("register_failed", "error", err)
		return 0, common.ErrInternal
	}
	if _, err := s.Repo.FindByEmail(ctx, email); err == nil {
		return 0, fmt.Errorf("%w: email already exists", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		l.Error("register_failed", "error", err)
		return 0, common.ErrInternal
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash the password", "error", err)
		return 0, common.ErrInternal
	}

	user := models.User{Username: username, Email: email, PasswordHash: pwHash}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			// Lost a race with a concurrent registration.
			return 0, fmt.Errorf("%w: username or email already exists", common.ErrConflict)
		}
		l.Error("register_failed", "error", err)
		return 0, common.ErrInternal
	}

	l.Info("user_registered", "user_id", user.ID)
	return user.ID, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	user, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Identical to a password mismatch so usernames cannot
			// be enumerated.
			return nil, common.ErrAuthentication
		}
		l.Error("login_failed", "error", err)
		return nil, common.ErrInternal
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrAuthentication
	}

	token, err := s.Tokens.Issue(user.ID, user.Username)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign token", "error", err)
		return nil, common.ErrInternal
	}

	l.Info("user_logged_in", "user_id", user.ID)
	return &LoginResult{
		Token: token,
		User:  PublicUser{ID: user.ID, Username: user.Username},
	}, nil
}

// GetProfile assumes ownership was already enforced by the access
// guard; it only fetches.
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		logging.FromContext(ctx).Error("get_profile_failed", "user_id", userID, "error", err)
		return nil, common.ErrInternal
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) error {
	l := logging.FromContext(ctx).With("svc", "auth.update_profile", "user_id", userID)

	fields := map[string]any{}
	if upd.Username != nil {
		if err := s.validateUsername(*upd.Username); err != nil {
			return err
		}
		fields["username"] = *upd.Username
	}
	if upd.Email != nil {
		if err := validateEmail(*upd.Email); err != nil {
			return err
		}
		fields["email"] = *upd.Email
	}
	if upd.Password != nil {
		if err := s.validatePassword(*upd.Password); err != nil {
			return err
		}
		pwHash, err := hash.HashPassword(*upd.Password)
		if err != nil {
			l.Error("update_profile_failed", "reason", "cannot hash the password", "error", err)
			return common.ErrInternal
		}
		fields["password_hash"] = pwHash
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}

	if err := s.Repo.UpdateUser(ctx, userID, fields); err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return common.ErrNotFound
		case errors.Is(err, common.ErrConflict):
			return fmt.Errorf("%w: username or email already exists", common.ErrConflict)
		}
		l.Error("update_profile_failed", "error", err)
		return common.ErrInternal
	}

	l.Info("profile_updated")
	return nil
}
