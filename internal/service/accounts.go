package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devblog/internal/domain"
	"devblog/internal/forms"
)

const loginFailed = "Please enter a correct username and password."

// Session is an authenticated user together with the token that proves it.
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"-"`
}

type ProfileView struct {
	User      *domain.User        `json:"user"`
	Profile   *domain.UserProfile `json:"profile"`
	Dashboard *domain.Dashboard   `json:"dashboard"`
}

type ProfileUpdate struct {
	*ProfileView
	Messages []domain.Message `json:"messages"`
	// Token is reissued after a password change, empty otherwise.
	Token string `json:"-"`
}

type AccountService struct {
	users     UserStore
	profiles  ProfileStore
	txManager TransactionManager
	hasher    PasswordHasher
	tokens    TokenIssuer
	articles  *ArticleService
	logger    *slog.Logger
	now       func() time.Time
}

func NewAccountService(
	users UserStore,
	profiles ProfileStore,
	txManager TransactionManager,
	hasher PasswordHasher,
	tokens TokenIssuer,
	articles *ArticleService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		profiles:  profiles,
		txManager: txManager,
		hasher:    hasher,
		tokens:    tokens,
		articles:  articles,
		logger:    logger.With("component", "accounts"),
		now:       time.Now,
	}
}

// Signup registers a user with an empty profile and logs them in.
func (s *AccountService) Signup(ctx context.Context, form forms.SignupForm) (*Session, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	emailTaken, err := s.users.EmailTaken(ctx, form.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		fields["email"] = "A user with that email already exists."
	}
	usernameTaken, err := s.users.UsernameTaken(ctx, form.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if usernameTaken {
		fields["username"] = "A user with that username already exists."
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     form.Username,
		Email:        form.Email,
		FirstName:    form.FirstName,
		PasswordHash: hash,
		JoinedAt:     s.now().UTC(),
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, user); err != nil {
			return err
		}
		_, err := s.profiles.GetOrCreate(txCtx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("username", "A user with that username already exists.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)

	return s.session(user)
}

// Login checks credentials. Any failure is the same form-level error.
func (s *AccountService) Login(ctx context.Context, form forms.LoginForm) (*Session, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, form.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("form", loginFailed)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !s.hasher.Matches(user.PasswordHash, form.Password) {
		return nil, domain.NewValidationError("form", loginFailed)
	}

	return s.session(user)
}

// Profile returns the viewer's account, profile and dashboard.
func (s *AccountService) Profile(ctx context.Context, viewer domain.Viewer) (*ProfileView, error) {
	if viewer.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	profile, err := s.profiles.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	dashboard, err := s.articles.Dashboard(ctx, viewer)
	if err != nil {
		return nil, err
	}

	return &ProfileView{User: user, Profile: profile, Dashboard: dashboard}, nil
}

// UpdateProfile overwrites the account and profile fields from form. A wrong
// current password only skips the password change.
func (s *AccountService) UpdateProfile(ctx context.Context, viewer domain.Viewer, form forms.ProfileForm) (*ProfileUpdate, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	view, err := s.Profile(ctx, viewer)
	if err != nil {
		return nil, err
	}
	user, profile := view.User, view.Profile

	if form.Email != "" && !strings.EqualFold(form.Email, user.Email) {
		taken, err := s.users.EmailTaken(ctx, form.Email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, domain.NewValidationError("email", "A user with that email already exists.")
		}
	}

	user.FirstName = form.FirstName
	user.Email = form.Email
	profile.Bio = form.Bio
	profile.GitHub = form.GitHub
	profile.Twitter = form.Twitter
	profile.Website = form.Website

	var messages []domain.Message
	passwordChanged := false
	if form.ChangesPassword() {
		if s.hasher.Matches(user.PasswordHash, form.OldPassword) {
			hash, err := s.hasher.Hash(form.NewPassword)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = hash
			passwordChanged = true
			messages = append(messages, domain.Success("Password changed."))
		} else {
			messages = append(messages, domain.Failure("Current password is incorrect."))
		}
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.users.Update(txCtx, user); err != nil {
			return err
		}
		return s.profiles.Update(txCtx, profile)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("email", "A user with that email already exists.")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	messages = append(messages, domain.Success("Profile updated."))

	result := &ProfileUpdate{ProfileView: view, Messages: messages}
	if passwordChanged {
		token, err := s.tokens.Issue(user.ID)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
		result.Token = token
	}

	s.logger.Info("profile updated", "user_id", user.ID, "password_changed", passwordChanged)

	return result, nil
}

func (s *AccountService) session(user *domain.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}
