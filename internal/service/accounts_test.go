package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"devblog/internal/config"
	"devblog/internal/domain"
	"devblog/internal/forms"
	"devblog/internal/service/mocks"
)

type AccountServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	users     *mocks.MockUserStore
	profiles  *mocks.MockProfileStore
	articles  *mocks.MockArticleStore
	txManager *mocks.MockTransactionManager
	hasher    *mocks.MockPasswordHasher
	tokens    *mocks.MockTokenIssuer

	service *AccountService
	now     time.Time
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.users = mocks.NewMockUserStore(s.ctrl)
	s.profiles = mocks.NewMockProfileStore(s.ctrl)
	s.articles = mocks.NewMockArticleStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.hasher = mocks.NewMockPasswordHasher(s.ctrl)
	s.tokens = mocks.NewMockTokenIssuer(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	articles := NewArticleService(s.articles, mocks.NewMockCategoryStore(s.ctrl), mocks.NewMockMarkdownRenderer(s.ctrl), logger, config.BlogConfig{ListPageSize: 9})

	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.service = NewAccountService(s.users, s.profiles, s.txManager, s.hasher, s.tokens, articles, logger)
	s.service.now = func() time.Time { return s.now }
}

func (s *AccountServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) expectTransaction() {
	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
}

func (s *AccountServiceTestSuite) expectDashboard() {
	s.articles.EXPECT().Find(gomock.Any(), gomock.Any(), 0, 0).Return(nil, nil).Times(2)
}

func signupForm() forms.SignupForm {
	return forms.SignupForm{
		FirstName: "Ada",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "correct horse",
	}
}

func (s *AccountServiceTestSuite) TestSignup() {
	ctx := context.Background()

	s.users.EXPECT().EmailTaken(ctx, "ada@example.com", int64(0)).Return(false, nil)
	s.users.EXPECT().UsernameTaken(ctx, "ada").Return(false, nil)
	s.hasher.EXPECT().Hash("correct horse").Return("hashed", nil)
	s.expectTransaction()
	s.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u *domain.User) error {
			s.Equal("hashed", u.PasswordHash)
			s.Equal(s.now, u.JoinedAt)
			u.ID = 42
			return nil
		},
	)
	s.profiles.EXPECT().GetOrCreate(gomock.Any(), int64(42)).Return(&domain.UserProfile{UserID: 42}, nil)
	s.tokens.EXPECT().Issue(int64(42)).Return("token-42", nil)

	session, err := s.service.Signup(ctx, signupForm())

	s.Require().NoError(err)
	s.Equal("token-42", session.Token)
	s.Equal("ada", session.User.Username)
}

func (s *AccountServiceTestSuite) TestSignup_DuplicatesAreFieldErrors() {
	ctx := context.Background()

	s.users.EXPECT().EmailTaken(ctx, "ada@example.com", int64(0)).Return(true, nil)
	s.users.EXPECT().UsernameTaken(ctx, "ada").Return(true, nil)

	_, err := s.service.Signup(ctx, signupForm())

	var verr *domain.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "email")
	s.Contains(verr.Fields, "username")
}

func (s *AccountServiceTestSuite) TestSignup_ShortPassword() {
	form := signupForm()
	form.Password = "short"

	_, err := s.service.Signup(context.Background(), form)

	var verr *domain.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "password")
}

func (s *AccountServiceTestSuite) TestSignup_RaceAtCommit() {
	ctx := context.Background()

	s.users.EXPECT().EmailTaken(ctx, gomock.Any(), int64(0)).Return(false, nil)
	s.users.EXPECT().UsernameTaken(ctx, gomock.Any()).Return(false, nil)
	s.hasher.EXPECT().Hash(gomock.Any()).Return("hashed", nil)
	s.expectTransaction()
	s.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrConflict)

	_, err := s.service.Signup(ctx, signupForm())

	var verr *domain.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "username")
}

func (s *AccountServiceTestSuite) TestLogin() {
	ctx := context.Background()
	user := &domain.User{ID: 42, Username: "ada", PasswordHash: "hashed"}

	s.users.EXPECT().GetByUsername(ctx, "ada").Return(user, nil)
	s.hasher.EXPECT().Matches("hashed", "correct horse").Return(true)
	s.tokens.EXPECT().Issue(int64(42)).Return("token-42", nil)

	session, err := s.service.Login(ctx, forms.LoginForm{Username: " ada ", Password: "correct horse"})

	s.Require().NoError(err)
	s.Equal("token-42", session.Token)
}

func (s *AccountServiceTestSuite) TestLogin_FailuresLookTheSame() {
	ctx := context.Background()
	user := &domain.User{ID: 42, Username: "ada", PasswordHash: "hashed"}

	s.users.EXPECT().GetByUsername(ctx, "ghost").Return(nil, domain.ErrNotFound)
	s.users.EXPECT().GetByUsername(ctx, "ada").Return(user, nil)
	s.hasher.EXPECT().Matches("hashed", "wrong").Return(false)

	_, unknownErr := s.service.Login(ctx, forms.LoginForm{Username: "ghost", Password: "wrong"})
	_, wrongErr := s.service.Login(ctx, forms.LoginForm{Username: "ada", Password: "wrong"})

	s.Require().Error(unknownErr)
	s.Equal(unknownErr.Error(), wrongErr.Error())

	var verr *domain.ValidationError
	s.Require().ErrorAs(wrongErr, &verr)
	s.Equal(loginFailed, verr.Fields["form"])
}

func (s *AccountServiceTestSuite) TestLogin_StoreError() {
	ctx := context.Background()

	s.users.EXPECT().GetByUsername(ctx, "ada").Return(nil, errors.New("db down"))

	_, err := s.service.Login(ctx, forms.LoginForm{Username: "ada", Password: "x"})

	s.ErrorContains(err, "load user")
}

func (s *AccountServiceTestSuite) TestProfile() {
	ctx := context.Background()
	viewer := domain.Viewer{UserID: 42}

	s.users.EXPECT().GetByID(ctx, int64(42)).Return(&domain.User{ID: 42}, nil)
	s.profiles.EXPECT().GetOrCreate(ctx, int64(42)).Return(&domain.UserProfile{UserID: 42}, nil)
	s.expectDashboard()

	view, err := s.service.Profile(ctx, viewer)

	s.Require().NoError(err)
	s.Equal(int64(42), view.Profile.UserID)
	s.Equal(0, view.Dashboard.PublishedCount)
}

func (s *AccountServiceTestSuite) TestProfile_Anonymous() {
	_, err := s.service.Profile(context.Background(), domain.Anonymous)

	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *AccountServiceTestSuite) expectProfile(user *domain.User) {
	s.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	s.profiles.EXPECT().GetOrCreate(gomock.Any(), user.ID).Return(&domain.UserProfile{UserID: user.ID}, nil)
	s.expectDashboard()
}

func (s *AccountServiceTestSuite) TestUpdateProfile_ChangesPassword() {
	ctx := context.Background()
	user := &domain.User{ID: 42, Email: "ada@example.com", PasswordHash: "old-hash"}

	s.expectProfile(user)
	s.hasher.EXPECT().Matches("old-hash", "old password").Return(true)
	s.hasher.EXPECT().Hash("new password").Return("new-hash", nil)
	s.expectTransaction()
	s.users.EXPECT().Update(gomock.Any(), user).Return(nil)
	s.profiles.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.UserProfile) error {
			s.Equal("Writes about Go.", p.Bio)
			s.Equal("https://ada.dev", p.Website)
			return nil
		},
	)
	s.tokens.EXPECT().Issue(int64(42)).Return("fresh", nil)

	result, err := s.service.UpdateProfile(ctx, domain.Viewer{UserID: 42}, forms.ProfileForm{
		FirstName:   "Ada",
		Email:       "ada@example.com",
		Bio:         "Writes about Go.",
		Website:     "https://ada.dev",
		OldPassword: "old password",
		NewPassword: "new password",
	})

	s.Require().NoError(err)
	s.Equal("new-hash", user.PasswordHash)
	s.Equal("fresh", result.Token)
	s.Equal([]domain.Message{
		domain.Success("Password changed."),
		domain.Success("Profile updated."),
	}, result.Messages)
}

func (s *AccountServiceTestSuite) TestUpdateProfile_WrongPasswordStillSavesProfile() {
	ctx := context.Background()
	user := &domain.User{ID: 42, Email: "ada@example.com", PasswordHash: "old-hash"}

	s.expectProfile(user)
	s.hasher.EXPECT().Matches("old-hash", "guess").Return(false)
	s.expectTransaction()
	s.users.EXPECT().Update(gomock.Any(), user).Return(nil)
	s.profiles.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.service.UpdateProfile(ctx, domain.Viewer{UserID: 42}, forms.ProfileForm{
		FirstName:   "Ada L.",
		Email:       "ada@example.com",
		OldPassword: "guess",
		NewPassword: "new password",
	})

	s.Require().NoError(err)
	s.Equal("old-hash", user.PasswordHash)
	s.Equal("Ada L.", user.FirstName)
	s.Empty(result.Token)
	s.Equal([]domain.Message{
		domain.Failure("Current password is incorrect."),
		domain.Success("Profile updated."),
	}, result.Messages)
}

func (s *AccountServiceTestSuite) TestUpdateProfile_EmailTakenByOther() {
	ctx := context.Background()
	user := &domain.User{ID: 42, Email: "ada@example.com"}

	s.expectProfile(user)
	s.users.EXPECT().EmailTaken(ctx, "grace@example.com", int64(42)).Return(true, nil)

	_, err := s.service.UpdateProfile(ctx, domain.Viewer{UserID: 42}, forms.ProfileForm{Email: "grace@example.com"})

	var verr *domain.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "email")
}

func (s *AccountServiceTestSuite) TestUpdateProfile_InvalidWebsite() {
	_, err := s.service.UpdateProfile(context.Background(), domain.Viewer{UserID: 42}, forms.ProfileForm{Website: "not a url"})

	var verr *domain.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "website")
}
