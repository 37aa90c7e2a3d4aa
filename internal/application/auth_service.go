package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	repo "github.com/oksasatya/go-posts-api/internal/domain/repository"
	"github.com/oksasatya/go-posts-api/pkg/apperror"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
)

// Token is the login response. ExpireIn is the token lifetime in seconds.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpireIn    int64  `json:"expire_in"`
}

// Caller is the identity carried by a verified token.
type Caller struct {
	UserID string
	Email  string
}

type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Logger logrus.FieldLogger
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, logger logrus.FieldLogger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Logger: logger}
}

func errInvalidCredentials() error {
	return apperror.New(apperror.KindInvalidCredentials, "invalid credentials")
}

func errCouldNotValidate() error {
	return apperror.Unauthenticated("could not validate credentials")
}

// IssueToken signs a token for the user. The returned Token carries its own
// lifetime.
func (s *AuthService) IssueToken(userID, email string) (Token, error) {
	access, _, err := s.JWT.GenerateAccessToken(userID, email)
	if err != nil {
		return Token{}, apperror.Wrap(apperror.KindInternal, "sign token", err)
	}
	return Token{
		AccessToken: access,
		TokenType:   "bearer",
		ExpireIn:    int64(s.JWT.AccessTTL.Seconds()),
	}, nil
}

func (s *AuthService) ResolveCaller(token string) (Caller, error) {
	if token == "" {
		return Caller{}, apperror.Unauthenticated("not authenticated")
	}
	claims, err := s.JWT.ParseAccessToken(token)
	if err != nil {
		return Caller{}, errCouldNotValidate()
	}
	return Caller{UserID: claims.Subject, Email: claims.Email}, nil
}

// CurrentUser resolves the token and loads its user. A token for a deleted
// user is rejected.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	caller, err := s.ResolveCaller(token)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrInvalidIdentifier) {
			return nil, errCouldNotValidate()
		}
		return nil, err
	}
	return u, nil
}

// Login never reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return Token{}, err
		}
		helpers.CompareHashAndPassword("", password)
		helpers.MetricLoginsFailed.Add(1)
		return Token{}, errInvalidCredentials()
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		helpers.MetricLoginsFailed.Add(1)
		return Token{}, errInvalidCredentials()
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user logged in")
	}
	return s.IssueToken(u.ID, u.Email)
}
