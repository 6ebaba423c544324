package service

import (
	"context"
	"crypto/subtle"
	stderrors "errors"
	"strings"
	"taskmanager/internal/auth"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuthService struct {
	users            UserRepository
	tokens           *auth.TokenManager
	adminInviteToken string
	logger           *logrus.Logger
	now              func() time.Time
}

func NewAuthService(users UserRepository, tokens *auth.TokenManager, adminInviteToken string, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:            users,
		tokens:           tokens,
		adminInviteToken: adminInviteToken,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a member, or an admin when the invite token matches.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.ErrInvalidName
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, errors.ErrInvalidEmail
	}
	if req.Password == "" {
		return nil, errors.ErrInvalidPassword
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, errors.ErrUserAlreadyExists
	} else if !stderrors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           email,
		Password:        hash,
		Role:            s.roleFor(req.AdminInviteToken),
		ProfileImageURL: req.ProfileImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"event": "USER_REGISTERED", "user_id": user.ID, "role": user.Role}).Info("user registered")
	return s.respond(user)
}

func (s *AuthService) roleFor(inviteToken string) models.Role {
	if s.adminInviteToken != "" && inviteToken != "" &&
		subtle.ConstantTimeCompare([]byte(inviteToken), []byte(s.adminInviteToken)) == 1 {
		return models.RoleAdmin
	}
	return models.RoleMember
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.ComparePassword(user.Password, req.Password) {
		s.logger.WithFields(logrus.Fields{"event": "LOGIN_FAILED", "user_id": user.ID}).Warn("invalid password")
		return nil, errors.ErrInvalidCredentials
	}
	return s.respond(user)
}

func (s *AuthService) Profile(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.users.GetUserByID(ctx, actor.ID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, actor models.Actor, req models.UpdateProfileRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(req.Email); email != "" {
		user.Email = email
	}
	if req.ProfileImageURL != "" {
		user.ProfileImageURL = req.ProfileImageURL
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	user.UpdatedAt = s.now()

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.respond(user)
}

// Authenticate resolves a bearer token to the actor it was issued for. The
// role is taken from the stored user, not from the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Actor, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return models.Actor{}, err
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			return models.Actor{}, errors.ErrInvalidToken
		}
		return models.Actor{}, err
	}
	return models.Actor{ID: user.ID, Role: user.Role}, nil
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: *user, Token: token}, nil
}
