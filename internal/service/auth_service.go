package service

import (
	"errors"

	"insightx/internal/dto"
	"insightx/pkg/auth"
	"insightx/pkg/config"

	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues admin tokens for the single configured operator.
type AuthService struct {
	admin      config.AdminConfig
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(admin config.AdminConfig, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		admin:      admin,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// An unset hash disables admin login entirely.
	if s.admin.PasswordHash == "" || req.Username != s.admin.Username {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(req.Password, s.admin.PasswordHash) {
		s.logger.Warn("Admin login rejected", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateToken(req.Username, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtManager.GetTokenDuration().Seconds()),
	}, nil
}
