package service

import (
	"Limelight/internal/api/config"
	"Limelight/internal/api/dto"
	"Limelight/internal/pkg/security"
	"context"
	log "log/slog"
)

type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authServiceImpl struct{}

func NewAuthService() AuthService {
	return &authServiceImpl{}
}

// Login 运营账号走配置里的单账号凭据，没有用户表
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	cfg := config.Cfg.Security

	if req.Username != cfg.OperatorUsername {
		return nil, ErrOperatorNotFound
	}

	if err := security.CheckPasswordHash(req.Password, cfg.OperatorPasswordHash); err != nil {
		return nil, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(req.Username)
	if err != nil {
		log.ErrorContext(ctx, "签发 Token 失败", "username", req.Username, "err", err)
		return nil, UnExpectedError
	}

	log.InfoContext(ctx, "运营账号登录成功", "username", req.Username)
	return &dto.LoginResponse{Token: token}, nil
}
