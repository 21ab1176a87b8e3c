package user

import (
	"context"
	"time"

	"github.com/prathamjain99/Quant/internal/config"
	"github.com/prathamjain99/Quant/pkg/jwt"
	"github.com/prathamjain99/Quant/pkg/logging"
	"github.com/prathamjain99/Quant/pkg/security"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

// Service 封装用户注册、登录与查询逻辑。
type Service struct {
	repo   *Repository
	jwtCfg config.JWTConfig
	logger *logging.Logger
}

// NewService 创建用户服务实例。
func NewService(repo *Repository, jwtCfg config.JWTConfig, logger *logging.Logger) *Service {
	return &Service{
		repo:   repo,
		jwtCfg: jwtCfg,
		logger: logger,
	}
}

// RegisterRequest 注册请求体。
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=40"`
	Name     string `json:"name"     binding:"required,max=128"`
	Role     string `json:"role"     binding:"required"`
}

// LoginRequest 登录请求体。
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult 登录成功返回的令牌与用户信息。
type LoginResult struct {
	Token string         `json:"token"`
	User  map[string]any `json:"user"`
}

// Register 注册新用户，用户名与邮箱均要求唯一。
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	role, err := ParseRole(req.Role)
	if err != nil {
		return nil, xerrors.InvalidArg("invalid role")
	}

	taken, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, xerrors.AlreadyExists("username is already taken")
	}

	used, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, xerrors.AlreadyExists("email is already in use")
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, xerrors.WrapInternal(err, "failed to hash password")
	}

	u := &User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Name:     req.Name,
		Role:     role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "username", u.Username, "role", u.Role)

	return u, nil
}

// Login 校验口令并签发携带用户身份的 JWT。
// 凭证错误统一返回 Unauthenticated，避免泄露用户是否存在。
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, xerrors.Unauthenticated("invalid credentials")
	}

	if !security.CheckPassword(req.Password, u.Password) {
		return nil, xerrors.Unauthenticated("invalid credentials")
	}

	token, err := jwt.GenerateToken(u.ID, u.Username, string(u.Role),
		s.jwtCfg.Secret, s.jwtCfg.Issuer, s.jwtCfg.ExpireDuration, nil)
	if err != nil {
		return nil, xerrors.WrapInternal(err, "failed to sign token")
	}

	now := time.Now()
	if err := s.repo.TouchLastLogin(ctx, u.ID, now); err != nil {
		// 登录时间更新失败不影响登录本身
		s.logger.WarnContext(ctx, "failed to touch last login", "user_id", u.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "user logged in", "username", u.Username)

	return &LoginResult{
		Token: token,
		User: map[string]any{
			"id":       u.ID,
			"username": u.Username,
			"email":    u.Email,
			"name":     u.Name,
			"role":     string(u.Role),
		},
	}, nil
}

// GetByUsername 按用户名加载用户。
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// GetByID 按 ID 加载用户。
func (s *Service) GetByID(ctx context.Context, id uint64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
