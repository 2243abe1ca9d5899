package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"projectdesk/internal/apperr"
	"projectdesk/internal/core/auth"
	"projectdesk/internal/domain"
	"projectdesk/internal/media"
	"projectdesk/pkg/utils"
)

// AuthService 注册/登录/登出/刷新编排。密码哈希、存在性检查都是显式步骤，
// 不靠 ORM 钩子触发
type AuthService struct {
	log    *zap.Logger
	users  domain.UserRepository
	tokens *auth.Issuer
	media  media.Uploader
}

func NewAuthService(log *zap.Logger, users domain.UserRepository, tokens *auth.Issuer, uploader media.Uploader) *AuthService {
	return &AuthService{log: log, users: users, tokens: tokens, media: uploader}
}

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
	// 已暂存到本地的文件路径；AvatarPath 必填
	AvatarPath     string
	CoverImagePath string
}

type IdentifierKind string

const (
	IdentByUsername IdentifierKind = "username"
	IdentByEmail    IdentifierKind = "email"
)

// LoginIdentifier 在边界处解析一次，后续不再分支判断
type LoginIdentifier struct {
	Kind  IdentifierKind
	Value string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Password = strings.TrimSpace(in.Password)

	// 校验错误一次性全部收集
	var errs []string
	if in.Username == "" {
		errs = append(errs, "username is required")
	} else if len(in.Username) < 3 {
		errs = append(errs, "username must be at least 3 characters")
	}
	if in.Email == "" {
		errs = append(errs, "email is required")
	}
	if in.FullName == "" {
		errs = append(errs, "fullName is required")
	}
	if in.Password == "" {
		errs = append(errs, "password is required")
	} else if len(in.Password) > 72 {
		// bcrypt 的硬上限，超长静默截断是不存在的，直接拒
		errs = append(errs, "password must be at most 72 bytes")
	}
	if len(errs) > 0 {
		return nil, apperr.BadRequest(strings.Join(errs, ", "))
	}
	if in.AvatarPath == "" {
		return nil, apperr.BadRequest("avatar file is required")
	}

	username := strings.ToLower(in.Username)
	email := strings.ToLower(in.Email)

	// 预检查只是优化，并发下的正确性由唯一索引保证
	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("user with this email or username already exists")
	}

	// 必须先上传成功再落库，避免留下缺头像的半成品记录
	avatarURL, err := s.media.Upload(ctx, in.AvatarPath)
	if err != nil {
		s.log.Warn("avatar upload failed", zap.Error(err))
		return nil, apperr.BadRequest("failed to upload avatar")
	}

	coverURL := ""
	if in.CoverImagePath != "" {
		coverURL, err = s.media.Upload(ctx, in.CoverImagePath)
		if err != nil {
			// 封面图失败不阻断注册
			s.log.Warn("cover image upload failed", zap.Error(err))
			coverURL = ""
		}
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("hash password failed", err)
	}

	u := &domain.User{
		ID:            utils.NewID(),
		Username:      username,
		Email:         email,
		FullName:      in.FullName,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		Role:          "user",
		IsActive:      true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.Conflict("user with this email or username already exists")
		}
		return nil, apperr.Internal("create user failed", err)
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, ident LoginIdentifier, password string) (*domain.User, auth.TokenPair, error) {
	ident.Value = strings.TrimSpace(ident.Value)
	if ident.Value == "" {
		return nil, auth.TokenPair{}, apperr.BadRequest("username or email is required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, auth.TokenPair{}, apperr.BadRequest("password is required")
	}

	value := strings.ToLower(ident.Value)
	var u *domain.User
	var err error
	switch ident.Kind {
	case IdentByEmail:
		u, err = s.users.FindByUsernameOrEmail(ctx, "", value)
	default:
		u, err = s.users.FindByUsernameOrEmail(ctx, value, "")
	}
	if err != nil {
		return nil, auth.TokenPair{}, apperr.Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, auth.TokenPair{}, apperr.NotFound("user not found")
	}
	if !u.IsActive {
		return nil, auth.TokenPair{}, apperr.Forbidden("account is deactivated")
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, auth.TokenPair{}, apperr.Unauthorized("invalid credentials")
	}

	pair, err := s.tokens.IssuePair(u.ID, u.Role)
	if err != nil {
		return nil, auth.TokenPair{}, apperr.Internal("issue tokens failed", err)
	}
	if err := s.users.UpdateRefreshToken(ctx, u.ID, pair.Refresh); err != nil {
		return nil, auth.TokenPair{}, apperr.Internal("persist refresh token failed", err)
	}
	u.RefreshToken = pair.Refresh
	return u, pair, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return apperr.Internal("clear refresh token failed", err)
	}
	return nil
}

// Refresh 校验并轮换 refresh token；旧 token 用过即废
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, auth.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, auth.TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}
	u, err := s.users.FindByID(ctx, claims.UID)
	if err != nil {
		return nil, auth.TokenPair{}, apperr.Internal("lookup user failed", err)
	}
	if u == nil || u.RefreshToken != refreshToken {
		return nil, auth.TokenPair{}, apperr.Unauthorized("refresh token is expired or already used")
	}
	if !u.IsActive {
		return nil, auth.TokenPair{}, apperr.Forbidden("account is deactivated")
	}

	pair, err := s.tokens.IssuePair(u.ID, u.Role)
	if err != nil {
		return nil, auth.TokenPair{}, apperr.Internal("issue tokens failed", err)
	}
	if err := s.users.UpdateRefreshToken(ctx, u.ID, pair.Refresh); err != nil {
		return nil, auth.TokenPair{}, apperr.Internal("persist refresh token failed", err)
	}
	u.RefreshToken = pair.Refresh
	return u, pair, nil
}
