package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mgit-community-go/internal/repository"
	"mgit-community-go/pkg/apperr"
	"mgit-community-go/pkg/token"
)

// AdminService 接口定义了管理员面板的会话操作。
// 登录成功后在 Redis 写入会话记录，Cookie 里只携带签名后的会话 ID；
// 注销删除记录即可让令牌立刻失效。
type AdminService interface {
	Login(ctx context.Context, password string) (string, error)
	CheckSession(ctx context.Context, tokenString string) bool
	Logout(ctx context.Context, tokenString string) error
}

type adminService struct {
	sessionRepo  repository.SessionRepository
	jwtManager   *token.JWTManager
	passwordHash string
	sessionTTL   time.Duration
}

// NewAdminService 创建一个新的 AdminService 实例。
func NewAdminService(sessionRepo repository.SessionRepository, jwtManager *token.JWTManager, passwordHash string, sessionTTL time.Duration) AdminService {
	return &adminService{
		sessionRepo:  sessionRepo,
		jwtManager:   jwtManager,
		passwordHash: passwordHash,
		sessionTTL:   sessionTTL,
	}
}

// Login 校验管理员口令，成功时返回写入 Cookie 的会话令牌。
// 口令错误返回 ValidationFailed，调用方以 success=false 响应而非 401。
func (s *adminService) Login(ctx context.Context, password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", apperr.New(apperr.ValidationFailed, "口令不正确")
	}

	sessionID := uuid.NewString()
	if err := s.sessionRepo.Save(ctx, sessionID, s.sessionTTL); err != nil {
		return "", apperr.Wrap(apperr.PersistenceUnavailable, "会话保存失败", err)
	}

	tokenString, err := s.jwtManager.GenerateSessionToken(sessionID)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// CheckSession 判断会话令牌是否有效：签名合法且 Redis 记录仍然存在。
func (s *adminService) CheckSession(ctx context.Context, tokenString string) bool {
	if tokenString == "" {
		return false
	}
	claims, err := s.jwtManager.VerifySessionToken(tokenString)
	if err != nil {
		return false
	}
	exists, err := s.sessionRepo.Exists(ctx, claims.SessionID)
	if err != nil {
		return false
	}
	return exists
}

// Logout 删除会话记录，令牌随之失效。对无效令牌幂等成功。
func (s *adminService) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	claims, err := s.jwtManager.VerifySessionToken(tokenString)
	if err != nil {
		return nil
	}
	return s.sessionRepo.Delete(ctx, claims.SessionID)
}
