// Package token 提供了用于生成和验证 JSON Web Tokens (JWT) 的功能。
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager 负责管理管理员会话令牌的生成和验证。
type JWTManager struct {
	secretKey  []byte        // secretKey 用于签名和验证 token 的密钥
	sessionDur time.Duration // sessionDur 定义了会话令牌的有效期
}

// SessionClaims 定义了写入会话 Cookie 的自定义数据。
// SessionID 指向 Redis 中的会话记录，令牌本身不携带任何身份之外的信息。
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// NewJWTManager 创建一个新的 JWTManager 实例。
// secret: 用于签名的密钥字符串。
// sessionTTL: 会话令牌的有效期。
func NewJWTManager(secret string, sessionTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:  []byte(secret),
		sessionDur: sessionTTL,
	}
}

// GenerateSessionToken 为给定的会话 ID 生成一个签名令牌。
func (m *JWTManager) GenerateSessionToken(sessionID string) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.sessionDur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifySessionToken 验证给定的令牌字符串。
// 如果令牌有效，返回其中的 SessionClaims；签名不匹配或已过期则返回错误。
func (m *JWTManager) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 检查签名方法是否为 HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
