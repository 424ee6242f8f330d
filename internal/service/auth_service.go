package service

import (
	"errors"
	"time"

	"github.com/fenxiao-next/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// AdminJWTClaims 管理端 JWT 声明
// 管理员账号体系由上游平台维护，令牌只携带租户与操作者标识。
type AdminJWTClaims struct {
	AdminID  uint   `json:"admin_id"`
	TenantID uint   `json:"tenant_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService 管理端令牌服务
type AuthService struct {
	cfg *config.Config
}

// NewAuthService 创建令牌服务
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// GenerateAdminJWT 签发管理端 Token
func (s *AuthService) GenerateAdminJWT(adminID, tenantID uint, username string) (string, time.Time, error) {
	expireHours := s.cfg.AdminJWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)

	claims := AdminJWTClaims{
		AdminID:  adminID,
		TenantID: tenantID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.AdminJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseAdminJWT 解析管理端 Token
func (s *AuthService) ParseAdminJWT(tokenString string) (*AdminJWTClaims, error) {
	return ParseAdminJWT(s.cfg.AdminJWT.SecretKey, tokenString)
}

// ParseAdminJWT 按密钥解析管理端 Token
func ParseAdminJWT(secretKey, tokenString string) (*AdminJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &AdminJWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*AdminJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}
