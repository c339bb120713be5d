// core/webapi/middleware/jwt.go

package middleware

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"SteadyOps/core/common"
	"SteadyOps/core/database"

	"github.com/golang-jwt/jwt/v4"
)

// claims 自定义JWT声明
type claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWT相关配置
const (
	// 最小密钥长度
	minSecretKeyLength = 32
)

// RefreshTokenInfo 刷新令牌信息
type RefreshTokenInfo struct {
	UserID    uint
	ExpiresAt int64
}

// JWTManager JWT令牌管理器
type JWTManager struct {
	logger                 *common.Logger
	jwtKey                 []byte
	RefreshTokens          map[string]RefreshTokenInfo
	refreshMutex           sync.Mutex
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Claims                 *claims
}

// 全局JWT管理器实例
var jwtManager *JWTManager

// GetJWTManager 获取JWT管理器实例
func GetJWTManager() *JWTManager {
	if jwtManager == nil {
		jwtManager = newJWTManager()
	}
	return jwtManager
}

func newJWTManager() *JWTManager {
	jwtSecret := getJWTSecret()

	if !validateSecretKey(jwtSecret) {
		fmt.Println("警告: JWT密钥强度不足，建议使用至少32字节的混合随机字符串")
		if len(jwtSecret) < minSecretKeyLength {
			jwtSecret = generateStrongSecret()
			fmt.Println("已生成临时强密钥，请在生产环境中配置安全的密钥")
		}
	}

	j := &JWTManager{
		logger:        common.NewLogger(),
		jwtKey:        []byte(jwtSecret),
		RefreshTokens: make(map[string]RefreshTokenInfo),
		Claims:        &claims{},
	}

	j.loadJWTExpirationConfig()

	return j
}

// loadJWTExpirationConfig 从配置文件加载JWT过期时间配置
func (j *JWTManager) loadJWTExpirationConfig() {
	accessExp := 30 // 默认30分钟
	if expStr := common.GetConfig("JWT", "ACCESS_TOKEN_EXPIRATION"); expStr != "" {
		if exp, err := strconv.Atoi(expStr); err == nil && exp > 0 {
			accessExp = exp
		}
	}
	j.AccessTokenExpiration = time.Duration(accessExp) * time.Minute

	refreshExp := 7 // 默认7天
	if expStr := common.GetConfig("JWT", "REFRESH_TOKEN_EXPIRATION"); expStr != "" {
		if exp, err := strconv.Atoi(expStr); err == nil && exp > 0 {
			refreshExp = exp
		}
	}
	j.RefreshTokenExpiration = time.Duration(refreshExp) * 24 * time.Hour
}

// ReloadConfig 重新加载JWT相关配置
func (j *JWTManager) ReloadConfig() {
	jwtSecret := getJWTSecret()

	if !validateSecretKey(jwtSecret) {
		j.logger.Warn("JWT密钥强度不足，建议使用至少32字节的混合随机字符串")
		if len(jwtSecret) < minSecretKeyLength {
			jwtSecret = generateStrongSecret()
			j.logger.Warn("已生成临时强密钥，请在生产环境中配置安全的密钥")
		}
	}

	j.jwtKey = []byte(jwtSecret)
	j.loadJWTExpirationConfig()

	j.logger.Info("JWT配置重载成功")
}

// getJWTSecret 从配置获取JWT密钥，环境变量优先
func getJWTSecret() string {
	if secret := common.GetEnv("JWT_SECRET_KEY", ""); secret != "" {
		return secret
	}

	if secret := common.GetConfig("JWT", "JWT_SECRET_KEY"); secret != "" {
		return secret
	}

	return "your-default-jwt-secret-key-change-this-in-production"
}

// validateSecretKey 验证密钥强度
// 长度达标且至少包含大写、小写、数字、特殊字符中的三类
func validateSecretKey(secret string) bool {
	if len(secret) < minSecretKeyLength {
		return false
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, ch := range secret {
		switch {
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	classes := 0
	for _, ok := range []bool{hasLower, hasUpper, hasDigit, hasSpecial} {
		if ok {
			classes++
		}
	}
	return classes >= 3
}

// generateStrongSecret 生成强随机密钥
func generateStrongSecret() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+"
	secret := make([]byte, minSecretKeyLength)
	for i := range secret {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			// 随机源不可用时退回时间熵
			secret[i] = charset[time.Now().UnixNano()%int64(len(charset))]
			continue
		}
		secret[i] = charset[idx.Int64()]
	}
	return string(secret)
}

// GetUserFromToken 从token中解析用户声明
func (j *JWTManager) GetUserFromToken(tokenString string) (*claims, error) {
	parsed := &claims{}

	token, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (interface{}, error) {
		return j.jwtKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("无效的token")
	}

	return parsed, nil
}

// GenerateToken 生成访问令牌与刷新令牌
func (j *JWTManager) GenerateToken(user *database.User) (string, string, error) {
	accessClaims := claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.AccessTokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "SteadyOps",
			Subject:   "access token",
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)

	accessTokenString, err := accessToken.SignedString(j.jwtKey)
	if err != nil {
		return "", "", err
	}

	refreshTokenString := j.GenerateRefreshToken(user.ID)

	return accessTokenString, refreshTokenString, nil
}

// GenerateRefreshToken 生成并登记刷新令牌
func (j *JWTManager) GenerateRefreshToken(userID uint) string {
	refreshToken := fmt.Sprintf("%d_%d_%d", userID, time.Now().UnixNano(), time.Now().Unix())

	j.refreshMutex.Lock()
	j.RefreshTokens[refreshToken] = RefreshTokenInfo{
		UserID:    userID,
		ExpiresAt: time.Now().Add(j.RefreshTokenExpiration).Unix(),
	}
	j.refreshMutex.Unlock()

	return refreshToken
}

// RevokeRefreshToken 注销刷新令牌
func (j *JWTManager) RevokeRefreshToken(refreshToken string) {
	j.refreshMutex.Lock()
	delete(j.RefreshTokens, refreshToken)
	j.refreshMutex.Unlock()
}

// ValidateRefreshToken 验证刷新令牌，过期令牌视为无效并清理
func ValidateRefreshToken(refreshToken string) (uint, bool) {
	j := GetJWTManager()

	j.refreshMutex.Lock()
	defer j.refreshMutex.Unlock()

	info, exists := j.RefreshTokens[refreshToken]
	if !exists {
		return 0, false
	}

	if time.Now().Unix() > info.ExpiresAt {
		delete(j.RefreshTokens, refreshToken)
		return 0, false
	}

	return info.UserID, true
}

// cleanupExpiredTokens 清理所有过期的刷新令牌
func cleanupExpiredTokens() {
	j := GetJWTManager()

	j.refreshMutex.Lock()
	defer j.refreshMutex.Unlock()

	now := time.Now().Unix()
	for token, info := range j.RefreshTokens {
		if now > info.ExpiresAt {
			delete(j.RefreshTokens, token)
		}
	}
}

// StartTokenCleanup 启动刷新令牌定期清理
func StartTokenCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			cleanupExpiredTokens()
		}
	}()
}

// TokenResponse 令牌响应结构体
type TokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         interface{} `json:"user"`
	ExpiresIn    int64       `json:"expires_in"` // 访问令牌过期时间（秒）
}
