/*
SteadyOps - 服务器管理控制台

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
// core/webapi/middleware/middleware.go

package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"SteadyOps/core/common"

	"github.com/gin-gonic/gin"
)

// RateLimiter 请求频率限制器
type RateLimiter struct {
	// IP 级别的限制
	ipLimits map[string]*LimitCounter
	ipMutex  sync.Mutex

	// 用户级别的限制
	userLimits map[uint]*LimitCounter
	userMutex  sync.Mutex

	// 封禁的IP
	bannedIPs   map[string]time.Time
	bannedMutex sync.Mutex
}

// LimitCounter 滑动窗口限制计数器
type LimitCounter struct {
	requests    []time.Time
	mutex       sync.Mutex
	limit       int
	window      time.Duration
	failCount   int
	maxFailures int
	banDuration time.Duration
}

// 全局限制器实例
var rateLimiter *RateLimiter
var rateLimiterOnce sync.Once

// GetRateLimiter 获取全局限制器实例
func GetRateLimiter() *RateLimiter {
	rateLimiterOnce.Do(func() {
		rateLimiter = &RateLimiter{
			ipLimits:   make(map[string]*LimitCounter),
			userLimits: make(map[uint]*LimitCounter),
			bannedIPs:  make(map[string]time.Time),
		}
	})
	return rateLimiter
}

// ReloadConfig 重新加载限流配置
// 清空已有计数器，下次请求按新配置重建；封禁表仅清理已过期项
func (rl *RateLimiter) ReloadConfig() {
	rl.ipMutex.Lock()
	rl.userMutex.Lock()
	rl.bannedMutex.Lock()

	rl.ipLimits = make(map[string]*LimitCounter)
	rl.userLimits = make(map[uint]*LimitCounter)

	now := time.Now()
	for ip, banTime := range rl.bannedIPs {
		if now.After(banTime) {
			delete(rl.bannedIPs, ip)
		}
	}

	rl.bannedMutex.Unlock()
	rl.userMutex.Unlock()
	rl.ipMutex.Unlock()

	common.NewLogger().Info("限流配置重载成功")
}

// NewLimitCounter 创建新的限制计数器
func NewLimitCounter(limit int, window time.Duration, maxFailures int, banDuration time.Duration) *LimitCounter {
	return &LimitCounter{
		requests:    make([]time.Time, 0),
		limit:       limit,
		window:      window,
		maxFailures: maxFailures,
		banDuration: banDuration,
	}
}

// AddRequest 添加请求并检查是否超出限制
func (lc *LimitCounter) AddRequest() bool {
	lc.mutex.Lock()
	defer lc.mutex.Unlock()

	// 清理过期的请求
	now := time.Now()
	cutoff := now.Add(-lc.window)
	validRequests := make([]time.Time, 0, len(lc.requests))
	for _, reqTime := range lc.requests {
		if reqTime.After(cutoff) {
			validRequests = append(validRequests, reqTime)
		}
	}
	lc.requests = validRequests

	if len(lc.requests) >= lc.limit {
		lc.failCount++
		return false
	}

	lc.requests = append(lc.requests, now)
	return true
}

// IsBanned 检查IP是否处于封禁期
func (rl *RateLimiter) IsBanned(ip string) bool {
	rl.bannedMutex.Lock()
	defer rl.bannedMutex.Unlock()

	banTime, exists := rl.bannedIPs[ip]
	if !exists {
		return false
	}

	if time.Now().After(banTime) {
		delete(rl.bannedIPs, ip)
		return false
	}

	return true
}

// BanIP 封禁IP
func (rl *RateLimiter) BanIP(ip string, duration time.Duration) {
	rl.bannedMutex.Lock()
	defer rl.bannedMutex.Unlock()

	rl.bannedIPs[ip] = time.Now().Add(duration)
}

// GetUserLimit 获取用户限制计数器
func (rl *RateLimiter) GetUserLimit(userID uint) *LimitCounter {
	rl.userMutex.Lock()
	defer rl.userMutex.Unlock()

	limiter, exists := rl.userLimits[userID]
	if !exists {
		limit := getConfigInt("API", "RATE_LIMIT_USER", 500)
		windowSeconds := getConfigInt("API", "RATE_LIMIT_WINDOW_SECONDS", 60)
		maxFailures := getConfigInt("API", "RATE_LIMIT_USER_MAX_FAILURES", 20)
		banMinutes := getConfigInt("API", "RATE_LIMIT_USER_BAN_MINUTES", 15)

		limiter = NewLimitCounter(limit, time.Duration(windowSeconds)*time.Second,
			maxFailures, time.Duration(banMinutes)*time.Minute)
		rl.userLimits[userID] = limiter
	}

	return limiter
}

// pathLimitPolicy 按路径返回限流键后缀与参数
// 认证入口限制最严，健康检查最宽
func pathLimitPolicy(path string) (suffix string, limit, windowSeconds, maxFailures, banMinutes int) {
	windowSeconds = getConfigInt("API", "RATE_LIMIT_WINDOW_SECONDS", 60)

	switch path {
	case "/api/login":
		return ":login",
			getConfigInt("API", "RATE_LIMIT_LOGIN", 60), windowSeconds,
			getConfigInt("API", "RATE_LIMIT_LOGIN_MAX_FAILURES", 10),
			getConfigInt("API", "RATE_LIMIT_LOGIN_BAN_MINUTES", 5)
	case "/api/refresh-token":
		return ":refresh",
			getConfigInt("API", "RATE_LIMIT_REFRESH", 5), windowSeconds,
			getConfigInt("API", "RATE_LIMIT_REFRESH_MAX_FAILURES", 3),
			getConfigInt("API", "RATE_LIMIT_REFRESH_BAN_MINUTES", 3)
	case "/api/health":
		return ":health",
			getConfigInt("API", "RATE_LIMIT_HEALTH", 500), windowSeconds,
			getConfigInt("API", "RATE_LIMIT_HEALTH_MAX_FAILURES", 20),
			getConfigInt("API", "RATE_LIMIT_HEALTH_BAN_MINUTES", 10)
	default:
		return ":api",
			getConfigInt("API", "RATE_LIMIT_API", 300), windowSeconds,
			getConfigInt("API", "RATE_LIMIT_MAX_FAILURES", 10),
			getConfigInt("API", "RATE_LIMIT_BAN_MINUTES", 10)
	}
}

// RateLimitMiddleware 请求频率限制中间件
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isRateLimitEnabled() {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		limiter := GetRateLimiter()

		if limiter.IsBanned(clientIP) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
			c.Abort()
			return
		}

		// 不同API类型使用独立的限流键，互不影响
		suffix, limit, windowSeconds, maxFailures, banMinutes := pathLimitPolicy(c.Request.URL.Path)
		ipKey := clientIP + suffix

		limiter.ipMutex.Lock()
		ipLimit, exists := limiter.ipLimits[ipKey]
		if !exists {
			ipLimit = NewLimitCounter(limit, time.Duration(windowSeconds)*time.Second,
				maxFailures, time.Duration(banMinutes)*time.Minute)
			limiter.ipLimits[ipKey] = ipLimit
		}
		limiter.ipMutex.Unlock()

		if !ipLimit.AddRequest() {
			if ipLimit.failCount >= ipLimit.maxFailures {
				limiter.BanIP(clientIP, ipLimit.banDuration)
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，已被临时封禁"})
				c.Abort()
				return
			}

			c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
			c.Abort()
			return
		}

		// 已认证用户叠加用户级限制
		if token := GetTokenFromRequest(c); token != "" {
			if userClaims, err := GetJWTManager().GetUserFromToken(token); err == nil {
				userLimit := limiter.GetUserLimit(userClaims.UserID)
				if !userLimit.AddRequest() {
					c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
					c.Abort()
					return
				}
			}
		}

		c.Next()
	}
}

// LoggerMiddleware 请求日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isLogEnabled() {
			c.Next()
			return
		}

		startTime := time.Now()
		clientIP := c.ClientIP()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		responseTime := time.Since(startTime)
		statusCode := c.Writer.Status()

		logMessage := fmt.Sprintf("API请求 - IP: %s, 方法: %s, 路径: %s, 查询: %s, 状态码: %d, 响应时间: %v",
			clientIP, method, path, query, statusCode, responseTime)

		// 认证中间件已写入的用户信息附加到日志
		if username, exists := c.Get("username"); exists {
			logMessage += fmt.Sprintf(", 用户名: %v", username)
		}

		logger := common.NewLogger()
		switch {
		case statusCode >= 500:
			logger.Error("%s", logMessage)
		case statusCode >= 400:
			logger.Warn("%s", logMessage)
		default:
			logger.Info("%s", logMessage)
		}
	}
}

// isRateLimitEnabled 检查是否启用了速率限制
func isRateLimitEnabled() bool {
	return common.GetConfig("API", "RATE_LIMIT_ENABLED") != "false"
}

// isLogEnabled 检查是否启用了请求日志
func isLogEnabled() bool {
	return common.GetConfig("API", "LOG_ENABLED") != "false"
}

// getConfigInt 从配置读取整数
func getConfigInt(section, key string, defaultValue int) int {
	valueStr := common.GetConfig(section, key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
