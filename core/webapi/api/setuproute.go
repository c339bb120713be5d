// core/webapi/api/setuproute.go

package api

import (
	"SteadyOps/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes 设置API路由
// 配置流水线与服务控制路由全部位于JWT认证之后
func SetupRoutes(engine *gin.Engine) {
	// 健康检查API路由 - 无需认证，应用日志、频率限制和超时中间件
	engine.GET("/api/health", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), HealthCheckHandler)

	// 认证API路由 - 应用日志、频率限制和超时中间件
	engine.POST("/api/login", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), LoginHandler)
	engine.POST("/api/refresh-token", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), RefreshTokenHandler)
	engine.POST("/api/logout", middleware.LoggerMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), LogoutHandler)

	// DNS配置API路由 - 需要认证，应用所有中间件
	engine.GET("/api/dns/config", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), GetDNSConfigHandler)
	engine.PUT("/api/dns/config", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), ApplyDNSConfigHandler)

	// DHCP配置API路由 - 需要认证，应用所有中间件
	engine.GET("/api/dhcp/config", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), GetDHCPConfigHandler)
	engine.PUT("/api/dhcp/config", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), ApplyDHCPConfigHandler)

	// HTTPD配置API路由 - 需要认证，应用所有中间件
	engine.GET("/api/httpd/config", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), GetHTTPDConfigHandler)
	engine.PUT("/api/httpd/config", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), ApplyHTTPDConfigHandler)

	// 服务控制API路由 - 需要认证，应用所有中间件
	engine.GET("/api/services", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), ListServicesHandler)
	engine.POST("/api/services/:id/:action", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), ServiceActionHandler)

	// 用户管理API路由 - 需要认证，写操作需要管理员权限
	engine.GET("/api/users", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), GetUsersHandler)
	engine.POST("/api/users", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), middleware.AdminRequiredGin(), CreateUserHandler)
	engine.PUT("/api/users/:id", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), middleware.AdminRequiredGin(), UpdateUserHandler)
	engine.DELETE("/api/users/:id", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), middleware.AdminRequiredGin(), DeleteUserHandler)
	engine.PUT("/api/users/:id/password", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.AuthMiddlewareGin(), ChangePasswordHandler)
}
