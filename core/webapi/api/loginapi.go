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
// core/webapi/api/loginapi.go
// 登录认证API

package api

import (
	"net/http"

	"SteadyOps/core/common"
	"SteadyOps/core/database"
	"SteadyOps/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新令牌请求结构体
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginHandler 登录处理器
// 验证用户名密码，签发访问令牌与刷新令牌
func LoginHandler(c *gin.Context) {
	logger := common.NewLogger()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "无效的请求体")
		return
	}

	user, valid := database.ValidateUserWithDB(req.Username, req.Password)
	if !valid {
		logger.Warn("登录失败: 用户名或密码错误, 用户名=%s, IP=%s", req.Username, c.ClientIP())
		middleware.SendErrorResponseGin(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	jwtMgr := middleware.GetJWTManager()
	accessToken, refreshToken, err := jwtMgr.GenerateToken(user)
	if err != nil {
		logger.Error("生成令牌失败: %v", err)
		middleware.SendErrorResponseGin(c, http.StatusInternalServerError, "生成令牌失败")
		return
	}

	logger.Info("用户登录成功: %s", user.Username)

	middleware.SendSuccessResponseGin(c, http.StatusOK, "登录成功", middleware.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
		ExpiresIn: int64(jwtMgr.AccessTokenExpiration.Seconds()),
	})
}

// LogoutHandler 登出处理器
// 注销刷新令牌，访问令牌由客户端自行丢弃
func LogoutHandler(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		middleware.GetJWTManager().RevokeRefreshToken(req.RefreshToken)
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "登出成功", nil)
}

// RefreshTokenHandler 刷新令牌处理器
// 校验刷新令牌后轮换签发新的令牌对
func RefreshTokenHandler(c *gin.Context) {
	logger := common.NewLogger()

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "无效的请求体")
		return
	}

	userID, valid := middleware.ValidateRefreshToken(req.RefreshToken)
	if !valid {
		middleware.SendErrorResponseGin(c, http.StatusUnauthorized, "无效或过期的刷新令牌")
		return
	}

	user, err := database.GetUserByID(userID)
	if err != nil {
		middleware.SendErrorResponseGin(c, http.StatusUnauthorized, "用户不存在")
		return
	}

	jwtMgr := middleware.GetJWTManager()

	// 旧刷新令牌一次性使用
	jwtMgr.RevokeRefreshToken(req.RefreshToken)

	accessToken, refreshToken, err := jwtMgr.GenerateToken(user)
	if err != nil {
		logger.Error("刷新令牌签发失败: %v", err)
		middleware.SendErrorResponseGin(c, http.StatusInternalServerError, "生成令牌失败")
		return
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "令牌刷新成功", middleware.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: gin.H{
			"id":       user.ID,
			"username": user.Username,
		},
		ExpiresIn: int64(jwtMgr.AccessTokenExpiration.Seconds()),
	})
}
