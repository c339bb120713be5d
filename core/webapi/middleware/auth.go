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
// core/webapi/middleware/auth.go
// JWT认证中间件

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthMiddlewareGin JWT认证中间件
// 验证通过后将用户信息写入请求上下文
func AuthMiddlewareGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := GetTokenFromRequest(c)
		if tokenString == "" {
			SendErrorResponseGin(c, http.StatusUnauthorized, "缺少认证令牌")
			c.Abort()
			return
		}

		userClaims, err := GetJWTManager().GetUserFromToken(tokenString)
		if err != nil {
			SendErrorResponseGin(c, http.StatusUnauthorized, "无效或过期的认证令牌")
			c.Abort()
			return
		}

		c.Set("user_id", userClaims.UserID)
		c.Set("username", userClaims.Username)
		c.Set("role", userClaims.Role)

		c.Next()
	}
}

// AdminRequiredGin 管理员角色校验中间件，须置于AuthMiddlewareGin之后
func AdminRequiredGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != "admin" {
			SendErrorResponseGin(c, http.StatusForbidden, "需要管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}
