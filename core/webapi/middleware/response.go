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
// core/webapi/middleware/response.go
// 统一API响应格式

package middleware

import (
	"strings"

	"SteadyOps/core/confgen"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
// data与errors按需出现，成功响应不携带errors
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// GetTokenFromRequest 从请求头提取Bearer令牌
func GetTokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	return strings.TrimPrefix(authHeader, "Bearer ")
}

// SendSuccessResponseGin 发送成功响应
func SendSuccessResponseGin(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Message: message,
		Data:    data,
	})
}

// SendErrorResponseGin 发送错误响应
func SendErrorResponseGin(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Message: message,
	})
}

// SendPipelineErrorGin 发送配置流水线错误响应
// 校验类错误附带逐字段定位信息
func SendPipelineErrorGin(c *gin.Context, err *confgen.PipelineError) {
	resp := Response{
		Message: err.Message,
	}
	if len(err.Fields) > 0 {
		resp.Errors = err.Fields
	}
	c.JSON(err.HTTPStatus(), resp)
}
