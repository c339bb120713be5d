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
// core/webapi/api/dnsapi.go
// DNS配置API

package api

import (
	"net/http"

	"SteadyOps/core/dns"
	"SteadyOps/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// GetDNSConfigHandler 查询DNS配置处理器
func GetDNSConfigHandler(c *gin.Context) {
	cfg, err := dns.NewManager().GetConfiguration()
	if err != nil {
		middleware.SendPipelineErrorGin(c, err)
		return
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "查询成功", cfg)
}

// ApplyDNSConfigHandler 应用DNS配置处理器
// 校验、生成、落盘、守护进程校验、服务协调的完整流水线
func ApplyDNSConfigHandler(c *gin.Context) {
	var cfg dns.Configuration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "无效的请求体: "+err.Error())
		return
	}

	applied, status, perr := dns.NewManager().ApplyConfiguration(c.Request.Context(), &cfg)
	if perr != nil {
		middleware.SendPipelineErrorGin(c, perr)
		return
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "DNS配置应用成功", gin.H{
		"config": applied,
		"status": status,
	})
}
