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
// core/webapi/api/dhcpapi.go
// DHCP配置API

package api

import (
	"net/http"

	"SteadyOps/core/dhcp"
	"SteadyOps/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// GetDHCPConfigHandler 查询DHCP配置处理器
func GetDHCPConfigHandler(c *gin.Context) {
	cfg, err := dhcp.NewManager().GetConfiguration()
	if err != nil {
		middleware.SendPipelineErrorGin(c, err)
		return
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "查询成功", cfg)
}

// ApplyDHCPConfigHandler 应用DHCP配置处理器
func ApplyDHCPConfigHandler(c *gin.Context) {
	var cfg dhcp.Configuration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "无效的请求体: "+err.Error())
		return
	}

	applied, status, perr := dhcp.NewManager().ApplyConfiguration(c.Request.Context(), &cfg)
	if perr != nil {
		middleware.SendPipelineErrorGin(c, perr)
		return
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "DHCP配置应用成功", gin.H{
		"config": applied,
		"status": status,
	})
}
