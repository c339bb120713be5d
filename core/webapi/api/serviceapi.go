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
// core/webapi/api/serviceapi.go
// 守护进程服务控制API

package api

import (
	"net/http"

	"SteadyOps/core/common"
	"SteadyOps/core/confgen"
	"SteadyOps/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// ServiceInfo 单个服务的状态信息
type ServiceInfo struct {
	ID     string                `json:"id"`
	Unit   string                `json:"unit"`
	Status confgen.ServiceStatus `json:"status"`
}

// serviceUnit 将API服务标识映射为systemd单元名
// 单元名可在[Service]配置段重定向
func serviceUnit(id string) (string, bool) {
	switch id {
	case "named":
		if unit := common.GetConfig("Service", "DNS_SERVICE"); unit != "" {
			return unit, true
		}
		return "named", true
	case "dhcpd":
		if unit := common.GetConfig("Service", "DHCP_SERVICE"); unit != "" {
			return unit, true
		}
		return "dhcpd", true
	case "httpd":
		if unit := common.GetConfig("Service", "HTTPD_SERVICE"); unit != "" {
			return unit, true
		}
		return "httpd", true
	default:
		return "", false
	}
}

// ListServicesHandler 查询全部受管服务的实时状态
func ListServicesHandler(c *gin.Context) {
	reconciler := confgen.NewReconciler(common.DefaultRunner())

	services := make([]ServiceInfo, 0, 3)
	for _, id := range []string{"named", "dhcpd", "httpd"} {
		unit, _ := serviceUnit(id)
		services = append(services, ServiceInfo{
			ID:     id,
			Unit:   unit,
			Status: reconciler.Status(c.Request.Context(), unit),
		})
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "查询成功", services)
}

// ServiceActionHandler 对单个服务执行控制操作
// 支持start/stop/restart/reload，操作后带稳定期复核
func ServiceActionHandler(c *gin.Context) {
	id := c.Param("id")
	action := c.Param("action")

	unit, ok := serviceUnit(id)
	if !ok {
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "未知的服务: "+id)
		return
	}

	reconciler := confgen.NewReconciler(common.DefaultRunner())

	var status confgen.ServiceStatus
	var perr *confgen.PipelineError

	switch action {
	case "start":
		status, perr = reconciler.Start(c.Request.Context(), unit)
	case "stop":
		status, perr = reconciler.Stop(c.Request.Context(), unit)
	case "restart":
		status, perr = reconciler.Restart(c.Request.Context(), unit)
	case "reload":
		status, perr = reconciler.Reload(c.Request.Context(), unit)
	default:
		middleware.SendErrorResponseGin(c, http.StatusBadRequest, "未知的操作: "+action)
		return
	}

	if perr != nil {
		middleware.SendPipelineErrorGin(c, perr)
		return
	}

	common.NewLogger().Info("服务操作完成: %s %s, 状态=%s", action, unit, status)

	middleware.SendSuccessResponseGin(c, http.StatusOK, "操作成功", ServiceInfo{
		ID:     id,
		Unit:   unit,
		Status: status,
	})
}
