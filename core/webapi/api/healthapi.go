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
// core/webapi/api/healthapi.go
// 健康检查API

package api

import (
	"net/http"
	"time"

	"SteadyOps/core/database"
	"SteadyOps/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// HealthStatus 健康状态结构体
type HealthStatus struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// HealthCheckHandler 健康检查处理器
// 数据库不可用时整体状态降级为degraded
func HealthCheckHandler(c *gin.Context) {
	status := HealthStatus{
		Status:    "ok",
		Database:  "ok",
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if err := database.CheckConnection(); err != nil {
		status.Status = "degraded"
		status.Database = "unavailable"
	}

	middleware.SendSuccessResponseGin(c, http.StatusOK, "健康检查完成", status)
}
