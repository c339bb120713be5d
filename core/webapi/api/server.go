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
// core/webapi/api/server.go
// API HTTP服务器

package api

import (
	"fmt"
	"sync"

	"SteadyOps/core/common"

	"github.com/gin-gonic/gin"
)

// HTTPServer API服务器
type HTTPServer struct {
	logger *common.Logger
	engine *gin.Engine
}

var httpServer *HTTPServer
var httpServerOnce sync.Once

// GetHTTPServer 获取API服务器单例
func GetHTTPServer() *HTTPServer {
	httpServerOnce.Do(func() {
		mode := common.GetConfig("APIServer", "GIN_MODE")
		switch mode {
		case "debug":
			gin.SetMode(gin.DebugMode)
		case "test":
			gin.SetMode(gin.TestMode)
		default:
			gin.SetMode(gin.ReleaseMode)
		}

		engine := gin.New()
		engine.Use(gin.Recovery())

		SetupRoutes(engine)

		httpServer = &HTTPServer{
			logger: common.NewLogger(),
			engine: engine,
		}
	})
	return httpServer
}

// Addr 返回监听地址
func (s *HTTPServer) Addr() string {
	ip := common.GetConfig("APIServer", "API_SERVER_IP_ADDR")
	if ip == "" {
		ip = "0.0.0.0"
	}
	port := common.GetConfigInt("APIServer", "API_SERVER_PORT", 8080)
	return fmt.Sprintf("%s:%d", ip, port)
}

// Start 启动API服务器，阻塞直到服务器退出
func (s *HTTPServer) Start() error {
	addr := s.Addr()
	s.logger.Info("API服务器启动: http://%s", addr)
	return s.engine.Run(addr)
}
