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

// core/httpd/render.go
// httpd.conf渲染

package httpd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"SteadyOps/core/common"
	"SteadyOps/core/confgen"
)

// Renderer HTTPD配置渲染器，输出单个httpd.conf产物
type Renderer struct {
	logger *common.Logger
	cfg    ManagerConfig
}

// NewRenderer 创建渲染器
func NewRenderer(cfg ManagerConfig) *Renderer {
	return &Renderer{
		logger: common.NewLogger(),
		cfg:    cfg,
	}
}

// Render 渲染完整HTTPD配置
// 输出顺序：全局指令、Listen、LoadModule块、虚拟主机块
func (r *Renderer) Render(cfg *Configuration) []confgen.Artifact {
	var buffer bytes.Buffer

	serverRoot := confgen.Sanitize(cfg.Global.ServerRoot)
	if serverRoot == "" {
		serverRoot = "/etc/httpd"
	}
	buffer.WriteString(fmt.Sprintf("ServerRoot \"%s\"\n", serverRoot))
	if cfg.Global.ServerAdmin != "" {
		buffer.WriteString(fmt.Sprintf("ServerAdmin %s\n", confgen.Sanitize(cfg.Global.ServerAdmin)))
	}
	if cfg.Global.ServerName != "" {
		buffer.WriteString(fmt.Sprintf("ServerName %s\n", confgen.Sanitize(cfg.Global.ServerName)))
	}
	buffer.WriteString("\n")

	for _, listen := range cfg.Global.Listen {
		buffer.WriteString(fmt.Sprintf("Listen %d\n", listen.Port))
	}
	buffer.WriteString("\n")

	r.renderModules(&buffer, cfg)

	for i := range cfg.VirtualHosts {
		r.renderVirtualHost(&buffer, &cfg.VirtualHosts[i])
	}

	return []confgen.Artifact{{
		Path:    filepath.Join(r.cfg.ConfPath, "httpd.conf"),
		Content: buffer.String(),
	}}
}

// renderModules 渲染LoadModule块
// 基础模块固定顺序在前，调用方请求的模块去重追加；
// 任一监听端口或虚拟主机启用SSL时输出且仅输出一次ssl_module
func (r *Renderer) renderModules(buffer *bytes.Buffer, cfg *Configuration) {
	loaded := make(map[string]bool)

	writeModule := func(name string) {
		name = confgen.Sanitize(name)
		if name == "" || loaded[name] {
			return
		}
		loaded[name] = true
		buffer.WriteString(fmt.Sprintf("LoadModule %s_module modules/mod_%s.so\n", name, name))
	}

	for _, name := range essentialModules {
		writeModule(name)
	}
	for _, name := range cfg.Global.Modules {
		if name == "ssl" {
			// ssl模块由SSL开关统一控制
			continue
		}
		writeModule(name)
	}

	if needsSSL(cfg) {
		writeModule("ssl")
	}

	buffer.WriteString("\n")
}

// needsSSL 判断配置是否需要加载ssl模块
func needsSSL(cfg *Configuration) bool {
	for _, listen := range cfg.Global.Listen {
		if listen.SSL {
			return true
		}
	}
	for i := range cfg.VirtualHosts {
		if cfg.VirtualHosts[i].SSL {
			return true
		}
	}
	return false
}

// renderVirtualHost 渲染单个虚拟主机块
func (r *Renderer) renderVirtualHost(buffer *bytes.Buffer, vh *VirtualHost) {
	port := vh.Port
	if port == 0 {
		port = 80
	}

	buffer.WriteString(fmt.Sprintf("<VirtualHost *:%d>\n", port))
	buffer.WriteString(fmt.Sprintf("    ServerName %s\n", confgen.Sanitize(vh.ServerName)))
	buffer.WriteString(fmt.Sprintf("    DocumentRoot \"%s\"\n", confgen.Sanitize(vh.DocumentRoot)))

	if vh.DirectoryIndex != "" {
		buffer.WriteString(fmt.Sprintf("    DirectoryIndex %s\n", confgen.Sanitize(vh.DirectoryIndex)))
	}
	if vh.ErrorLog != "" {
		buffer.WriteString(fmt.Sprintf("    ErrorLog \"%s\"\n", confgen.Sanitize(vh.ErrorLog)))
	}
	if vh.CustomLog != "" {
		buffer.WriteString(fmt.Sprintf("    CustomLog \"%s\" combined\n", confgen.Sanitize(vh.CustomLog)))
	}

	if vh.SSL {
		buffer.WriteString("    SSLEngine on\n")
		buffer.WriteString(fmt.Sprintf("    SSLCertificateFile \"%s\"\n", confgen.Sanitize(vh.SSLCertificateFile)))
		buffer.WriteString(fmt.Sprintf("    SSLCertificateKeyFile \"%s\"\n", confgen.Sanitize(vh.SSLCertificateKeyFile)))
	}

	for _, directive := range vh.CustomDirectives {
		directive = confgen.Sanitize(directive)
		if directive == "" {
			r.logger.Warn("跳过净化后为空的自定义指令: 虚拟主机 %s", vh.ServerName)
			continue
		}
		buffer.WriteString(fmt.Sprintf("    %s\n", directive))
	}

	buffer.WriteString("</VirtualHost>\n\n")
}
