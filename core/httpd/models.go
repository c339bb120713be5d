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

// core/httpd/models.go
// HTTPD配置数据结构定义

package httpd

// essentialModules 基础模块，始终以固定顺序排在LoadModule块最前
var essentialModules = []string{
	"mpm_event",
	"dir",
	"unixd",
	"authz_core",
	"mime",
	"log_config",
}

// Configuration HTTPD服务完整配置
type Configuration struct {
	Enabled      bool          `json:"enabled"`
	Global       Global        `json:"global"`
	VirtualHosts []VirtualHost `json:"virtualHosts"`
}

// Global httpd.conf全局指令
type Global struct {
	ServerRoot  string   `json:"serverRoot,omitempty"`
	ServerAdmin string   `json:"serverAdmin,omitempty"`
	ServerName  string   `json:"serverName,omitempty"`
	Listen      []Listen `json:"listen,omitempty"`
	Modules     []string `json:"modules,omitempty"`
}

// Listen 监听端口声明
type Listen struct {
	Port int  `json:"port"`
	SSL  bool `json:"ssl,omitempty"`
}

// VirtualHost 虚拟主机声明
type VirtualHost struct {
	ServerName            string   `json:"serverName"`
	DocumentRoot          string   `json:"documentRoot"`
	Port                  int      `json:"port"`
	DirectoryIndex        string   `json:"directoryIndex,omitempty"`
	ErrorLog              string   `json:"errorLog,omitempty"`
	CustomLog             string   `json:"customLog,omitempty"`
	SSL                   bool     `json:"ssl,omitempty"`
	SSLCertificateFile    string   `json:"sslCertificateFile,omitempty"`
	SSLCertificateKeyFile string   `json:"sslCertificateKeyFile,omitempty"`
	CustomDirectives      []string `json:"customDirectives,omitempty"`
}

// ManagerConfig HTTPD管理器配置
type ManagerConfig struct {
	ConfPath  string
	HttpdExec string
	ServiceID string
}
