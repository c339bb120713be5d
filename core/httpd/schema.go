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

// core/httpd/schema.go
// HTTPD配置结构校验

package httpd

import (
	"fmt"

	"SteadyOps/core/confgen"
)

// Validate 校验并规范化HTTPD配置
// 纯函数，错误带字段定位全量累积返回
func Validate(cfg *Configuration) []confgen.FieldError {
	var errs []confgen.FieldError

	if cfg.Global.ServerRoot == "" {
		cfg.Global.ServerRoot = "/etc/httpd"
	}

	if len(cfg.VirtualHosts) == 0 {
		errs = append(errs, confgen.FieldError{Path: "virtualHosts", Message: "至少需要一个虚拟主机"})
	}

	// 未显式声明监听端口时从虚拟主机端口推导
	if len(cfg.Global.Listen) == 0 {
		seen := make(map[int]bool)
		for i := range cfg.VirtualHosts {
			vh := &cfg.VirtualHosts[i]
			if vh.Port > 0 && !seen[vh.Port] {
				seen[vh.Port] = true
				cfg.Global.Listen = append(cfg.Global.Listen, Listen{Port: vh.Port, SSL: vh.SSL})
			}
		}
	}

	for i, listen := range cfg.Global.Listen {
		if listen.Port < 1 || listen.Port > 65535 {
			errs = append(errs, confgen.FieldError{Path: fmt.Sprintf("global.listen[%d].port", i),
				Message: fmt.Sprintf("端口必须在1-65535之间: %d", listen.Port)})
		}
	}

	for i := range cfg.VirtualHosts {
		errs = append(errs, validateVirtualHost(fmt.Sprintf("virtualHosts[%d]", i), &cfg.VirtualHosts[i])...)
	}

	return errs
}

// validateVirtualHost 校验单个虚拟主机声明
func validateVirtualHost(prefix string, vh *VirtualHost) []confgen.FieldError {
	var errs []confgen.FieldError

	if vh.ServerName == "" {
		errs = append(errs, confgen.FieldError{Path: prefix + ".serverName", Message: "ServerName不能为空"})
	}
	if vh.DocumentRoot == "" {
		errs = append(errs, confgen.FieldError{Path: prefix + ".documentRoot", Message: "DocumentRoot不能为空"})
	}

	if vh.Port == 0 {
		if vh.SSL {
			vh.Port = 443
		} else {
			vh.Port = 80
		}
	}
	if vh.Port < 1 || vh.Port > 65535 {
		errs = append(errs, confgen.FieldError{Path: prefix + ".port",
			Message: fmt.Sprintf("端口必须在1-65535之间: %d", vh.Port)})
	}

	if vh.SSL {
		if vh.SSLCertificateFile == "" {
			errs = append(errs, confgen.FieldError{Path: prefix + ".sslCertificateFile",
				Message: "启用SSL的虚拟主机必须指定证书文件"})
		}
		if vh.SSLCertificateKeyFile == "" {
			errs = append(errs, confgen.FieldError{Path: prefix + ".sslCertificateKeyFile",
				Message: "启用SSL的虚拟主机必须指定私钥文件"})
		}
	}

	return errs
}
