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
// core/httpd/render_test.go
// httpd.conf渲染测试

package httpd

import (
	"strings"
	"testing"
)

// renderContent 校验并渲染，返回httpd.conf内容
func renderContent(t *testing.T, cfg *Configuration) string {
	t.Helper()
	if errs := Validate(cfg); len(errs) != 0 {
		t.Fatalf("测试配置未通过校验: %v", errs)
	}

	r := NewRenderer(ManagerConfig{ConfPath: "/etc/httpd/conf"})
	artifacts := r.Render(cfg)
	if len(artifacts) != 1 {
		t.Fatalf("应输出单个产物, got %d", len(artifacts))
	}
	return artifacts[0].Content
}

// TestRenderEssentialModulesFirst 测试基础模块固定顺序在前且去重
func TestRenderEssentialModulesFirst(t *testing.T) {
	cfg := &Configuration{
		Global:       Global{Modules: []string{"rewrite", "dir", "headers", "rewrite"}},
		VirtualHosts: []VirtualHost{testVirtualHost()},
	}

	content := renderContent(t, cfg)
	lines := strings.Split(content, "\n")

	var moduleLines []string
	for _, line := range lines {
		if strings.HasPrefix(line, "LoadModule ") {
			moduleLines = append(moduleLines, line)
		}
	}

	wantOrder := []string{
		"LoadModule mpm_event_module modules/mod_mpm_event.so",
		"LoadModule dir_module modules/mod_dir.so",
		"LoadModule unixd_module modules/mod_unixd.so",
		"LoadModule authz_core_module modules/mod_authz_core.so",
		"LoadModule mime_module modules/mod_mime.so",
		"LoadModule log_config_module modules/mod_log_config.so",
		"LoadModule rewrite_module modules/mod_rewrite.so",
		"LoadModule headers_module modules/mod_headers.so",
	}
	if len(moduleLines) != len(wantOrder) {
		t.Fatalf("LoadModule行数 = %d, want %d（重复请求应去重）:\n%s",
			len(moduleLines), len(wantOrder), strings.Join(moduleLines, "\n"))
	}
	for i, want := range wantOrder {
		if moduleLines[i] != want {
			t.Errorf("LoadModule[%d] = %q, want %q", i, moduleLines[i], want)
		}
	}
}

// TestRenderSSLModuleConditional 测试ssl模块仅在需要时输出且仅一次
func TestRenderSSLModuleConditional(t *testing.T) {
	t.Run("无SSL不加载ssl模块", func(t *testing.T) {
		cfg := &Configuration{VirtualHosts: []VirtualHost{testVirtualHost()}}
		content := renderContent(t, cfg)
		if strings.Contains(content, "ssl_module") {
			t.Errorf("无SSL配置不应加载ssl模块:\n%s", content)
		}
	})

	t.Run("SSL虚拟主机加载ssl模块一次", func(t *testing.T) {
		cfg := &Configuration{
			Global: Global{Modules: []string{"ssl"}},
			VirtualHosts: []VirtualHost{
				testVirtualHost(),
				{ServerName: "a.example.com", DocumentRoot: "/var/www/a", Port: 443,
					SSL: true, SSLCertificateFile: "/etc/pki/a.pem", SSLCertificateKeyFile: "/etc/pki/a.key"},
				{ServerName: "b.example.com", DocumentRoot: "/var/www/b", Port: 8443,
					SSL: true, SSLCertificateFile: "/etc/pki/b.pem", SSLCertificateKeyFile: "/etc/pki/b.key"},
			},
		}
		content := renderContent(t, cfg)
		if got := strings.Count(content, "LoadModule ssl_module"); got != 1 {
			t.Errorf("ssl模块应恰好加载一次, got %d:\n%s", got, content)
		}
	})
}

// TestRenderVirtualHosts 测试虚拟主机块渲染
func TestRenderVirtualHosts(t *testing.T) {
	cfg := &Configuration{
		Global: Global{
			ServerAdmin: "admin@example.com",
			ServerName:  "server.example.com",
		},
		VirtualHosts: []VirtualHost{
			{ServerName: "www.example.com", DocumentRoot: "/var/www/html", Port: 80,
				DirectoryIndex: "index.html", ErrorLog: "logs/www-error.log",
				CustomLog: "logs/www-access.log",
				CustomDirectives: []string{"Options -Indexes"}},
			{ServerName: "secure.example.com", DocumentRoot: "/var/www/secure", Port: 443,
				SSL: true, SSLCertificateFile: "/etc/pki/tls/certs/cert.pem",
				SSLCertificateKeyFile: "/etc/pki/tls/private/key.pem"},
		},
	}

	content := renderContent(t, cfg)

	for _, want := range []string{
		"ServerRoot \"/etc/httpd\"",
		"ServerAdmin admin@example.com",
		"ServerName server.example.com",
		"Listen 80",
		"Listen 443",
		"<VirtualHost *:80>",
		"    ServerName www.example.com",
		"    DocumentRoot \"/var/www/html\"",
		"    DirectoryIndex index.html",
		"    ErrorLog \"logs/www-error.log\"",
		"    CustomLog \"logs/www-access.log\" combined",
		"    Options -Indexes",
		"<VirtualHost *:443>",
		"    SSLEngine on",
		"    SSLCertificateFile \"/etc/pki/tls/certs/cert.pem\"",
		"    SSLCertificateKeyFile \"/etc/pki/tls/private/key.pem\"",
		"</VirtualHost>",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("缺少 %q:\n%s", want, content)
		}
	}

	// 非SSL虚拟主机不应出现SSL指令
	httpBlock := content[strings.Index(content, "<VirtualHost *:80>"):strings.Index(content, "<VirtualHost *:443>")]
	if strings.Contains(httpBlock, "SSLEngine") {
		t.Errorf("非SSL虚拟主机不应包含SSL指令:\n%s", httpBlock)
	}
}

// TestRenderInjectionSafety 测试恶意输入不进入生成文本
func TestRenderInjectionSafety(t *testing.T) {
	cfg := &Configuration{
		VirtualHosts: []VirtualHost{
			{ServerName: "www.example.com</VirtualHost><VirtualHost *:1337>",
				DocumentRoot: "/var/www/`reboot`", Port: 80,
				CustomDirectives: []string{"<Directory />", "Options $(cmd)"}},
		},
	}

	// 绕过校验直接渲染，净化不得依赖上游校验
	r := NewRenderer(ManagerConfig{ConfPath: "/etc/httpd/conf"})
	content := r.Render(cfg)[0].Content

	if strings.Contains(content, "<VirtualHost *:1337>") {
		t.Errorf("注入的VirtualHost标签不应生效:\n%s", content)
	}
	// 尖括号被剥除后块标签只剩渲染器自身输出的一对
	if got := strings.Count(content, "<VirtualHost"); got != 1 {
		t.Errorf("应只有一个VirtualHost块, got %d:\n%s", got, content)
	}
	for _, forbidden := range []string{"`", "$"} {
		if strings.Contains(content, forbidden) {
			t.Errorf("生成文本不应包含 %q:\n%s", forbidden, content)
		}
	}
}
