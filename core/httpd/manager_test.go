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
// core/httpd/manager_test.go
// HTTPD配置应用流水线测试

package httpd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"SteadyOps/core/confgen"
)

// fakeRunner 记录所有外部命令的假执行器
type fakeRunner struct {
	commands   []string
	failName   string
	warnName   string
	warnOutput string
	active     bool
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, int, error) {
	f.commands = append(f.commands, name+" "+strings.Join(args, " "))

	if f.failName != "" && strings.Contains(name, f.failName) {
		return []byte("Syntax error on line 1"), 1, nil
	}
	if f.warnName != "" && strings.Contains(name, f.warnName) {
		return []byte(f.warnOutput), 0, nil
	}
	if len(args) > 0 && args[0] == "is-active" {
		if f.active {
			return []byte("active"), 0, nil
		}
		return []byte("inactive"), 3, nil
	}
	if len(args) > 0 && args[0] == "start" {
		f.active = true
	}
	return []byte(""), 0, nil
}

func (f *fakeRunner) ran(fragment string) bool {
	for _, cmd := range f.commands {
		if strings.Contains(cmd, fragment) {
			return true
		}
	}
	return false
}

// newTestManager 在临时目录上创建注入假执行器的管理器
func newTestManager(t *testing.T, runner *fakeRunner) (*Manager, string) {
	t.Helper()
	t.Setenv("SETTLE_DELAY_SECONDS", "0")

	dir := t.TempDir()
	cfg := ManagerConfig{
		ConfPath:  filepath.Join(dir, "httpd", "conf"),
		HttpdExec: "httpd",
		ServiceID: "httpd",
	}
	return NewManagerWith(cfg, runner), dir
}

// TestApplyConfigurationStartsInactiveService 测试未运行的服务在应用后被启动
func TestApplyConfigurationStartsInactiveService(t *testing.T) {
	runner := &fakeRunner{active: false}
	m, dir := newTestManager(t, runner)

	cfg := &Configuration{Enabled: true, VirtualHosts: []VirtualHost{testVirtualHost()}}
	_, status, err := m.ApplyConfiguration(context.Background(), cfg)
	if err != nil {
		t.Fatalf("应用失败: %v", err)
	}
	if status != confgen.StatusRunning {
		t.Errorf("服务状态 = %s, want %s", status, confgen.StatusRunning)
	}

	confPath := filepath.Join(dir, "httpd", "conf", "httpd.conf")
	if !runner.ran("httpd -t -f " + confPath) {
		t.Errorf("应以-t -f执行httpd自检: %v", runner.commands)
	}
	if !runner.ran("start httpd") {
		t.Errorf("服务未运行时应执行start而非reload: %v", runner.commands)
	}
	if runner.ran("reload httpd") {
		t.Errorf("服务未运行时不应执行reload: %v", runner.commands)
	}
}

// TestApplyConfigurationReloadsActiveService 测试已运行的服务在应用后被重载
func TestApplyConfigurationReloadsActiveService(t *testing.T) {
	runner := &fakeRunner{active: true}
	m, _ := newTestManager(t, runner)

	cfg := &Configuration{Enabled: true, VirtualHosts: []VirtualHost{testVirtualHost()}}
	if _, _, err := m.ApplyConfiguration(context.Background(), cfg); err != nil {
		t.Fatalf("应用失败: %v", err)
	}

	if !runner.ran("reload httpd") {
		t.Errorf("服务已运行时应执行reload: %v", runner.commands)
	}
	if runner.ran("start httpd") {
		t.Errorf("服务已运行时不应执行start: %v", runner.commands)
	}
}

// TestApplyConfigurationExternalCheckFailure 测试httpd自检失败时文件保留且不重载
func TestApplyConfigurationExternalCheckFailure(t *testing.T) {
	runner := &fakeRunner{failName: "httpd", active: true}
	m, dir := newTestManager(t, runner)

	cfg := &Configuration{Enabled: true, VirtualHosts: []VirtualHost{testVirtualHost()}}
	_, _, err := m.ApplyConfiguration(context.Background(), cfg)
	if err == nil {
		t.Fatalf("期望外部校验失败")
	}
	if err.Kind != confgen.KindExternal {
		t.Errorf("错误类别 = %s, want %s", err.Kind, confgen.KindExternal)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "httpd", "conf", "httpd.conf")); statErr != nil {
		t.Errorf("自检失败后已写入的文件应保留: %v", statErr)
	}
	if runner.ran("reload") {
		t.Errorf("自检失败不应触碰服务: %v", runner.commands)
	}
}

// TestApplyConfigurationCheckWarningOutput 测试退出码为0但自检输出告警时按失败处理
func TestApplyConfigurationCheckWarningOutput(t *testing.T) {
	runner := &fakeRunner{
		warnName: "httpd",
		warnOutput: "AH00558: httpd: Could not reliably determine the server's fully qualified domain name\n" +
			"Syntax OK",
		active: true,
	}
	m, _ := newTestManager(t, runner)

	cfg := &Configuration{Enabled: true, VirtualHosts: []VirtualHost{testVirtualHost()}}
	_, _, err := m.ApplyConfiguration(context.Background(), cfg)
	if err == nil {
		t.Fatalf("告警输出应视为外部校验失败")
	}
	if err.Kind != confgen.KindExternal {
		t.Errorf("错误类别 = %s, want %s", err.Kind, confgen.KindExternal)
	}
	if !strings.Contains(err.Message, "AH00558") {
		t.Errorf("错误应携带告警内容: %s", err.Message)
	}
	if runner.ran("reload") {
		t.Errorf("告警输出不应触发服务操作: %v", runner.commands)
	}
}

// TestApplyConfigurationBenignCheckOutput 测试Syntax OK输出不影响成功
func TestApplyConfigurationBenignCheckOutput(t *testing.T) {
	runner := &fakeRunner{warnName: "httpd", warnOutput: "Syntax OK", active: true}
	m, _ := newTestManager(t, runner)

	cfg := &Configuration{Enabled: true, VirtualHosts: []VirtualHost{testVirtualHost()}}
	if _, _, err := m.ApplyConfiguration(context.Background(), cfg); err != nil {
		t.Fatalf("Syntax OK不应导致失败: %v", err)
	}
}

// TestGetConfiguration 测试查询配置的两种分支
func TestGetConfiguration(t *testing.T) {
	runner := &fakeRunner{}
	m, dir := newTestManager(t, runner)

	t.Run("httpd.conf不存在时返回默认配置", func(t *testing.T) {
		cfg, err := m.GetConfiguration()
		if err != nil {
			t.Fatalf("不应报错: %v", err)
		}
		if cfg.Global.ServerRoot != "/etc/httpd" {
			t.Errorf("默认ServerRoot = %s", cfg.Global.ServerRoot)
		}
	})

	t.Run("httpd.conf已存在时返回未实现", func(t *testing.T) {
		confPath := filepath.Join(dir, "httpd", "conf", "httpd.conf")
		if err := os.MkdirAll(filepath.Dir(confPath), 0755); err != nil {
			t.Fatalf("创建目录失败: %v", err)
		}
		if err := os.WriteFile(confPath, []byte("Listen 80\n"), 0644); err != nil {
			t.Fatalf("写入失败: %v", err)
		}

		_, err := m.GetConfiguration()
		if err == nil {
			t.Fatalf("期望未实现错误")
		}
		if err.Kind != confgen.KindNotImplemented {
			t.Errorf("错误类别 = %s, want %s", err.Kind, confgen.KindNotImplemented)
		}
	})
}
