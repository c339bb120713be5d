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
// core/dhcp/manager_test.go
// DHCP配置应用流水线测试

package dhcp

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
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, int, error) {
	f.commands = append(f.commands, name+" "+strings.Join(args, " "))

	if f.failName != "" && strings.Contains(name, f.failName) {
		return []byte("Configuration file errors encountered"), 1, nil
	}
	if f.warnName != "" && strings.Contains(name, f.warnName) {
		return []byte(f.warnOutput), 0, nil
	}
	if len(args) > 0 && args[0] == "is-active" {
		return []byte("active"), 0, nil
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
		ConfPath:  filepath.Join(dir, "dhcp"),
		DhcpdExec: "dhcpd",
		ServiceID: "dhcpd",
	}
	return NewManagerWith(cfg, runner), dir
}

// TestApplyConfigurationSuccess 测试完整应用流水线成功路径
func TestApplyConfigurationSuccess(t *testing.T) {
	runner := &fakeRunner{}
	m, dir := newTestManager(t, runner)

	cfg := &Configuration{Enabled: true, Subnets: []Subnet{testSubnet()}}
	applied, status, err := m.ApplyConfiguration(context.Background(), cfg)
	if err != nil {
		t.Fatalf("应用失败: %v", err)
	}
	if applied == nil {
		t.Fatalf("成功时应回显配置")
	}
	if status != confgen.StatusRunning {
		t.Errorf("服务状态 = %s, want %s", status, confgen.StatusRunning)
	}

	confPath := filepath.Join(dir, "dhcp", "dhcpd.conf")
	content, readErr := os.ReadFile(confPath)
	if readErr != nil {
		t.Fatalf("dhcpd.conf未落盘: %v", readErr)
	}
	if !strings.Contains(string(content), "subnet 192.168.1.0 netmask 255.255.255.0 {") {
		t.Errorf("dhcpd.conf缺少网段声明:\n%s", string(content))
	}

	if !runner.ran("dhcpd -t -cf "+confPath) {
		t.Errorf("应以-t -cf执行dhcpd自检: %v", runner.commands)
	}
	if !runner.ran("reload dhcpd") {
		t.Errorf("服务已运行时应执行reload: %v", runner.commands)
	}
}

// TestApplyConfigurationExternalCheckFailure 测试dhcpd自检失败时文件保留且不重载
func TestApplyConfigurationExternalCheckFailure(t *testing.T) {
	runner := &fakeRunner{failName: "dhcpd"}
	m, dir := newTestManager(t, runner)

	cfg := &Configuration{Enabled: true, Subnets: []Subnet{testSubnet()}}
	_, _, err := m.ApplyConfiguration(context.Background(), cfg)
	if err == nil {
		t.Fatalf("期望外部校验失败")
	}
	if err.Kind != confgen.KindExternal {
		t.Errorf("错误类别 = %s, want %s", err.Kind, confgen.KindExternal)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "dhcp", "dhcpd.conf")); statErr != nil {
		t.Errorf("自检失败后已写入的文件应保留: %v", statErr)
	}
	if runner.ran("reload") || runner.ran("start dhcpd") {
		t.Errorf("自检失败不应触碰服务: %v", runner.commands)
	}
}

// TestApplyConfigurationCheckWarningOutput 测试退出码为0但自检输出告警时按失败处理
func TestApplyConfigurationCheckWarningOutput(t *testing.T) {
	runner := &fakeRunner{
		warnName: "dhcpd",
		warnOutput: "Internet Systems Consortium DHCP Server 4.4.2\n" +
			"Copyright 2004-2022 Internet Systems Consortium.\n" +
			"All rights reserved.\n" +
			"For info, please visit https://www.isc.org/software/dhcp/\n" +
			"WARNING: subnet 192.168.1.0/24: no pool ranges declared",
	}
	m, _ := newTestManager(t, runner)

	cfg := &Configuration{Enabled: true, Subnets: []Subnet{testSubnet()}}
	_, _, err := m.ApplyConfiguration(context.Background(), cfg)
	if err == nil {
		t.Fatalf("告警输出应视为外部校验失败")
	}
	if err.Kind != confgen.KindExternal {
		t.Errorf("错误类别 = %s, want %s", err.Kind, confgen.KindExternal)
	}
	if !strings.Contains(err.Message, "WARNING") {
		t.Errorf("错误应携带告警内容: %s", err.Message)
	}
	if runner.ran("reload") || runner.ran("start dhcpd") {
		t.Errorf("告警输出不应触发服务操作: %v", runner.commands)
	}
}

// TestApplyConfigurationBenignCheckOutput 测试dhcpd版本横幅不影响成功
func TestApplyConfigurationBenignCheckOutput(t *testing.T) {
	runner := &fakeRunner{
		warnName: "dhcpd",
		warnOutput: "Internet Systems Consortium DHCP Server 4.4.2\n" +
			"Copyright 2004-2022 Internet Systems Consortium.\n" +
			"All rights reserved.\n" +
			"For info, please visit https://www.isc.org/software/dhcp/\n" +
			"Config file: /etc/dhcp/dhcpd.conf",
	}
	m, _ := newTestManager(t, runner)

	cfg := &Configuration{Enabled: true, Subnets: []Subnet{testSubnet()}}
	if _, _, err := m.ApplyConfiguration(context.Background(), cfg); err != nil {
		t.Fatalf("版本横幅不应导致失败: %v", err)
	}
}

// TestApplyConfigurationValidationFailure 测试校验失败不触碰文件系统
func TestApplyConfigurationValidationFailure(t *testing.T) {
	runner := &fakeRunner{}
	m, dir := newTestManager(t, runner)

	_, _, err := m.ApplyConfiguration(context.Background(), &Configuration{Enabled: true})
	if err == nil {
		t.Fatalf("期望校验失败")
	}
	if err.Kind != confgen.KindValidation {
		t.Errorf("错误类别 = %s, want %s", err.Kind, confgen.KindValidation)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "dhcp")); !os.IsNotExist(statErr) {
		t.Errorf("校验失败不应写任何文件")
	}
	if len(runner.commands) != 0 {
		t.Errorf("校验失败不应执行任何外部命令: %v", runner.commands)
	}
}

// TestGetConfiguration 测试查询配置的两种分支
func TestGetConfiguration(t *testing.T) {
	runner := &fakeRunner{}
	m, dir := newTestManager(t, runner)

	t.Run("dhcpd.conf不存在时返回默认配置", func(t *testing.T) {
		cfg, err := m.GetConfiguration()
		if err != nil {
			t.Fatalf("不应报错: %v", err)
		}
		if cfg.DefaultLeaseTime != DefaultLeaseTime || cfg.MaxLeaseTime != DefaultMaxLease {
			t.Errorf("默认租约时间不符: %d/%d", cfg.DefaultLeaseTime, cfg.MaxLeaseTime)
		}
	})

	t.Run("dhcpd.conf已存在时返回未实现", func(t *testing.T) {
		confPath := filepath.Join(dir, "dhcp", "dhcpd.conf")
		if err := os.MkdirAll(filepath.Dir(confPath), 0755); err != nil {
			t.Fatalf("创建目录失败: %v", err)
		}
		if err := os.WriteFile(confPath, []byte("authoritative;\n"), 0644); err != nil {
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
