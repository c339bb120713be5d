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

// core/dhcp/manager.go
// DHCP配置应用编排

package dhcp

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"SteadyOps/core/common"
	"SteadyOps/core/confgen"
)

// benignCheckOutput dhcpd -t 即使配置无误也会打出的版本横幅
var benignCheckOutput = regexp.MustCompile(`^(Internet Systems Consortium DHCP Server.*|Copyright .*|All rights reserved\.?|For info, please visit .*|Config file: .*|Database file: .*|PID file: .*)$`)

// Manager DHCP配置管理器
// 流水线与DNS管理器同构：校验、渲染、落盘、dhcpd自检、服务协调
type Manager struct {
	logger     *common.Logger
	cfg        ManagerConfig
	runner     common.ProcessRunner
	writer     *confgen.Writer
	renderer   *Renderer
	reconciler *confgen.Reconciler
}

// NewManager 从全局配置创建DHCP管理器
func NewManager() *Manager {
	cfg := ManagerConfig{
		ConfPath:  common.GetConfig("DHCP", "DHCPD_CONF_PATH"),
		DhcpdExec: common.GetConfig("DHCP", "DHCPD_EXEC"),
		ServiceID: common.GetConfig("Service", "DHCP_SERVICE"),
	}
	return NewManagerWith(cfg, common.DefaultRunner())
}

// NewManagerWith 以显式依赖创建DHCP管理器
func NewManagerWith(cfg ManagerConfig, runner common.ProcessRunner) *Manager {
	if cfg.ServiceID == "" {
		cfg.ServiceID = "dhcpd"
	}
	if cfg.DhcpdExec == "" {
		cfg.DhcpdExec = "dhcpd"
	}
	return &Manager{
		logger:     common.NewLogger(),
		cfg:        cfg,
		runner:     runner,
		writer:     confgen.NewWriter(),
		renderer:   NewRenderer(cfg),
		reconciler: confgen.NewReconciler(runner),
	}
}

// ApplyConfiguration 应用完整DHCP配置
func (m *Manager) ApplyConfiguration(ctx context.Context, cfg *Configuration) (*Configuration, confgen.ServiceStatus, *confgen.PipelineError) {
	confgen.LockService(m.cfg.ServiceID)
	defer confgen.UnlockService(m.cfg.ServiceID)

	if fieldErrs := Validate(cfg); len(fieldErrs) > 0 {
		return nil, confgen.StatusUnknown, confgen.ValidationError(fieldErrs)
	}

	artifacts := m.renderer.Render(cfg)

	if err := m.writer.WriteAll(artifacts); err != nil {
		return nil, confgen.StatusUnknown, err
	}

	confPath := filepath.Join(m.cfg.ConfPath, "dhcpd.conf")
	output, exitCode, err := m.runner.Run(ctx, m.cfg.DhcpdExec, "-t", "-cf", confPath)
	if err != nil {
		return nil, confgen.StatusUnknown, confgen.ExternalError("执行dhcpd配置自检失败: %v", err)
	}
	if exitCode != 0 {
		return nil, confgen.StatusUnknown, confgen.ExternalError("dhcpd拒绝了生成的配置: %s",
			strings.TrimSpace(string(output)))
	}
	if line := confgen.UnexpectedLine(output, benignCheckOutput); line != "" {
		return nil, confgen.StatusUnknown, confgen.ExternalError("dhcpd自检输出了非预期告警: %s", line)
	}

	status, perr := m.reconciler.Reconcile(ctx, m.cfg.ServiceID, cfg.Enabled)
	if perr != nil {
		return nil, status, perr
	}

	m.logger.Info("DHCP配置应用成功，服务 %s 状态: %s", m.cfg.ServiceID, status)
	return cfg, status, nil
}

// GetConfiguration 查询当前DHCP配置
// dhcpd.conf尚不存在时返回合成的默认配置，已存在时返回未实现错误
func (m *Manager) GetConfiguration() (*Configuration, *confgen.PipelineError) {
	confPath := filepath.Join(m.cfg.ConfPath, "dhcpd.conf")
	if _, err := os.Stat(confPath); err == nil {
		return nil, confgen.NotImplementedError("暂不支持从现有dhcpd.conf读取配置")
	}

	return &Configuration{
		Enabled:          false,
		Authoritative:    true,
		DefaultLeaseTime: DefaultLeaseTime,
		MaxLeaseTime:     DefaultMaxLease,
		Subnets:          []Subnet{},
	}, nil
}

// Status 查询DHCP服务实时状态
func (m *Manager) Status(ctx context.Context) confgen.ServiceStatus {
	return m.reconciler.Status(ctx, m.cfg.ServiceID)
}
