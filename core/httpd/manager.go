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

// core/httpd/manager.go
// HTTPD配置应用编排

package httpd

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"SteadyOps/core/common"
	"SteadyOps/core/confgen"
)

// benignCheckOutput httpd -t 成功时唯一的预期输出
var benignCheckOutput = regexp.MustCompile(`^Syntax OK$`)

// Manager HTTPD配置管理器
type Manager struct {
	logger     *common.Logger
	cfg        ManagerConfig
	runner     common.ProcessRunner
	writer     *confgen.Writer
	renderer   *Renderer
	reconciler *confgen.Reconciler
}

// NewManager 从全局配置创建HTTPD管理器
func NewManager() *Manager {
	cfg := ManagerConfig{
		ConfPath:  common.GetConfig("HTTPD", "HTTPD_CONF_PATH"),
		HttpdExec: common.GetConfig("HTTPD", "HTTPD_EXEC"),
		ServiceID: common.GetConfig("Service", "HTTPD_SERVICE"),
	}
	return NewManagerWith(cfg, common.DefaultRunner())
}

// NewManagerWith 以显式依赖创建HTTPD管理器
func NewManagerWith(cfg ManagerConfig, runner common.ProcessRunner) *Manager {
	if cfg.ServiceID == "" {
		cfg.ServiceID = "httpd"
	}
	if cfg.HttpdExec == "" {
		cfg.HttpdExec = "httpd"
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

// ApplyConfiguration 应用完整HTTPD配置
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

	confPath := filepath.Join(m.cfg.ConfPath, "httpd.conf")
	output, exitCode, err := m.runner.Run(ctx, m.cfg.HttpdExec, "-t", "-f", confPath)
	if err != nil {
		return nil, confgen.StatusUnknown, confgen.ExternalError("执行httpd配置自检失败: %v", err)
	}
	if exitCode != 0 {
		return nil, confgen.StatusUnknown, confgen.ExternalError("httpd拒绝了生成的配置: %s",
			strings.TrimSpace(string(output)))
	}
	if line := confgen.UnexpectedLine(output, benignCheckOutput); line != "" {
		return nil, confgen.StatusUnknown, confgen.ExternalError("httpd自检输出了非预期告警: %s", line)
	}

	status, perr := m.reconciler.Reconcile(ctx, m.cfg.ServiceID, cfg.Enabled)
	if perr != nil {
		return nil, status, perr
	}

	m.logger.Info("HTTPD配置应用成功，服务 %s 状态: %s", m.cfg.ServiceID, status)
	return cfg, status, nil
}

// GetConfiguration 查询当前HTTPD配置
// httpd.conf尚不存在时返回合成的默认配置，已存在时返回未实现错误
func (m *Manager) GetConfiguration() (*Configuration, *confgen.PipelineError) {
	confPath := filepath.Join(m.cfg.ConfPath, "httpd.conf")
	if _, err := os.Stat(confPath); err == nil {
		return nil, confgen.NotImplementedError("暂不支持从现有httpd.conf读取配置")
	}

	return &Configuration{
		Enabled: false,
		Global: Global{
			ServerRoot: "/etc/httpd",
			Listen:     []Listen{{Port: 80}},
		},
		VirtualHosts: []VirtualHost{},
	}, nil
}

// Status 查询HTTPD服务实时状态
func (m *Manager) Status(ctx context.Context) confgen.ServiceStatus {
	return m.reconciler.Status(ctx, m.cfg.ServiceID)
}
