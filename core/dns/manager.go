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

// core/dns/manager.go
// DNS配置应用编排

package dns

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"SteadyOps/core/common"
	"SteadyOps/core/confgen"
)

// benignCheckOutput BIND校验工具成功时的已知良性输出，
// named-checkzone成功时输出"zone xxx/IN: loaded serial N"和"OK"
var benignCheckOutput = regexp.MustCompile(`^(OK|zone .+: loaded serial [0-9]+.*)$`)

// Manager DNS配置管理器
// 编排完整的应用流水线：校验、渲染、落盘、守护进程自带工具复核、服务协调
type Manager struct {
	logger     *common.Logger
	cfg        ManagerConfig
	runner     common.ProcessRunner
	writer     *confgen.Writer
	renderer   *Renderer
	reconciler *confgen.Reconciler
}

// NewManager 从全局配置创建DNS管理器
func NewManager() *Manager {
	cfg := ManagerConfig{
		ZoneFilePath:   common.GetConfig("DNS", "ZONE_FILE_PATH"),
		NamedConfPath:  common.GetConfig("DNS", "NAMED_CONF_PATH"),
		NamedCheckConf: common.GetConfig("DNS", "NAMED_CHECKCONF"),
		NamedCheckZone: common.GetConfig("DNS", "NAMED_CHECKZONE"),
		DefaultTTL:     common.GetConfigInt("DNS", "DEFAULT_TTL", DefaultTTL),
		PrimaryNS:      common.GetConfig("DNS", "PRIMARY_NS"),
		AdminEmail:     common.GetConfig("DNS", "ADMIN_EMAIL"),
		ServiceID:      common.GetConfig("Service", "DNS_SERVICE"),
	}
	runner := common.DefaultRunner()
	return NewManagerWith(cfg, runner)
}

// NewManagerWith 以显式依赖创建DNS管理器，测试用例由此注入假执行器
func NewManagerWith(cfg ManagerConfig, runner common.ProcessRunner) *Manager {
	if cfg.ServiceID == "" {
		cfg.ServiceID = "named"
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

// ApplyConfiguration 应用完整DNS配置
// 任一阶段失败立即短路返回，已落盘的文件保留，依靠 .bak 备份恢复
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

	if err := m.externalValidate(ctx, cfg); err != nil {
		return nil, confgen.StatusUnknown, err
	}

	status, err := m.reconciler.Reconcile(ctx, m.cfg.ServiceID, cfg.Enabled)
	if err != nil {
		return nil, status, err
	}

	m.logger.Info("DNS配置应用成功，服务 %s 状态: %s", m.cfg.ServiceID, status)
	return cfg, status, nil
}

// externalValidate 调用BIND自带工具复核已落盘的配置
// named-checkconf检查主配置一次，named-checkzone逐个检查master区域文件
func (m *Manager) externalValidate(ctx context.Context, cfg *Configuration) *confgen.PipelineError {
	checkconf := m.cfg.NamedCheckConf
	if checkconf == "" {
		checkconf = "named-checkconf"
	}
	checkzone := m.cfg.NamedCheckZone
	if checkzone == "" {
		checkzone = "named-checkzone"
	}

	namedConf := filepath.Join(m.cfg.NamedConfPath, "named.conf")
	output, exitCode, err := m.runner.Run(ctx, checkconf, namedConf)
	if err != nil {
		return confgen.ExternalError("执行named-checkconf失败: %v", err)
	}
	if exitCode != 0 {
		return confgen.ExternalError("named-checkconf拒绝了生成的配置: %s",
			strings.TrimSpace(string(output)))
	}
	if line := confgen.UnexpectedLine(output, benignCheckOutput); line != "" {
		return confgen.ExternalError("named-checkconf输出了非预期告警: %s", line)
	}

	for i := range cfg.Zones {
		zone := &cfg.Zones[i]
		if zone.Kind != ZoneKindMaster {
			continue
		}

		zonePath := filepath.Join(m.cfg.ZoneFilePath, zoneFileName(zone))
		output, exitCode, err := m.runner.Run(ctx, checkzone, zone.Name, zonePath)
		if err != nil {
			return confgen.ExternalError("执行named-checkzone失败: %v", err)
		}
		if exitCode != 0 {
			return confgen.ExternalError("named-checkzone拒绝了区域 %s: %s",
				zone.Name, strings.TrimSpace(string(output)))
		}
		if line := confgen.UnexpectedLine(output, benignCheckOutput); line != "" {
			return confgen.ExternalError("named-checkzone对区域 %s 输出了非预期告警: %s", zone.Name, line)
		}
		m.logger.Debug("区域 %s 校验通过: %s", zone.Name, strings.TrimSpace(string(output)))
	}

	return nil
}

// GetConfiguration 查询当前DNS配置
// 不解析真实守护进程配置文件：named.conf尚不存在时返回合成的默认配置，
// 已存在时返回未实现错误
func (m *Manager) GetConfiguration() (*Configuration, *confgen.PipelineError) {
	namedConf := filepath.Join(m.cfg.NamedConfPath, "named.conf")
	if _, err := os.Stat(namedConf); err == nil {
		return nil, confgen.NotImplementedError("暂不支持从现有named.conf读取配置")
	}

	ttl := m.cfg.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Configuration{
		Enabled: false,
		TTL:     ttl,
		Options: Options{
			AllowQuery: confgen.StringList{"any"},
			Recursion:  true,
		},
		Zones: []Zone{},
	}, nil
}

// Status 查询DNS服务实时状态
func (m *Manager) Status(ctx context.Context) confgen.ServiceStatus {
	return m.reconciler.Status(ctx, m.cfg.ServiceID)
}
