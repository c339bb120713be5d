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

// core/confgen/reconciler.go
// 服务状态协调

package confgen

import (
	"context"
	"strings"
	"time"

	"SteadyOps/core/common"
)

// ServiceStatus 服务运行状态
type ServiceStatus string

// 服务状态常量
const (
	StatusRunning ServiceStatus = "running"
	StatusStopped ServiceStatus = "stopped"
	StatusFailed  ServiceStatus = "failed"
	StatusUnknown ServiceStatus = "unknown"
)

// Reconciler 服务协调器
// 通过systemctl操作受管守护进程，操作后复查状态确认结果
type Reconciler struct {
	logger        *common.Logger
	runner        common.ProcessRunner
	systemctl     string
	settleDelay   time.Duration
	settleRetries int
}

// NewReconciler 创建服务协调器
func NewReconciler(runner common.ProcessRunner) *Reconciler {
	systemctl := common.GetConfig("Service", "SYSTEMCTL_PATH")
	if systemctl == "" {
		systemctl = "systemctl"
	}

	delaySec := common.GetConfigInt("Service", "SETTLE_DELAY_SECONDS", 1)
	if delaySec < 0 {
		delaySec = 1
	}

	retries := common.GetConfigInt("Service", "SETTLE_RETRIES", 2)
	if retries <= 0 {
		retries = 2
	}

	return &Reconciler{
		logger:        common.NewLogger(),
		runner:        runner,
		systemctl:     systemctl,
		settleDelay:   time.Duration(delaySec) * time.Second,
		settleRetries: retries,
	}
}

// Status 查询服务实时状态
func (r *Reconciler) Status(ctx context.Context, serviceID string) ServiceStatus {
	output, exitCode, err := r.runner.Run(ctx, r.systemctl, "is-active", serviceID)
	if err != nil {
		r.logger.Warn("查询服务状态失败: %s, 错误: %v", serviceID, err)
		return StatusUnknown
	}

	state := strings.TrimSpace(string(output))
	if exitCode == 0 {
		return StatusRunning
	}

	switch state {
	case "inactive":
		return StatusStopped
	case "failed":
		return StatusFailed
	case "activating", "deactivating":
		return StatusUnknown
	}
	return StatusStopped
}

// Reconcile 使服务达到期望状态
// enabled为false时不做任何操作；为true时根据当前活跃状态选择
// reload（已运行）或start（未运行），操作后复查状态确认
func (r *Reconciler) Reconcile(ctx context.Context, serviceID string, enabled bool) (ServiceStatus, *PipelineError) {
	if !enabled {
		// 管理员明确不希望服务运行，不触碰服务
		status := r.Status(ctx, serviceID)
		r.logger.Info("服务 %s 配置为禁用，跳过重载，当前状态: %s", serviceID, status)
		return status, nil
	}

	action := "reload"
	if r.Status(ctx, serviceID) != StatusRunning {
		// 对未运行的守护进程发reload是无效操作，改为start
		action = "start"
	}

	return r.runAction(ctx, serviceID, action)
}

// Start 启动服务
func (r *Reconciler) Start(ctx context.Context, serviceID string) (ServiceStatus, *PipelineError) {
	return r.runAction(ctx, serviceID, "start")
}

// Stop 停止服务
func (r *Reconciler) Stop(ctx context.Context, serviceID string) (ServiceStatus, *PipelineError) {
	return r.runAction(ctx, serviceID, "stop")
}

// Restart 重启服务
func (r *Reconciler) Restart(ctx context.Context, serviceID string) (ServiceStatus, *PipelineError) {
	return r.runAction(ctx, serviceID, "restart")
}

// Reload 重载服务配置
func (r *Reconciler) Reload(ctx context.Context, serviceID string) (ServiceStatus, *PipelineError) {
	return r.runAction(ctx, serviceID, "reload")
}

// runAction 执行服务操作并复查状态
func (r *Reconciler) runAction(ctx context.Context, serviceID, action string) (ServiceStatus, *PipelineError) {
	r.logger.Info("执行服务操作: systemctl %s %s", action, serviceID)

	output, exitCode, err := r.runner.Run(ctx, r.systemctl, action, serviceID)
	if err != nil {
		return StatusUnknown, ServiceError("执行 systemctl %s %s 失败: %v", action, serviceID, err)
	}
	if exitCode != 0 {
		return StatusFailed, ServiceError("systemctl %s %s 失败，退出码 %d, 输出: %s",
			action, serviceID, exitCode, strings.TrimSpace(string(output)))
	}

	// 进程管理器在命令返回后可能短暂报告过渡状态，等待后复查
	expected := StatusRunning
	if action == "stop" {
		expected = StatusStopped
	}

	var status ServiceStatus
	for attempt := 0; attempt < r.settleRetries; attempt++ {
		if r.settleDelay > 0 {
			time.Sleep(r.settleDelay)
		}

		status = r.Status(ctx, serviceID)
		if status == expected {
			r.logger.Info("服务 %s %s 成功，当前状态: %s", serviceID, action, status)
			return status, nil
		}
	}

	return status, ServiceError("服务 %s 执行 %s 后未达到期望状态 %s，当前状态: %s",
		serviceID, action, expected, status)
}
