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

// core/common/runner.go
// 外部进程执行

package common

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultExecTimeout 外部命令默认超时时间
const DefaultExecTimeout = 10 * time.Second

// ProcessRunner 外部进程执行接口
// 返回值为合并的stdout+stderr输出、进程退出码和执行错误。
// 进程正常启动但以非零退出码结束时，err为nil，由调用方根据exitCode判断；
// err仅在进程无法启动或超时被终止时非nil。
type ProcessRunner interface {
	Run(ctx context.Context, name string, args ...string) (output []byte, exitCode int, err error)
}

// ExecRunner 基于os/exec的进程执行器
type ExecRunner struct {
	logger  *Logger
	timeout time.Duration
}

// NewExecRunner 创建进程执行器
func NewExecRunner() *ExecRunner {
	timeoutSec := GetConfigInt("Service", "EXEC_TIMEOUT_SECONDS", 10)
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &ExecRunner{
		logger:  NewLogger(),
		timeout: time.Duration(timeoutSec) * time.Second,
	}
}

// Run 执行外部命令，超时后强制终止
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.logger.Debug("执行命令: %s %s", name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		r.logger.Error("命令执行超时: %s %s", name, strings.Join(args, " "))
		return output, -1, fmt.Errorf("命令执行超时: %s", name)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// 进程正常启动但以非零退出码结束
			r.logger.Debug("命令退出码: %d, 输出: %s", exitErr.ExitCode(), string(output))
			return output, exitErr.ExitCode(), nil
		}
		r.logger.Error("命令启动失败: %s, 错误: %v", name, err)
		return output, -1, fmt.Errorf("命令启动失败: %s, 错误: %v", name, err)
	}

	return output, 0, nil
}

// DryRunRunner 开发模式进程执行器
// 只记录将要执行的命令，不真正执行，始终报告成功
type DryRunRunner struct {
	logger *Logger

	// Commands 记录收到的命令行，供测试断言
	Commands []string
}

// NewDryRunRunner 创建开发模式执行器
func NewDryRunRunner() *DryRunRunner {
	return &DryRunRunner{
		logger: NewLogger(),
	}
}

// Run 记录命令并返回成功
func (r *DryRunRunner) Run(ctx context.Context, name string, args ...string) ([]byte, int, error) {
	cmdLine := name
	if len(args) > 0 {
		cmdLine = name + " " + strings.Join(args, " ")
	}
	r.Commands = append(r.Commands, cmdLine)
	r.logger.Info("开发模式，跳过命令执行: %s", cmdLine)
	return nil, 0, nil
}

// DefaultRunner 根据运行模式选择进程执行器
func DefaultRunner() ProcessRunner {
	if IsDevMode() {
		return NewDryRunRunner()
	}
	return NewExecRunner()
}
