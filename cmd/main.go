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
// cmd/main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"SteadyOps/core/common"
	"SteadyOps/core/confgen"
	"SteadyOps/core/database"
	"SteadyOps/core/webapi/api"
	"SteadyOps/core/webapi/middleware"
)

const (
	// Version 应用程序版本
	Version = "1.0.0"
	// DefaultConfigPath 默认配置文件路径
	DefaultConfigPath = "config/steadyops.conf"
	// DefaultPIDFile 默认PID文件路径
	DefaultPIDFile = "steadyops.pid"
	// StartArgsFile 启动参数保存文件
	StartArgsFile = "steadyops.startargs"
)

// CLIConfig 命令行配置
type CLIConfig struct {
	Command    string
	Daemon     bool
	Foreground bool
	ConfigPath string
	PIDFile    string
	ShowHelp   bool
	ShowVer    bool
}

var cliConfig CLIConfig

func init() {
	flag.Usage = printHelp
}

func main() {
	parseArgs()

	if cliConfig.ShowHelp {
		printHelp()
		os.Exit(0)
	}

	if cliConfig.ShowVer {
		printVersion()
		os.Exit(0)
	}

	switch cliConfig.Command {
	case "start", "":
		if err := cmdStart(); err != nil {
			log.Fatalf("启动失败: %v", err)
		}
	case "stop":
		if err := cmdStop(); err != nil {
			log.Fatalf("停止失败: %v", err)
		}
	case "restart":
		if err := cmdRestart(); err != nil {
			log.Fatalf("重启失败: %v", err)
		}
	case "status":
		if err := cmdStatus(); err != nil {
			log.Fatalf("获取状态失败: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令: %s\n", cliConfig.Command)
		printHelp()
		os.Exit(1)
	}
}

// parseArgs 解析命令行参数
func parseArgs() {
	// 第一个非选项参数视为命令
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		cliConfig.Command = os.Args[1]
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
	}

	flag.BoolVar(&cliConfig.Daemon, "d", false, "后台运行模式")
	flag.BoolVar(&cliConfig.Daemon, "daemon", false, "后台运行模式")
	flag.BoolVar(&cliConfig.Foreground, "f", false, "前台运行模式")
	flag.BoolVar(&cliConfig.Foreground, "foreground", false, "前台运行模式")
	flag.StringVar(&cliConfig.ConfigPath, "c", DefaultConfigPath, "配置文件路径")
	flag.StringVar(&cliConfig.ConfigPath, "config", DefaultConfigPath, "配置文件路径")
	flag.StringVar(&cliConfig.PIDFile, "p", DefaultPIDFile, "PID文件路径")
	flag.StringVar(&cliConfig.PIDFile, "pidfile", DefaultPIDFile, "PID文件路径")
	flag.BoolVar(&cliConfig.ShowHelp, "h", false, "显示帮助信息")
	flag.BoolVar(&cliConfig.ShowHelp, "help", false, "显示帮助信息")
	flag.BoolVar(&cliConfig.ShowVer, "v", false, "显示版本信息")
	flag.BoolVar(&cliConfig.ShowVer, "version", false, "显示版本信息")

	flag.Parse()

	// 未指定运行模式时默认前台
	if !cliConfig.Daemon && !cliConfig.Foreground {
		cliConfig.Foreground = true
	}
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("SteadyOps - 服务器管理控制台")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  steadyops [命令] [选项]")
	fmt.Println()
	fmt.Println("命令:")
	fmt.Println("  start       启动服务 (默认)")
	fmt.Println("  stop        停止服务")
	fmt.Println("  restart     重启服务")
	fmt.Println("  status      查看服务状态")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  -d, --daemon          后台运行模式 (用于systemd服务)")
	fmt.Println("  -f, --foreground      前台运行模式 (默认)")
	fmt.Println("  -c, --config PATH     指定配置文件路径 (默认: config/steadyops.conf)")
	fmt.Println("  -p, --pidfile PATH    指定PID文件路径 (默认: steadyops.pid)")
	fmt.Println("  -v, --version         显示版本信息")
	fmt.Println("  -h, --help            显示帮助信息")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  steadyops                    前台运行服务")
	fmt.Println("  steadyops start -d           后台运行服务")
	fmt.Println("  steadyops stop               停止服务")
	fmt.Println("  steadyops -c /etc/steadyops/steadyops.conf  使用指定配置文件")
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("SteadyOps 版本 %s\n", Version)
	fmt.Println("服务器管理控制台")
	fmt.Println("许可证: AGPLv3")
}

// cmdStart 启动服务命令
func cmdStart() error {
	daemonManager := common.NewDaemonManager(cliConfig.PIDFile)

	// 守护进程模式启动的子进程直接运行服务
	if os.Getenv("STEADYOPS_DAEMON") == "1" {
		return runService(daemonManager)
	}

	if daemonManager.IsRunning() {
		status, pid := daemonManager.GetStatus()
		return fmt.Errorf("服务已经在运行中 (状态: %s, PID: %d)", status, pid)
	}

	if cliConfig.Daemon {
		fmt.Println("正在启动守护进程...")
		if err := daemonManager.StartDaemon(buildStartArgsFromCLI()); err != nil {
			return err
		}
		fmt.Println("守护进程启动成功")
		return nil
	}

	return runService(daemonManager)
}

// runService 运行服务（前台和后台共用）
func runService(daemonManager *common.DaemonManager) error {
	common.SetConfigFilePath(cliConfig.ConfigPath)
	common.LoadConfig()
	common.LoadEnv()

	logger := common.NewLogger()

	daemonManager.SetupSignalHandlers(func() {
		logger.Info("正在关闭服务...")
		os.Remove(cliConfig.PIDFile)
		logger.Info("服务已关闭")
	})

	if err := os.WriteFile(cliConfig.PIDFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
		logger.Warn("写入PID文件失败: %v", err)
	}

	if err := saveStartArgs(); err != nil {
		logger.Warn("保存启动参数失败: %v", err)
	}

	logger.Info("SteadyOps 服务启动中...")
	logger.Info("版本: %s", Version)
	logger.Info("配置文件: %s", cliConfig.ConfigPath)

	// 初始化数据库，首次运行时建表并植入默认管理员
	database.InitDB()
	if err := database.InitializeDatabase(); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	// 启动刷新令牌定期清理
	middleware.StartTokenCleanup(time.Hour)

	// 记录受管守护进程的当前状态，不在启动时强行拉起
	reportManagedServices(logger)

	if err := api.GetHTTPServer().Start(); err != nil {
		return fmt.Errorf("API服务器启动失败: %v", err)
	}

	return nil
}

// reportManagedServices 启动时记录各受管服务的实时状态
func reportManagedServices(logger *common.Logger) {
	reconciler := confgen.NewReconciler(common.DefaultRunner())

	units := []string{
		common.GetConfig("Service", "DNS_SERVICE"),
		common.GetConfig("Service", "DHCP_SERVICE"),
		common.GetConfig("Service", "HTTPD_SERVICE"),
	}
	defaults := []string{"named", "dhcpd", "httpd"}

	for i, unit := range units {
		if unit == "" {
			unit = defaults[i]
		}
		status := reconciler.Status(context.Background(), unit)
		logger.Info("受管服务 %s 当前状态: %s", unit, status)
	}
}

// cmdStop 停止服务命令
func cmdStop() error {
	daemonManager := common.NewDaemonManager(cliConfig.PIDFile)

	status, pid := daemonManager.GetStatus()
	if status != "运行中" {
		return fmt.Errorf("服务未运行")
	}

	fmt.Printf("正在停止服务 (PID: %d)...\n", pid)

	if err := daemonManager.StopDaemon(); err != nil {
		return err
	}

	fmt.Println("服务已停止")
	return nil
}

// cmdRestart 重启服务命令
func cmdRestart() error {
	daemonManager := common.NewDaemonManager(cliConfig.PIDFile)

	fmt.Println("正在重启服务...")

	var startArgs []string

	hasArgs := false
	for i := 1; i < len(os.Args); i++ {
		if strings.HasPrefix(os.Args[i], "-") {
			hasArgs = true
			break
		}
	}

	if hasArgs {
		startArgs = buildStartArgsFromCLI()
	} else {
		savedArgs, err := loadStartArgs()
		if err != nil || len(savedArgs) == 0 {
			startArgs = []string{"-f"}
		} else {
			startArgs = savedArgs
		}
	}

	if err := daemonManager.RestartDaemon(startArgs); err != nil {
		return err
	}

	fmt.Println("服务重启成功")
	return nil
}

// cmdStatus 查看服务状态命令
func cmdStatus() error {
	daemonManager := common.NewDaemonManager(cliConfig.PIDFile)

	status, pid := daemonManager.GetStatus()

	fmt.Printf("服务状态: %s\n", status)
	if pid > 0 {
		fmt.Printf("进程ID: %d\n", pid)
	}

	return nil
}

// saveStartArgs 保存启动参数，restart不带参数时沿用
func saveStartArgs() error {
	var args []string

	if cliConfig.Daemon {
		args = append(args, "-d")
	} else {
		args = append(args, "-f")
	}

	if cliConfig.ConfigPath != DefaultConfigPath {
		args = append(args, "-c", cliConfig.ConfigPath)
	}

	if cliConfig.PIDFile != DefaultPIDFile {
		args = append(args, "-p", cliConfig.PIDFile)
	}

	return os.WriteFile(StartArgsFile, []byte(strings.Join(args, "\n")), 0644)
}

// loadStartArgs 从文件读取保存的启动参数
func loadStartArgs() ([]string, error) {
	data, err := os.ReadFile(StartArgsFile)
	if err != nil {
		return nil, err
	}

	var args []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			args = append(args, line)
		}
	}

	return args, nil
}

// buildStartArgsFromCLI 从当前命令行构建启动参数
func buildStartArgsFromCLI() []string {
	var args []string

	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		args = append(args, arg)

		if (arg == "-c" || arg == "--config" || arg == "-p" || arg == "--pidfile") && i+1 < len(os.Args) {
			args = append(args, os.Args[i+1])
			i++
		}
	}

	return args
}
