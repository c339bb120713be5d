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

// core/common/config.go
// 配置文件管理

package common

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigTemplate 默认配置模板
const DefaultConfigTemplate = `# SteadyOps Configuration File
# Format: INI/Conf
[Database]
# Database file path (relative to working directory)
# Default: steadyops.db
DB_PATH=steadyops.db

[APIServer]
# API Server port
# Default: 8090
API_SERVER_PORT=8090
# API Server IPv4 address
# Default: 0.0.0.0 (listen on all IPv4 addresses)
# Recommended: 127.0.0.1 (localhost only) for production
API_SERVER_IP_ADDR=0.0.0.0
# GIN running mode (debug/release)
# Default: release
GIN_MODE=release

[JWT]
# JWT secret key for authentication
# Recommended: Use a strong, unique secret key in production
JWT_SECRET_KEY=your-default-jwt-secret-key-change-this-in-production
# Access token expiration (minutes)
# Default: 30
ACCESS_TOKEN_EXPIRATION=30
# Refresh token expiration (days)
# Default: 7
REFRESH_TOKEN_EXPIRATION=7

[Logging]
# Log level
# Default: INFO, Recommended: INFO (production)/DEBUG (development)
LOG_LEVEL=INFO

[Service]
# systemctl executable path
# Default: systemctl
SYSTEMCTL_PATH=systemctl
# External command timeout (seconds)
# Default: 10
EXEC_TIMEOUT_SECONDS=10
# Settle delay between status rechecks after a service action (seconds)
# Default: 1
SETTLE_DELAY_SECONDS=1
# Status recheck attempts after a service action
# Default: 2
SETTLE_RETRIES=2
# systemd unit names of the managed daemons
DNS_SERVICE=named
DHCP_SERVICE=dhcpd
HTTPD_SERVICE=httpd

[DNS]
# Zone file storage path
# Default: /var/named
ZONE_FILE_PATH=/var/named
# Named configuration path
# Default: /etc/named
NAMED_CONF_PATH=/etc/named
# named-checkconf executable path
# Default: named-checkconf
NAMED_CHECKCONF=named-checkconf
# named-checkzone executable path
# Default: named-checkzone
NAMED_CHECKZONE=named-checkzone
# Default zone TTL (seconds)
# Default: 3600
DEFAULT_TTL=3600
# Default primary nameserver for generated SOA records
PRIMARY_NS=ns1.example.com
# Default admin mailbox for generated SOA records (BIND dot notation)
ADMIN_EMAIL=admin.example.com

[DHCP]
# dhcpd.conf directory
# Default: /etc/dhcp
DHCPD_CONF_PATH=/etc/dhcp
# dhcpd executable path (used for config test: dhcpd -t -cf)
# Default: dhcpd
DHCPD_EXEC=dhcpd

[HTTPD]
# httpd.conf directory
# Default: /etc/httpd/conf
HTTPD_CONF_PATH=/etc/httpd/conf
# httpd executable path (used for config test: httpd -t -f)
# Default: httpd
HTTPD_EXEC=httpd

[API]
# Enable API rate limiting
# Default: true
RATE_LIMIT_ENABLED=true
# Enable API request logging
# Default: true
LOG_ENABLED=true
# Sliding window length (seconds)
RATE_LIMIT_WINDOW_SECONDS=60
# Requests per window for login attempts
RATE_LIMIT_LOGIN=60
# Requests per window for general API calls
RATE_LIMIT_API=300
`

// Config 存储配置信息
type Config struct {
	sections map[string]map[string]string
}

// 全局配置实例
var globalConfig *Config

// configFilePath 配置文件路径，可在启动时覆盖
var configFilePath string

// SetConfigFilePath 设置配置文件路径
func SetConfigFilePath(path string) {
	configFilePath = path
}

// getConfigFilePath 获取配置文件路径
func getConfigFilePath() string {
	if configFilePath != "" {
		return configFilePath
	}
	workingDir, err := os.Getwd()
	if err != nil {
		workingDir = "."
	}
	return filepath.Join(workingDir, "config", "steadyops.conf")
}

// LoadConfig 加载配置文件，不存在时写入默认模板
func LoadConfig() {
	configPath := getConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("配置文件不存在: %s，正在创建默认配置\n", configPath)

		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			fmt.Printf("创建配置目录失败: %v\n", err)
		}

		if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate), 0644); err != nil {
			fmt.Printf("创建默认配置文件失败: %v\n", err)
			globalConfig = &Config{sections: make(map[string]map[string]string)}
			setDefaultConfig()
			return
		}
	}

	config, err := parseINI(configPath)
	if err != nil {
		fmt.Printf("解析配置文件失败: %v\n", err)
		globalConfig = &Config{sections: make(map[string]map[string]string)}
		setDefaultConfig()
		return
	}

	globalConfig = config
	setDefaultConfig()
}

// parseINI 解析INI配置文件
func parseINI(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := &Config{
		sections: make(map[string]map[string]string),
	}

	var currentSection string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// 跳过注释和空行
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		// 处理节 [Section]
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSpace(line[1 : len(line)-1])
			if _, exists := config.sections[currentSection]; !exists {
				config.sections[currentSection] = make(map[string]string)
			}
			continue
		}

		// 处理键值对 key=value
		if idx := strings.Index(line, "="); idx != -1 {
			key := strings.TrimSpace(line[:idx])
			value := strings.TrimSpace(line[idx+1:])

			if currentSection == "" {
				currentSection = "Default"
				if _, exists := config.sections[currentSection]; !exists {
					config.sections[currentSection] = make(map[string]string)
				}
			}

			config.sections[currentSection][key] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaultConfig 设置默认配置值
func setDefaultConfig() {
	ensureSection("Database")
	ensureSection("APIServer")
	ensureSection("JWT")
	ensureSection("Logging")
	ensureSection("Service")
	ensureSection("DNS")
	ensureSection("DHCP")
	ensureSection("HTTPD")

	setDefault("Database", "DB_PATH", "steadyops.db")
	setDefault("APIServer", "API_SERVER_PORT", "8090")
	setDefault("APIServer", "API_SERVER_IP_ADDR", "0.0.0.0")
	setDefault("APIServer", "GIN_MODE", "release")
	setDefault("JWT", "JWT_SECRET_KEY", "your-default-jwt-secret-key-change-this-in-production")
	setDefault("JWT", "ACCESS_TOKEN_EXPIRATION", "30")
	setDefault("JWT", "REFRESH_TOKEN_EXPIRATION", "7")
	setDefault("Logging", "LOG_LEVEL", "INFO")
	setDefault("Service", "SYSTEMCTL_PATH", "systemctl")
	setDefault("Service", "EXEC_TIMEOUT_SECONDS", "10")
	setDefault("Service", "SETTLE_DELAY_SECONDS", "1")
	setDefault("Service", "SETTLE_RETRIES", "2")
	setDefault("Service", "DNS_SERVICE", "named")
	setDefault("Service", "DHCP_SERVICE", "dhcpd")
	setDefault("Service", "HTTPD_SERVICE", "httpd")
	setDefault("DNS", "ZONE_FILE_PATH", "/var/named")
	setDefault("DNS", "NAMED_CONF_PATH", "/etc/named")
	setDefault("DNS", "NAMED_CHECKCONF", "named-checkconf")
	setDefault("DNS", "NAMED_CHECKZONE", "named-checkzone")
	setDefault("DNS", "DEFAULT_TTL", "3600")
	setDefault("DNS", "PRIMARY_NS", "ns1.example.com")
	setDefault("DNS", "ADMIN_EMAIL", "admin.example.com")
	setDefault("DHCP", "DHCPD_CONF_PATH", "/etc/dhcp")
	setDefault("DHCP", "DHCPD_EXEC", "dhcpd")
	setDefault("HTTPD", "HTTPD_CONF_PATH", "/etc/httpd/conf")
	setDefault("HTTPD", "HTTPD_EXEC", "httpd")
}

// ensureSection 确保节存在
func ensureSection(section string) {
	if globalConfig == nil {
		globalConfig = &Config{
			sections: make(map[string]map[string]string),
		}
	}

	if _, exists := globalConfig.sections[section]; !exists {
		globalConfig.sections[section] = make(map[string]string)
	}
}

// setDefault 设置默认值（如果不存在）
func setDefault(section, key, defaultValue string) {
	// 环境变量优先
	if envValue := os.Getenv(strings.ToUpper(key)); envValue != "" {
		globalConfig.sections[section][key] = envValue
		return
	}

	if _, exists := globalConfig.sections[section][key]; !exists {
		globalConfig.sections[section][key] = defaultValue
	}
}

// GetConfig 获取配置值
func GetConfig(section, key string) string {
	// 环境变量优先
	if envValue := os.Getenv(strings.ToUpper(key)); envValue != "" {
		return envValue
	}

	if globalConfig != nil {
		if sectionMap, exists := globalConfig.sections[section]; exists {
			if value, exists := sectionMap[key]; exists {
				return value
			}
		}
	}

	return ""
}

// GetConfigInt 获取整数类型的配置值
func GetConfigInt(section, key string, defaultVal int) int {
	value := GetConfig(section, key)
	if value == "" {
		return defaultVal
	}

	intVal := 0
	if _, err := fmt.Sscanf(value, "%d", &intVal); err != nil {
		return defaultVal
	}
	return intVal
}

// GetConfigBool 获取布尔类型的配置值
func GetConfigBool(section, key string, defaultVal bool) bool {
	value := GetConfig(section, key)
	if value == "" {
		return defaultVal
	}

	boolVal := defaultVal
	if _, err := fmt.Sscanf(value, "%t", &boolVal); err != nil {
		return defaultVal
	}
	return boolVal
}

// UpdateConfig 更新配置值（仅内存，不落盘）
func UpdateConfig(section, key, value string) {
	if globalConfig == nil {
		LoadConfig()
	}
	ensureSection(section)
	globalConfig.sections[section][key] = value
}

// GetSectionConfig 获取指定节的配置副本
func GetSectionConfig(section string) map[string]string {
	if globalConfig == nil {
		LoadConfig()
	}

	sectionCopy := make(map[string]string)
	if sectionMap, exists := globalConfig.sections[section]; exists {
		for key, value := range sectionMap {
			sectionCopy[key] = value
		}
	}
	return sectionCopy
}

// ReloadConfig 重载配置
func ReloadConfig() {
	LoadConfig()
}
