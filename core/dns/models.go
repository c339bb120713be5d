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

// core/dns/models.go
// DNS配置数据结构定义

package dns

import (
	"SteadyOps/core/confgen"
)

// 区域类型常量
const (
	ZoneKindMaster  = "master"
	ZoneKindSlave   = "slave"
	ZoneKindForward = "forward"
)

// 支持的记录类型
const (
	TypeA     = "A"
	TypeAAAA  = "AAAA"
	TypeCNAME = "CNAME"
	TypeMX    = "MX"
	TypeTXT   = "TXT"
	TypeNS    = "NS"
	TypePTR   = "PTR"
	TypeSRV   = "SRV"
)

// SOA固定参数（秒）
const (
	SOARefresh     = 3600
	SOARetry       = 1800
	SOAExpire      = 604800
	SOANegativeTTL = 86400
)

// DefaultTTL 默认区域TTL（秒）
const DefaultTTL = 3600

// Configuration DNS服务完整配置
// 一次应用请求提交的根对象，每次应用都是渲染产物的整体替换
type Configuration struct {
	Enabled bool    `json:"enabled"`
	TTL     int     `json:"ttl,omitempty"`
	Options Options `json:"options"`
	Zones   []Zone  `json:"zones"`
}

// Options named.conf全局选项
type Options struct {
	ListenOn   confgen.StringList `json:"listenOn,omitempty"`
	AllowQuery confgen.StringList `json:"allowQuery,omitempty"`
	Forwarders confgen.StringList `json:"forwarders,omitempty"`
	Recursion  bool               `json:"recursion,omitempty"`
}

// Zone 权威区域
// FileName在整个配置内唯一，作为落盘产物文件名；为空时由校验器
// 默认为 <name>.zone
type Zone struct {
	Name        string             `json:"name"`
	Kind        string             `json:"kind,omitempty"`
	FileName    string             `json:"fileName,omitempty"`
	AllowUpdate confgen.StringList `json:"allowUpdate,omitempty"`
	Masters     confgen.StringList `json:"masters,omitempty"`
	Forwarders  confgen.StringList `json:"forwarders,omitempty"`
	Records     []Record           `json:"records,omitempty"`
}

// Record DNS资源记录
// 按Type区分的带标签联合：MX需要Priority，SRV需要Priority/Weight/Port，
// SRV的目标统一放在Value字段。数值字段用指针区分"未提供"和零值，
// 缺失必需字段的记录视为残缺记录，由渲染器跳过并告警，不中止整体渲染
type Record struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Value    string `json:"value"`
	TTL      int    `json:"ttl,omitempty"`
	Priority *int   `json:"priority,omitempty"`
	Weight   *int   `json:"weight,omitempty"`
	Port     *int   `json:"port,omitempty"`
}

// ManagerConfig DNS管理器配置
// 显式结构体在管理器间传递，而不是模块级常量，便于测试按用例注入
type ManagerConfig struct {
	ZoneFilePath   string
	NamedConfPath  string
	NamedCheckConf string
	NamedCheckZone string
	DefaultTTL     int
	PrimaryNS      string
	AdminEmail     string
	ServiceID      string
}
