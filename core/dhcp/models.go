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

// core/dhcp/models.go
// DHCP配置数据结构定义

package dhcp

import (
	"SteadyOps/core/confgen"
)

// 租约时间默认值（秒）
const (
	DefaultLeaseTime = 600
	DefaultMaxLease  = 7200
)

// Configuration DHCP服务完整配置
type Configuration struct {
	Enabled          bool              `json:"enabled"`
	Authoritative    bool              `json:"authoritative,omitempty"`
	DefaultLeaseTime int               `json:"defaultLeaseTime,omitempty"`
	MaxLeaseTime     int               `json:"maxLeaseTime,omitempty"`
	Options          []GlobalOption    `json:"options,omitempty"`
	Subnets          []Subnet          `json:"subnets"`
	Hosts            []HostReservation `json:"hosts,omitempty"`
}

// GlobalOption dhcpd.conf全局option指令
type GlobalOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Subnet 一个受管网段的地址池声明
type Subnet struct {
	Network    string             `json:"network"`
	Netmask    string             `json:"netmask"`
	RangeStart string             `json:"rangeStart"`
	RangeEnd   string             `json:"rangeEnd"`
	Routers    confgen.StringList `json:"routers,omitempty"`
	DNSServers confgen.StringList `json:"dnsServers,omitempty"`
	DomainName string             `json:"domainName,omitempty"`
}

// HostReservation MAC地址到固定IP的静态绑定
// 缺MAC或IP的条目视为残缺，由渲染器跳过并告警
type HostReservation struct {
	Hostname   string `json:"hostname"`
	MACAddress string `json:"macAddress"`
	IPAddress  string `json:"ipAddress"`
}

// ManagerConfig DHCP管理器配置
type ManagerConfig struct {
	ConfPath  string
	DhcpdExec string
	ServiceID string
}
