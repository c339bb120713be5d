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

// core/dhcp/schema.go
// DHCP配置结构校验

package dhcp

import (
	"fmt"
	"net"
	"regexp"

	mdns "github.com/miekg/dns"

	"SteadyOps/core/confgen"
)

// macPattern 冒号分隔的六组十六进制MAC地址
var macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)

// Validate 校验并规范化DHCP配置
// 纯函数，错误带字段定位全量累积返回
func Validate(cfg *Configuration) []confgen.FieldError {
	var errs []confgen.FieldError

	if cfg.DefaultLeaseTime == 0 {
		cfg.DefaultLeaseTime = DefaultLeaseTime
	}
	if cfg.MaxLeaseTime == 0 {
		cfg.MaxLeaseTime = DefaultMaxLease
	}
	if cfg.DefaultLeaseTime < 0 {
		errs = append(errs, confgen.FieldError{Path: "defaultLeaseTime", Message: "默认租约时间必须为正整数"})
	}
	if cfg.MaxLeaseTime < 0 {
		errs = append(errs, confgen.FieldError{Path: "maxLeaseTime", Message: "最大租约时间必须为正整数"})
	}

	if len(cfg.Subnets) == 0 {
		errs = append(errs, confgen.FieldError{Path: "subnets", Message: "至少需要一个网段"})
	}

	for i, opt := range cfg.Options {
		if opt.Name == "" {
			errs = append(errs, confgen.FieldError{Path: fmt.Sprintf("options[%d].name", i),
				Message: "option名称不能为空"})
		}
	}

	for i := range cfg.Subnets {
		errs = append(errs, validateSubnet(fmt.Sprintf("subnets[%d]", i), &cfg.Subnets[i])...)
	}

	for i := range cfg.Hosts {
		errs = append(errs, validateHost(fmt.Sprintf("hosts[%d]", i), &cfg.Hosts[i])...)
	}

	return errs
}

// validateSubnet 校验单个网段声明
func validateSubnet(prefix string, subnet *Subnet) []confgen.FieldError {
	var errs []confgen.FieldError

	checkIPv4 := func(path, value, label string, required bool) {
		if value == "" {
			if required {
				errs = append(errs, confgen.FieldError{Path: path,
					Message: fmt.Sprintf("%s不能为空", label)})
			}
			return
		}
		if !isIPv4(value) {
			errs = append(errs, confgen.FieldError{Path: path,
				Message: fmt.Sprintf("非法的IPv4地址: %s", value)})
		}
	}

	checkIPv4(prefix+".network", subnet.Network, "网段地址", true)
	checkIPv4(prefix+".netmask", subnet.Netmask, "子网掩码", true)
	checkIPv4(prefix+".rangeStart", subnet.RangeStart, "地址池起始地址", true)
	checkIPv4(prefix+".rangeEnd", subnet.RangeEnd, "地址池结束地址", true)

	for i, router := range subnet.Routers {
		checkIPv4(fmt.Sprintf("%s.routers[%d]", prefix, i), router, "网关地址", true)
	}
	for i, server := range subnet.DNSServers {
		checkIPv4(fmt.Sprintf("%s.dnsServers[%d]", prefix, i), server, "DNS服务器地址", true)
	}

	if subnet.DomainName != "" {
		if _, ok := mdns.IsDomainName(subnet.DomainName); !ok {
			errs = append(errs, confgen.FieldError{Path: prefix + ".domainName",
				Message: fmt.Sprintf("非法的域名: %s", subnet.DomainName)})
		}
	}

	return errs
}

// validateHost 校验单条静态绑定
// 空MAC/IP属残缺条目由渲染器跳过，已提供但格式非法的值在此报错
func validateHost(prefix string, host *HostReservation) []confgen.FieldError {
	var errs []confgen.FieldError

	if host.Hostname == "" {
		errs = append(errs, confgen.FieldError{Path: prefix + ".hostname", Message: "主机名不能为空"})
	} else if _, ok := mdns.IsDomainName(host.Hostname); !ok {
		errs = append(errs, confgen.FieldError{Path: prefix + ".hostname",
			Message: fmt.Sprintf("非法的主机名: %s", host.Hostname)})
	}

	if host.MACAddress != "" && !macPattern.MatchString(host.MACAddress) {
		errs = append(errs, confgen.FieldError{Path: prefix + ".macAddress",
			Message: fmt.Sprintf("非法的MAC地址: %s，应为 aa:bb:cc:dd:ee:ff 格式", host.MACAddress)})
	}
	if host.IPAddress != "" && !isIPv4(host.IPAddress) {
		errs = append(errs, confgen.FieldError{Path: prefix + ".ipAddress",
			Message: fmt.Sprintf("非法的IPv4地址: %s", host.IPAddress)})
	}

	return errs
}

// isIPv4 判断是否为合法IPv4地址
func isIPv4(value string) bool {
	ip := net.ParseIP(value)
	return ip != nil && ip.To4() != nil
}
