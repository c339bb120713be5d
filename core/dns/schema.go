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

// core/dns/schema.go
// DNS配置结构校验

package dns

import (
	"fmt"
	"net"
	"strings"

	mdns "github.com/miekg/dns"

	"SteadyOps/core/confgen"
)

// validZoneKinds 合法区域类型
var validZoneKinds = map[string]bool{
	ZoneKindMaster:  true,
	ZoneKindSlave:   true,
	ZoneKindForward: true,
}

// validRecordTypes 合法记录类型
var validRecordTypes = map[string]bool{
	TypeA:     true,
	TypeAAAA:  true,
	TypeCNAME: true,
	TypeMX:    true,
	TypeTXT:   true,
	TypeNS:    true,
	TypePTR:   true,
	TypeSRV:   true,
}

// Validate 校验并规范化DNS配置
// 纯函数，无任何I/O。所有错误带字段定位全量累积返回，
// 供前端表单逐字段高亮，而不是首错即返
func Validate(cfg *Configuration) []confgen.FieldError {
	var errs []confgen.FieldError

	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.TTL < 0 {
		errs = append(errs, confgen.FieldError{Path: "ttl", Message: "TTL必须为正整数"})
	}

	if len(cfg.Zones) == 0 {
		errs = append(errs, confgen.FieldError{Path: "zones", Message: "至少需要一个区域"})
	}

	errs = append(errs, validateAddressList("options.listenOn", cfg.Options.ListenOn)...)
	errs = append(errs, validateAddressList("options.allowQuery", cfg.Options.AllowQuery)...)
	errs = append(errs, validateAddressList("options.forwarders", cfg.Options.Forwarders)...)

	seenFiles := make(map[string]int)
	for i := range cfg.Zones {
		zone := &cfg.Zones[i]
		prefix := fmt.Sprintf("zones[%d]", i)

		if zone.Name == "" {
			errs = append(errs, confgen.FieldError{Path: prefix + ".name", Message: "区域名不能为空"})
		} else if !isDomainName(zone.Name) {
			errs = append(errs, confgen.FieldError{Path: prefix + ".name",
				Message: fmt.Sprintf("非法的域名: %s", zone.Name)})
		}

		if zone.Kind == "" {
			zone.Kind = ZoneKindMaster
		}
		if !validZoneKinds[zone.Kind] {
			errs = append(errs, confgen.FieldError{Path: prefix + ".kind",
				Message: fmt.Sprintf("非法的区域类型: %s，应为 master/slave/forward", zone.Kind)})
		}

		if zone.FileName == "" && zone.Name != "" {
			zone.FileName = zone.Name + ".zone"
		}
		if zone.FileName != "" {
			if !isSafeFileName(zone.FileName) {
				errs = append(errs, confgen.FieldError{Path: prefix + ".fileName",
					Message: fmt.Sprintf("非法的区域文件名: %s，只允许不含路径和特殊字符的纯文件名", zone.FileName)})
			} else if prev, dup := seenFiles[zone.FileName]; dup {
				errs = append(errs, confgen.FieldError{Path: prefix + ".fileName",
					Message: fmt.Sprintf("区域文件名与 zones[%d] 重复: %s", prev, zone.FileName)})
			} else {
				seenFiles[zone.FileName] = i
			}
		}

		switch zone.Kind {
		case ZoneKindSlave:
			if len(zone.Masters) == 0 {
				errs = append(errs, confgen.FieldError{Path: prefix + ".masters",
					Message: "slave区域必须指定主服务器地址"})
			}
			errs = append(errs, validateAddressList(prefix+".masters", zone.Masters)...)
		case ZoneKindForward:
			if len(zone.Forwarders) == 0 {
				errs = append(errs, confgen.FieldError{Path: prefix + ".forwarders",
					Message: "forward区域必须指定转发服务器地址"})
			}
			errs = append(errs, validateAddressList(prefix+".forwarders", zone.Forwarders)...)
		}

		for j := range zone.Records {
			errs = append(errs, validateRecord(fmt.Sprintf("%s.records[%d]", prefix, j), &zone.Records[j])...)
		}
	}

	return errs
}

// validateRecord 校验并规范化单条记录
// 只对"已提供但非法"的值报错；MX/SRV缺失必需数值字段属于残缺记录，
// 由渲染器按跳过并告警的策略处理，不在此阻断整个配置
func validateRecord(prefix string, record *Record) []confgen.FieldError {
	var errs []confgen.FieldError

	if record.Name == "" {
		// 空名称默认为区域顶点
		record.Name = "@"
	}

	record.Type = strings.ToUpper(strings.TrimSpace(record.Type))
	if !validRecordTypes[record.Type] {
		errs = append(errs, confgen.FieldError{Path: prefix + ".type",
			Message: fmt.Sprintf("不支持的记录类型: %s", record.Type)})
		return errs
	}

	if record.Name != "@" && !isDomainName(record.Name) {
		errs = append(errs, confgen.FieldError{Path: prefix + ".name",
			Message: fmt.Sprintf("非法的记录名: %s", record.Name)})
	}

	if record.TTL < 0 {
		errs = append(errs, confgen.FieldError{Path: prefix + ".ttl", Message: "TTL必须为正整数"})
	}

	if record.Value == "" {
		// 空值记录由渲染器跳过
		return errs
	}

	switch record.Type {
	case TypeA:
		ip := net.ParseIP(record.Value)
		if ip == nil || ip.To4() == nil {
			errs = append(errs, confgen.FieldError{Path: prefix + ".value",
				Message: fmt.Sprintf("非法的IPv4地址: %s", record.Value)})
		}
	case TypeAAAA:
		ip := net.ParseIP(record.Value)
		if ip == nil || ip.To4() != nil {
			errs = append(errs, confgen.FieldError{Path: prefix + ".value",
				Message: fmt.Sprintf("非法的IPv6地址: %s", record.Value)})
		}
	case TypeCNAME, TypeNS, TypePTR, TypeMX, TypeSRV:
		if record.Value != "@" && !isDomainName(record.Value) {
			errs = append(errs, confgen.FieldError{Path: prefix + ".value",
				Message: fmt.Sprintf("非法的域名: %s", record.Value)})
		}
	}

	if record.Priority != nil && *record.Priority < 0 {
		errs = append(errs, confgen.FieldError{Path: prefix + ".priority", Message: "优先级必须为非负整数"})
	}
	if record.Weight != nil && *record.Weight < 0 {
		errs = append(errs, confgen.FieldError{Path: prefix + ".weight", Message: "权重必须为非负整数"})
	}
	if record.Port != nil && (*record.Port < 1 || *record.Port > 65535) {
		errs = append(errs, confgen.FieldError{Path: prefix + ".port", Message: "端口必须在1-65535之间"})
	}

	return errs
}

// validateAddressList 校验地址列表（IP地址或ACL关键字）
func validateAddressList(prefix string, addrs []string) []confgen.FieldError {
	var errs []confgen.FieldError
	for i, addr := range addrs {
		if isACLKeyword(addr) {
			continue
		}
		if net.ParseIP(addr) == nil {
			errs = append(errs, confgen.FieldError{Path: fmt.Sprintf("%s[%d]", prefix, i),
				Message: fmt.Sprintf("非法的地址: %s", addr)})
		}
	}
	return errs
}

// isSafeFileName 判断是否为不含路径成分和注入字符的纯文件名
// 区域文件名既拼入区域目录的落盘路径又写进named.conf.zones的file指令，
// 路径分隔符或遍历成分会让产物逃出区域目录
func isSafeFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return name == confgen.Sanitize(name)
}

// isACLKeyword 判断是否为BIND内置ACL关键字
func isACLKeyword(value string) bool {
	switch value {
	case "any", "none", "localhost", "localnets":
		return true
	}
	return false
}

// isDomainName 判断是否为合法域名
func isDomainName(name string) bool {
	_, ok := mdns.IsDomainName(name)
	return ok
}

// fqdn 规范化为带尾点的完全限定域名，区域相对标记@原样保留
func fqdn(value string) string {
	if value == "" || value == "@" {
		return value
	}
	if mdns.IsFqdn(value) {
		return value
	}
	return mdns.Fqdn(value)
}
