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

// core/dns/render.go
// 区域文件与named.conf渲染

package dns

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"SteadyOps/core/common"
	"SteadyOps/core/confgen"
)

// Renderer DNS配置渲染器
// 将校验后的配置对象确定性地渲染为BIND原生文本格式，
// 除序列号依赖时钟和现有文件内容外无任何副作用
type Renderer struct {
	logger *common.Logger
	cfg    ManagerConfig

	// now 可注入时钟，序列号生成的唯一时间依赖
	now func() time.Time

	// existingContent 读取现有区域文件内容用于同日序列号递增，
	// 文件不存在时返回空串
	existingContent func(path string) string
}

// NewRenderer 创建渲染器
func NewRenderer(cfg ManagerConfig) *Renderer {
	return &Renderer{
		logger: common.NewLogger(),
		cfg:    cfg,
		now:    time.Now,
		existingContent: func(path string) string {
			content, err := os.ReadFile(path)
			if err != nil {
				return ""
			}
			return string(content)
		},
	}
}

// zoneFileName 区域文件的规范文件名
// 落盘路径和named.conf.zones的file指令必须使用同一个值，
// 否则checkzone校验的文件和BIND实际加载的文件会不一致。
// 渲染层不信任上游校验，自行剥离路径成分和注入字符
func zoneFileName(zone *Zone) string {
	name := filepath.Base(confgen.Sanitize(zone.FileName))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		name = confgen.Sanitize(zone.Name) + ".zone"
	}
	return name
}

// Render 渲染完整DNS配置
// 产物：每个master区域一个区域文件，外加named.conf和区域包含配置
func (r *Renderer) Render(cfg *Configuration) []confgen.Artifact {
	artifacts := make([]confgen.Artifact, 0, len(cfg.Zones)+2)

	for i := range cfg.Zones {
		zone := &cfg.Zones[i]
		if zone.Kind != ZoneKindMaster {
			// slave/forward区域没有本地权威数据文件
			continue
		}

		zonePath := filepath.Join(r.cfg.ZoneFilePath, zoneFileName(zone))
		serial := nextSerial(r.existingContent(zonePath), r.now())
		artifacts = append(artifacts, confgen.Artifact{
			Path:    zonePath,
			Content: r.renderZoneFile(zone, cfg.TTL, serial),
		})
	}

	artifacts = append(artifacts, confgen.Artifact{
		Path:    filepath.Join(r.cfg.NamedConfPath, "named.conf"),
		Content: r.renderNamedConf(cfg),
	})
	artifacts = append(artifacts, confgen.Artifact{
		Path:    filepath.Join(r.cfg.NamedConfPath, "named.conf.zones"),
		Content: r.renderZoneInclude(cfg),
	})

	return artifacts
}

// renderZoneFile 渲染单个区域文件
// 输出顺序：$TTL、SOA、隐式NS（调用方未提供时）、用户记录按输入顺序
func (r *Renderer) renderZoneFile(zone *Zone, ttl int, serial string) string {
	var buffer bytes.Buffer

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	buffer.WriteString(fmt.Sprintf("$TTL %d\n", ttl))

	primaryNS := fqdn(confgen.Sanitize(r.cfg.PrimaryNS))
	adminEmail := fqdn(confgen.Sanitize(r.cfg.AdminEmail))

	buffer.WriteString(fmt.Sprintf("@ IN SOA %s %s (\n", primaryNS, adminEmail))
	buffer.WriteString(fmt.Sprintf("\t\t%s ; Serial\n", serial))
	buffer.WriteString(fmt.Sprintf("\t\t%d ; Refresh\n", SOARefresh))
	buffer.WriteString(fmt.Sprintf("\t\t%d ; Retry\n", SOARetry))
	buffer.WriteString(fmt.Sprintf("\t\t%d ; Expire\n", SOAExpire))
	buffer.WriteString(fmt.Sprintf("\t\t%d ; Minimum TTL\n", SOANegativeTTL))
	buffer.WriteString(")\n\n")

	// 调用方未提供NS记录时补一条指向主名称服务器的隐式NS
	hasNS := false
	for i := range zone.Records {
		if zone.Records[i].Type == TypeNS {
			hasNS = true
			break
		}
	}
	if !hasNS {
		buffer.WriteString(fmt.Sprintf("@ IN NS %s\n", primaryNS))
	}

	for i := range zone.Records {
		line, ok := r.renderRecord(zone, &zone.Records[i])
		if !ok {
			continue
		}
		buffer.WriteString(line + "\n")
	}

	return buffer.String()
}

// renderRecord 渲染单条资源记录
// 残缺记录（缺值、MX缺优先级、SRV缺优先级/权重/端口）跳过并告警，
// 单条坏记录不中止整个区域的渲染
func (r *Renderer) renderRecord(zone *Zone, record *Record) (string, bool) {
	name := confgen.Sanitize(record.Name)
	if name == "" {
		name = "@"
	}

	value := confgen.Sanitize(record.Value)
	if record.Type == TypeTXT {
		value = confgen.SanitizeText(record.Value)
	}
	if value == "" {
		r.logger.Warn("跳过残缺记录: 区域 %s 的 %s 记录 %s 缺少值", zone.Name, record.Type, name)
		return "", false
	}

	prefix := name
	if record.TTL > 0 {
		prefix = fmt.Sprintf("%s %d", name, record.TTL)
	}

	switch record.Type {
	case TypeA, TypeAAAA:
		return fmt.Sprintf("%s IN %s %s", prefix, record.Type, value), true

	case TypeCNAME, TypeNS, TypePTR:
		return fmt.Sprintf("%s IN %s %s", prefix, record.Type, fqdn(value)), true

	case TypeMX:
		if record.Priority == nil {
			r.logger.Warn("跳过残缺记录: 区域 %s 的MX记录 %s 缺少优先级", zone.Name, name)
			return "", false
		}
		return fmt.Sprintf("%s IN MX %d %s", prefix, *record.Priority, fqdn(value)), true

	case TypeSRV:
		if record.Priority == nil || record.Weight == nil || record.Port == nil {
			r.logger.Warn("跳过残缺记录: 区域 %s 的SRV记录 %s 缺少优先级/权重/端口", zone.Name, name)
			return "", false
		}
		return fmt.Sprintf("%s IN SRV %d %d %d %s",
			prefix, *record.Priority, *record.Weight, *record.Port, fqdn(value)), true

	case TypeTXT:
		escaped := strings.ReplaceAll(value, `"`, `\"`)
		return fmt.Sprintf("%s IN TXT \"%s\"", prefix, escaped), true
	}

	r.logger.Warn("跳过不支持的记录类型: 区域 %s 的 %s 记录", zone.Name, record.Type)
	return "", false
}

// renderNamedConf 渲染named.conf主配置
func (r *Renderer) renderNamedConf(cfg *Configuration) string {
	var buffer bytes.Buffer

	buffer.WriteString("options {\n")
	buffer.WriteString(fmt.Sprintf("    directory \"%s\";\n", confgen.Sanitize(r.cfg.ZoneFilePath)))

	if len(cfg.Options.ListenOn) > 0 {
		buffer.WriteString(fmt.Sprintf("    listen-on port 53 { %s };\n", renderAddressList(cfg.Options.ListenOn)))
	}

	allowQuery := cfg.Options.AllowQuery
	if len(allowQuery) == 0 {
		allowQuery = confgen.StringList{"any"}
	}
	buffer.WriteString(fmt.Sprintf("    allow-query { %s };\n", renderAddressList(allowQuery)))

	if len(cfg.Options.Forwarders) > 0 {
		buffer.WriteString(fmt.Sprintf("    forwarders { %s };\n", renderAddressList(cfg.Options.Forwarders)))
	}

	recursion := "no"
	if cfg.Options.Recursion {
		recursion = "yes"
	}
	buffer.WriteString(fmt.Sprintf("    recursion %s;\n", recursion))
	buffer.WriteString("};\n\n")

	includePath := filepath.Join(r.cfg.NamedConfPath, "named.conf.zones")
	buffer.WriteString(fmt.Sprintf("include \"%s\";\n", includePath))

	return buffer.String()
}

// renderZoneInclude 渲染区域包含配置named.conf.zones
func (r *Renderer) renderZoneInclude(cfg *Configuration) string {
	var buffer bytes.Buffer

	for i := range cfg.Zones {
		zone := &cfg.Zones[i]
		name := confgen.Sanitize(zone.Name)

		buffer.WriteString(fmt.Sprintf("zone \"%s\" IN {\n", name))

		switch zone.Kind {
		case ZoneKindSlave:
			buffer.WriteString("    type slave;\n")
			buffer.WriteString(fmt.Sprintf("    file \"%s\";\n", zoneFileName(zone)))
			buffer.WriteString(fmt.Sprintf("    masters { %s };\n", renderAddressList(zone.Masters)))

		case ZoneKindForward:
			buffer.WriteString("    type forward;\n")
			buffer.WriteString("    forward only;\n")
			buffer.WriteString(fmt.Sprintf("    forwarders { %s };\n", renderAddressList(zone.Forwarders)))

		default:
			buffer.WriteString("    type master;\n")
			buffer.WriteString(fmt.Sprintf("    file \"%s\";\n", zoneFileName(zone)))
			allowUpdate := zone.AllowUpdate
			if len(allowUpdate) == 0 {
				allowUpdate = confgen.StringList{"none"}
			}
			buffer.WriteString(fmt.Sprintf("    allow-update { %s };\n", renderAddressList(allowUpdate)))
		}

		buffer.WriteString("};\n\n")
	}

	return buffer.String()
}

// renderAddressList 渲染BIND地址匹配列表主体
func renderAddressList(addrs []string) string {
	parts := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		addr = confgen.Sanitize(addr)
		if addr != "" {
			parts = append(parts, addr+";")
		}
	}
	return strings.Join(parts, " ")
}
