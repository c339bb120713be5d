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

// core/dhcp/render.go
// dhcpd.conf渲染

package dhcp

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"SteadyOps/core/common"
	"SteadyOps/core/confgen"
)

// Renderer DHCP配置渲染器，输出单个dhcpd.conf产物
type Renderer struct {
	logger *common.Logger
	cfg    ManagerConfig
}

// NewRenderer 创建渲染器
func NewRenderer(cfg ManagerConfig) *Renderer {
	return &Renderer{
		logger: common.NewLogger(),
		cfg:    cfg,
	}
}

// Render 渲染完整DHCP配置
// 输出顺序：全局指令、全局option、网段声明、静态绑定，均按输入顺序
func (r *Renderer) Render(cfg *Configuration) []confgen.Artifact {
	var buffer bytes.Buffer

	buffer.WriteString(fmt.Sprintf("default-lease-time %d;\n", cfg.DefaultLeaseTime))
	buffer.WriteString(fmt.Sprintf("max-lease-time %d;\n", cfg.MaxLeaseTime))
	if cfg.Authoritative {
		buffer.WriteString("authoritative;\n")
	}
	buffer.WriteString("\n")

	for _, opt := range cfg.Options {
		name := confgen.Sanitize(opt.Name)
		value := confgen.Sanitize(opt.Value)
		if name == "" {
			continue
		}
		buffer.WriteString(fmt.Sprintf("option %s %s;\n", name, value))
	}
	if len(cfg.Options) > 0 {
		buffer.WriteString("\n")
	}

	for i := range cfg.Subnets {
		r.renderSubnet(&buffer, &cfg.Subnets[i])
	}

	for i := range cfg.Hosts {
		r.renderHost(&buffer, &cfg.Hosts[i])
	}

	return []confgen.Artifact{{
		Path:    filepath.Join(r.cfg.ConfPath, "dhcpd.conf"),
		Content: buffer.String(),
	}}
}

// renderSubnet 渲染单个subnet声明块
func (r *Renderer) renderSubnet(buffer *bytes.Buffer, subnet *Subnet) {
	buffer.WriteString(fmt.Sprintf("subnet %s netmask %s {\n",
		confgen.Sanitize(subnet.Network), confgen.Sanitize(subnet.Netmask)))
	buffer.WriteString(fmt.Sprintf("    range %s %s;\n",
		confgen.Sanitize(subnet.RangeStart), confgen.Sanitize(subnet.RangeEnd)))

	if len(subnet.Routers) > 0 {
		buffer.WriteString(fmt.Sprintf("    option routers %s;\n", joinAddresses(subnet.Routers)))
	}
	if len(subnet.DNSServers) > 0 {
		buffer.WriteString(fmt.Sprintf("    option domain-name-servers %s;\n", joinAddresses(subnet.DNSServers)))
	}
	if subnet.DomainName != "" {
		buffer.WriteString(fmt.Sprintf("    option domain-name \"%s\";\n", confgen.Sanitize(subnet.DomainName)))
	}

	buffer.WriteString("}\n\n")
}

// renderHost 渲染单条静态绑定
// 缺MAC或IP的条目跳过并告警，单条残缺绑定不中止整体渲染
func (r *Renderer) renderHost(buffer *bytes.Buffer, host *HostReservation) {
	hostname := confgen.Sanitize(host.Hostname)
	if hostname == "" {
		r.logger.Warn("跳过残缺静态绑定: 缺少主机名")
		return
	}
	if host.MACAddress == "" || host.IPAddress == "" {
		r.logger.Warn("跳过残缺静态绑定: 主机 %s 缺少MAC或IP地址", hostname)
		return
	}

	buffer.WriteString(fmt.Sprintf("host %s {\n", hostname))
	buffer.WriteString(fmt.Sprintf("    hardware ethernet %s;\n", confgen.Sanitize(host.MACAddress)))
	buffer.WriteString(fmt.Sprintf("    fixed-address %s;\n", confgen.Sanitize(host.IPAddress)))
	buffer.WriteString("}\n\n")
}

// joinAddresses 渲染逗号分隔的地址列表
func joinAddresses(addrs []string) string {
	parts := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		addr = confgen.Sanitize(addr)
		if addr != "" {
			parts = append(parts, addr)
		}
	}
	return strings.Join(parts, ", ")
}
