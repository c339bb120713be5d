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
// core/dns/render_test.go
// DNS配置渲染测试

package dns

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// newTestRenderer 创建固定时钟、无现有文件的测试渲染器
func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r := NewRenderer(ManagerConfig{
		ZoneFilePath:  "/var/named",
		NamedConfPath: "/etc/named",
		PrimaryNS:     "ns1.example.com",
		AdminEmail:    "admin.example.com",
		ServiceID:     "named",
	})
	r.now = func() time.Time { return testClock }
	r.existingContent = func(string) string { return "" }
	return r
}

// validatedConfig 校验并返回配置，校验失败直接中止测试
func validatedConfig(t *testing.T, cfg *Configuration) *Configuration {
	t.Helper()
	if errs := Validate(cfg); len(errs) != 0 {
		t.Fatalf("测试配置未通过校验: %v", errs)
	}
	return cfg
}

// findArtifact 按路径后缀查找渲染产物
func findArtifact(t *testing.T, r *Renderer, cfg *Configuration, suffix string) string {
	t.Helper()
	for _, a := range r.Render(cfg) {
		if strings.HasSuffix(a.Path, suffix) {
			return a.Content
		}
	}
	t.Fatalf("未找到产物: %s", suffix)
	return ""
}

// TestRenderZoneFile 测试区域文件渲染
func TestRenderZoneFile(t *testing.T) {
	r := newTestRenderer(t)
	cfg := validatedConfig(t, &Configuration{
		Zones: []Zone{
			{Name: "example.com", Records: []Record{
				{Type: "A", Name: "@", Value: "192.168.1.100"},
				{Type: "A", Name: "www", Value: "192.168.1.101", TTL: 600},
				{Type: "CNAME", Name: "ftp", Value: "www.example.com"},
				{Type: "MX", Name: "@", Value: "mail.example.com", Priority: intPtr(10)},
				{Type: "TXT", Name: "@", Value: "v=spf1 mx -all"},
			}},
		},
	})

	content := findArtifact(t, r, cfg, "example.com.zone")
	lines := strings.Split(content, "\n")

	if lines[0] != "$TTL 3600" {
		t.Errorf("首行应为$TTL指令, got %q", lines[0])
	}
	if !strings.Contains(content, "@ IN SOA ns1.example.com. admin.example.com. (") {
		t.Errorf("缺少SOA记录:\n%s", content)
	}
	if !strings.Contains(content, "2026082501 ; Serial") {
		t.Errorf("序列号应为当日首个 2026082501:\n%s", content)
	}
	if !strings.Contains(content, "@ IN NS ns1.example.com.") {
		t.Errorf("未提供NS时应补隐式NS记录:\n%s", content)
	}
	if !strings.Contains(content, "@ IN A 192.168.1.100") {
		t.Errorf("缺少A记录:\n%s", content)
	}
	if !strings.Contains(content, "www 600 IN A 192.168.1.101") {
		t.Errorf("带TTL的记录应渲染TTL列:\n%s", content)
	}
	if !strings.Contains(content, "ftp IN CNAME www.example.com.") {
		t.Errorf("CNAME值应带尾点:\n%s", content)
	}
	if !strings.Contains(content, "@ IN MX 10 mail.example.com.") {
		t.Errorf("MX应带优先级和尾点:\n%s", content)
	}
	if !strings.Contains(content, "@ IN TXT \"v=spf1 mx -all\"") {
		t.Errorf("TXT值应加引号:\n%s", content)
	}

	// 用户记录保持输入顺序
	apexIdx := strings.Index(content, "@ IN A ")
	wwwIdx := strings.Index(content, "www 600 IN A ")
	if apexIdx > wwwIdx {
		t.Errorf("记录未保持输入顺序")
	}
}

// TestRenderSerialBump 测试同日重复渲染递增序列号
func TestRenderSerialBump(t *testing.T) {
	r := newTestRenderer(t)
	r.existingContent = func(string) string {
		return "\t\t2026082501 ; Serial\n"
	}

	cfg := validatedConfig(t, &Configuration{
		Zones: []Zone{{Name: "example.com", Records: []Record{
			{Type: "A", Name: "@", Value: "192.168.1.100"},
		}}},
	})

	content := findArtifact(t, r, cfg, "example.com.zone")
	if !strings.Contains(content, "2026082502 ; Serial") {
		t.Errorf("同日重复应用应递增序列号:\n%s", content)
	}
}

// TestRenderSkipsMalformedRecords 测试残缺记录跳过且不影响其余记录
func TestRenderSkipsMalformedRecords(t *testing.T) {
	r := newTestRenderer(t)
	cfg := validatedConfig(t, &Configuration{
		Zones: []Zone{{Name: "example.com", Records: []Record{
			{Type: "MX", Name: "@", Value: "mail.example.com"}, // 缺优先级
			{Type: "SRV", Name: "_sip._tcp", Value: "sip.example.com", Priority: intPtr(10)}, // 缺权重端口
			{Type: "A", Name: "www", Value: ""}, // 缺值
			{Type: "A", Name: "@", Value: "192.168.1.100"},
		}}},
	})

	content := findArtifact(t, r, cfg, "example.com.zone")
	if strings.Contains(content, "MX") {
		t.Errorf("缺优先级的MX记录应被跳过:\n%s", content)
	}
	if strings.Contains(content, "SRV") {
		t.Errorf("残缺SRV记录应被跳过:\n%s", content)
	}
	if !strings.Contains(content, "@ IN A 192.168.1.100") {
		t.Errorf("完整记录应正常渲染:\n%s", content)
	}
}

// TestRenderSRVRecord 测试SRV记录渲染
func TestRenderSRVRecord(t *testing.T) {
	r := newTestRenderer(t)
	cfg := validatedConfig(t, &Configuration{
		Zones: []Zone{{Name: "example.com", Records: []Record{
			{Type: "SRV", Name: "_sip._tcp", Value: "sipserver.example.com",
				Priority: intPtr(10), Weight: intPtr(60), Port: intPtr(5060)},
		}}},
	})

	content := findArtifact(t, r, cfg, "example.com.zone")
	if !strings.Contains(content, "_sip._tcp IN SRV 10 60 5060 sipserver.example.com.") {
		t.Errorf("SRV记录渲染不符:\n%s", content)
	}
}

// TestRenderTXTEscaping 测试TXT值引号转义与分号保留
func TestRenderTXTEscaping(t *testing.T) {
	r := newTestRenderer(t)
	cfg := validatedConfig(t, &Configuration{
		Zones: []Zone{{Name: "example.com", Records: []Record{
			{Type: "TXT", Name: "_dmarc", Value: `v=DMARC1; p=none`},
			{Type: "TXT", Name: "quoted", Value: `say "hello"`},
		}}},
	})

	content := findArtifact(t, r, cfg, "example.com.zone")
	if !strings.Contains(content, `_dmarc IN TXT "v=DMARC1; p=none"`) {
		t.Errorf("TXT引号内的分号应保留:\n%s", content)
	}
	if !strings.Contains(content, `quoted IN TXT "say \"hello\""`) {
		t.Errorf("TXT内嵌引号应转义:\n%s", content)
	}
}

// TestRenderInjectionSafety 测试恶意输入不进入生成文本
func TestRenderInjectionSafety(t *testing.T) {
	r := newTestRenderer(t)
	cfg := &Configuration{
		Zones: []Zone{{Name: "example.com", FileName: "example.com.zone",
			Kind: ZoneKindMaster,
			Records: []Record{
				{Type: "TXT", Name: "evil", Value: "<script>alert(1)</script>`reboot`"},
				{Type: "A", Name: "host$(reboot)", Value: "10.0.0.1"},
			}}},
	}

	content := findArtifact(t, r, cfg, "example.com.zone")
	for _, forbidden := range []string{"`", "<", ">"} {
		if strings.Contains(content, forbidden) {
			t.Errorf("生成文本不应包含 %q:\n%s", forbidden, content)
		}
	}
	// 非引号上下文的shell元字符一并剔除
	if !strings.Contains(content, "host(reboot) IN A 10.0.0.1") {
		t.Errorf("记录名中的$应被剔除:\n%s", content)
	}
}

// TestRenderZoneFileNameConfinement 测试区域文件名不越出区域目录，
// 且落盘文件名与file指令使用同一个值
func TestRenderZoneFileNameConfinement(t *testing.T) {
	r := newTestRenderer(t)
	// 绕过Validate直接渲染，文件名携带遍历成分和shell元字符
	cfg := &Configuration{
		Zones: []Zone{
			{Name: "example.com", Kind: ZoneKindMaster,
				FileName: "../../../etc/cron.d/evil",
				Records:  []Record{{Type: "A", Name: "@", Value: "10.0.0.1"}}},
			{Name: "other.example.com", Kind: ZoneKindMaster,
				FileName: "db$other.zone",
				Records:  []Record{{Type: "A", Name: "@", Value: "10.0.0.2"}}},
		},
	}

	include := findArtifact(t, r, cfg, "named.conf.zones")

	for _, a := range r.Render(cfg) {
		if !strings.HasPrefix(a.Path, "/var/named/") && !strings.HasPrefix(a.Path, "/etc/named/") {
			t.Errorf("产物路径越出受管目录: %s", a.Path)
		}
		if strings.Contains(a.Path, "..") {
			t.Errorf("产物路径包含遍历成分: %s", a.Path)
		}
		if strings.HasPrefix(a.Path, "/var/named/") {
			directive := fmt.Sprintf("file \"%s\";", filepath.Base(a.Path))
			if !strings.Contains(include, directive) {
				t.Errorf("file指令应与落盘文件名一致，缺少 %s:\n%s", directive, include)
			}
		}
	}
}

// TestRenderNamedConf 测试named.conf渲染
func TestRenderNamedConf(t *testing.T) {
	r := newTestRenderer(t)
	cfg := validatedConfig(t, &Configuration{
		Options: Options{
			ListenOn:   []string{"127.0.0.1", "192.168.1.1"},
			Forwarders: []string{"8.8.8.8", "8.8.4.4"},
			Recursion:  true,
		},
		Zones: []Zone{{Name: "example.com"}},
	})

	content := findArtifact(t, r, cfg, "named.conf")
	if !strings.Contains(content, `directory "/var/named";`) {
		t.Errorf("缺少directory指令:\n%s", content)
	}
	if !strings.Contains(content, "listen-on port 53 { 127.0.0.1; 192.168.1.1; };") {
		t.Errorf("listen-on渲染不符:\n%s", content)
	}
	if !strings.Contains(content, "allow-query { any; };") {
		t.Errorf("allow-query应默认为any:\n%s", content)
	}
	if !strings.Contains(content, "forwarders { 8.8.8.8; 8.8.4.4; };") {
		t.Errorf("forwarders渲染不符:\n%s", content)
	}
	if !strings.Contains(content, "recursion yes;") {
		t.Errorf("recursion渲染不符:\n%s", content)
	}
	if !strings.Contains(content, `include "/etc/named/named.conf.zones";`) {
		t.Errorf("缺少区域配置include:\n%s", content)
	}
}

// TestRenderZoneInclude 测试named.conf.zones三种区域类型渲染
func TestRenderZoneInclude(t *testing.T) {
	r := newTestRenderer(t)
	cfg := validatedConfig(t, &Configuration{
		Zones: []Zone{
			{Name: "master.example.com"},
			{Name: "slave.example.com", Kind: ZoneKindSlave, Masters: []string{"192.168.1.5"}},
			{Name: "fwd.example.com", Kind: ZoneKindForward, Forwarders: []string{"8.8.8.8"}},
		},
	})

	content := findArtifact(t, r, cfg, "named.conf.zones")

	if !strings.Contains(content, `zone "master.example.com" IN {`) ||
		!strings.Contains(content, "type master;") ||
		!strings.Contains(content, `file "master.example.com.zone";`) ||
		!strings.Contains(content, "allow-update { none; };") {
		t.Errorf("master区域渲染不符:\n%s", content)
	}
	if !strings.Contains(content, "type slave;") ||
		!strings.Contains(content, "masters { 192.168.1.5; };") {
		t.Errorf("slave区域渲染不符:\n%s", content)
	}
	if !strings.Contains(content, "type forward;") ||
		!strings.Contains(content, "forward only;") ||
		!strings.Contains(content, "forwarders { 8.8.8.8; };") {
		t.Errorf("forward区域渲染不符:\n%s", content)
	}

	// slave和forward区域不应产生本地区域文件产物
	for _, a := range r.Render(cfg) {
		if strings.HasSuffix(a.Path, "slave.example.com.zone") ||
			strings.HasSuffix(a.Path, "fwd.example.com.zone") {
			t.Errorf("非master区域不应有区域文件产物: %s", a.Path)
		}
	}
}
