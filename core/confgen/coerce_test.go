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
// core/confgen/coerce_test.go
// 输入转换与净化测试

package confgen

import (
	"encoding/json"
	"reflect"
	"testing"
)

// TestParseList 测试分号分隔列表解析
func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"标准两项", "8.8.8.8; 8.8.4.4;", []string{"8.8.8.8", "8.8.4.4"}},
		{"无尾分号", "127.0.0.1; 192.168.1.1", []string{"127.0.0.1", "192.168.1.1"}},
		{"多余空白", "  any ;  ;; localhost ", []string{"any", "localhost"}},
		{"单项", "any;", []string{"any"}},
		{"空输入", "", []string{}},
		{"仅分号", ";;;", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseList(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// TestListRoundTrip 测试列表往返序列化保持顺序和语义
func TestListRoundTrip(t *testing.T) {
	raw := "127.0.0.1; 192.168.1.1;"
	items := ParseList(raw)

	want := []string{"127.0.0.1", "192.168.1.1"}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("ParseList(%q) = %v, want %v", raw, items, want)
	}

	joined := JoinList(items)
	if joined != raw {
		t.Errorf("JoinList(%v) = %q, want %q", items, joined, raw)
	}

	if !reflect.DeepEqual(ParseList(joined), items) {
		t.Errorf("往返解析结果不一致")
	}
}

// TestStringListUnmarshal 测试列表字段的两种JSON输入形式
func TestStringListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{"分号字符串", `"8.8.8.8; 8.8.4.4;"`, []string{"8.8.8.8", "8.8.4.4"}},
		{"数组", `["8.8.8.8", "8.8.4.4"]`, []string{"8.8.8.8", "8.8.4.4"}},
		{"数组含空项", `["any", "", "  localhost "]`, []string{"any", "localhost"}},
		{"空字符串", `""`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list StringList
			if err := json.Unmarshal([]byte(tt.data), &list); err != nil {
				t.Fatalf("反序列化失败: %v", err)
			}
			if !reflect.DeepEqual([]string(list), tt.want) {
				t.Errorf("结果 = %v, want %v", list, tt.want)
			}
		})
	}
}

// TestSanitize 测试注入字符净化
func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"script标签", "<script>alert(1)</script>", "scriptalert(1)/script"},
		{"反引号", "host`id`name", "hostidname"},
		{"shell元字符", "a$b|c&d;e", "abcde"},
		{"花括号", "}; include {", "include"},
		{"换行", "line1\nline2", "line1line2"},
		{"正常域名", "www.example.com", "www.example.com"},
		{"正常IP", "192.168.1.100", "192.168.1.100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.value)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

// TestSanitizeText 测试引号上下文净化保留分号
func TestSanitizeText(t *testing.T) {
	got := SanitizeText("v=DMARC1; p=none")
	if got != "v=DMARC1; p=none" {
		t.Errorf("SanitizeText 不应剔除分号: %q", got)
	}

	got = SanitizeText("<b>bold</b>`cmd`")
	if got != "bbold/bcmd" {
		t.Errorf("SanitizeText 应剔除注入字符: %q", got)
	}
}
