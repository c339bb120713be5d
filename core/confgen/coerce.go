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

// core/confgen/coerce.go
// 输入值结构化转换与净化

package confgen

import (
	"encoding/json"
	"strings"
)

// ParseList 将分号分隔的字符串转换为有序列表
// "8.8.8.8; 8.8.4.4;" -> ["8.8.8.8", "8.8.4.4"]，空项被剔除，顺序保持
func ParseList(raw string) []string {
	parts := strings.Split(raw, ";")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// JoinList 将列表序列化回分号分隔形式，与ParseList互逆
// ["8.8.8.8", "8.8.4.4"] -> "8.8.8.8; 8.8.4.4;"
func JoinList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, "; ") + ";"
}

// StringList 兼容字符串和数组两种JSON输入形式的列表字段
// 前端表单提交 "8.8.8.8; 8.8.4.4;"，API调用方提交 ["8.8.8.8","8.8.4.4"]
type StringList []string

// UnmarshalJSON 实现灵活的列表反序列化
func (s *StringList) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*s = ParseList(raw)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	*s = cleaned
	return nil
}

// MarshalJSON 序列化为普通数组
func (s StringList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(s))
}

// sanitizeReplacer 剔除可能破坏生成配置文本的字符：
// HTML/脚本注入字符、shell元字符和控制字符。
// 生成的文件会被守护进程解析，也可能被回显到Web界面。
var sanitizeReplacer = strings.NewReplacer(
	"<", "",
	">", "",
	"`", "",
	"$", "",
	"|", "",
	"&", "",
	";", "",
	"{", "",
	"}", "",
	"\n", "",
	"\r", "",
	"\x00", "",
)

// Sanitize 净化插入到生成配置文本中的值
func Sanitize(value string) string {
	return strings.TrimSpace(sanitizeReplacer.Replace(value))
}

// textReplacer 引号包裹上下文使用的净化集合
// TXT记录值等带引号的字段允许分号和常见标点（DMARC等记录需要），
// 只剔除注入字符和控制字符
var textReplacer = strings.NewReplacer(
	"<", "",
	">", "",
	"`", "",
	"\n", "",
	"\r", "",
	"\x00", "",
)

// SanitizeText 净化引号包裹上下文中的文本值
func SanitizeText(value string) string {
	return strings.TrimSpace(textReplacer.Replace(value))
}
