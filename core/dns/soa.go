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

// core/dns/soa.go
// SOA序列号管理

package dns

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// serialPattern 匹配区域文件中的SOA序列号行
var serialPattern = regexp.MustCompile(`([0-9]{10})\s*;\s*Serial`)

// generateSerial 生成当日首个SOA序列号
// 格式：YYYYMMDD+2位流水号（如2026082501）
func generateSerial(now time.Time) string {
	return now.Format("20060102") + "01"
}

// parseSerial 解析SOA序列号，提取日期和流水号
func parseSerial(serial string) (string, string, error) {
	if len(serial) != 10 {
		return "", "", fmt.Errorf("序列号格式不正确，应为YYYYMMDD+2位流水号")
	}
	return serial[:8], serial[8:], nil
}

// findSerial 从区域文件内容中提取当前序列号，未找到返回空串
func findSerial(content string) string {
	match := serialPattern.FindStringSubmatch(content)
	if len(match) > 1 {
		return match[1]
	}
	return ""
}

// nextSerial 根据现有区域文件内容计算新序列号
// 同一天重复应用时流水号递增，超过99回绕到01；新的一天重置为01
func nextSerial(existingContent string, now time.Time) string {
	current := findSerial(existingContent)
	if current == "" {
		return generateSerial(now)
	}

	currentDate, currentSeq, err := parseSerial(current)
	if err != nil {
		return generateSerial(now)
	}

	today := now.Format("20060102")
	if currentDate != today {
		return generateSerial(now)
	}

	seq, err := strconv.Atoi(currentSeq)
	if err != nil {
		return generateSerial(now)
	}

	seq++
	if seq > 99 {
		seq = 1
	}
	return fmt.Sprintf("%s%02d", today, seq)
}
