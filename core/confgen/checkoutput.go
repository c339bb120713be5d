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

// core/confgen/checkoutput.go
// 外部校验工具输出甄别

package confgen

import (
	"regexp"
	"strings"
)

// UnexpectedLine 返回输出中首个不匹配良性模式的非空行，全部良性时返回空串
// 守护进程自带的校验工具可能在退出码为0时仍输出告警，
// 这类告警和非零退出码同样视为校验失败
func UnexpectedLine(output []byte, benign *regexp.Regexp) string {
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if benign != nil && benign.MatchString(line) {
			continue
		}
		return line
	}
	return ""
}
