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

// core/confgen/errors.go
// 配置应用流水线错误分类

package confgen

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind 流水线错误类别
type ErrorKind string

// 错误类别常量
const (
	// KindValidation 输入配置不合法
	KindValidation ErrorKind = "validation"
	// KindIO 文件系统操作失败
	KindIO ErrorKind = "io"
	// KindExternal 守护进程自带校验工具拒绝了生成的配置
	KindExternal ErrorKind = "external_validation"
	// KindService 服务操作失败或未达到期望状态
	KindService ErrorKind = "service"
	// KindNotImplemented 功能未实现
	KindNotImplemented ErrorKind = "not_implemented"
)

// FieldError 字段级校验错误
// Path为输入中的点号/下标定位，如 zones[0].records[2].value
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// PipelineError 配置应用流水线错误
// 每个阶段的失败都映射为带类别的统一错误形态
type PipelineError struct {
	Kind    ErrorKind    `json:"kind"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// Error 实现error接口
func (e *PipelineError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}

	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Path, fe.Message))
	}
	return fmt.Sprintf("[%s] %s (%s)", e.Kind, e.Message, strings.Join(parts, "; "))
}

// HTTPStatus 错误类别到HTTP状态码的映射
func (e *PipelineError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError 创建校验类错误
func ValidationError(fields []FieldError) *PipelineError {
	return &PipelineError{
		Kind:    KindValidation,
		Message: "配置校验失败",
		Fields:  fields,
	}
}

// IOError 创建文件系统类错误
func IOError(format string, args ...interface{}) *PipelineError {
	return &PipelineError{
		Kind:    KindIO,
		Message: fmt.Sprintf(format, args...),
	}
}

// ExternalError 创建外部校验类错误
func ExternalError(format string, args ...interface{}) *PipelineError {
	return &PipelineError{
		Kind:    KindExternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// ServiceError 创建服务操作类错误
func ServiceError(format string, args ...interface{}) *PipelineError {
	return &PipelineError{
		Kind:    KindService,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotImplementedError 创建未实现类错误
func NotImplementedError(format string, args ...interface{}) *PipelineError {
	return &PipelineError{
		Kind:    KindNotImplemented,
		Message: fmt.Sprintf(format, args...),
	}
}
