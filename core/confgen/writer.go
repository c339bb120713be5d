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

// core/confgen/writer.go
// 配置文件落盘与备份

package confgen

import (
	"os"
	"path/filepath"

	"SteadyOps/core/common"
)

// Artifact 渲染产物，一个目标路径及其完整文件内容
type Artifact struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Writer 配置文件写入器
// 覆盖已有文件前先生成同目录的单代 .bak 备份
type Writer struct {
	logger *common.Logger
}

// NewWriter 创建写入器
func NewWriter() *Writer {
	return &Writer{
		logger: common.NewLogger(),
	}
}

// Write 写入单个产物
// 目标文件已存在时，先将当前内容复制到 <path>.bak（覆盖上一代备份），
// 再写入新内容；父目录不存在时递归创建
func (w *Writer) Write(artifact Artifact) *PipelineError {
	dir := filepath.Dir(artifact.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.logger.Error("创建配置目录失败: %v", err)
		return IOError("创建配置目录失败: %v", err)
	}

	if existing, err := os.ReadFile(artifact.Path); err == nil {
		backupPath := artifact.Path + ".bak"
		if err := os.WriteFile(backupPath, existing, 0644); err != nil {
			w.logger.Error("写入备份文件失败: %v", err)
			return IOError("写入备份文件失败: %v", err)
		}
		w.logger.Debug("已备份 %s 到 %s", artifact.Path, backupPath)
	} else if !os.IsNotExist(err) {
		w.logger.Error("读取原配置文件失败: %v", err)
		return IOError("读取原配置文件失败: %v", err)
	}

	if err := os.WriteFile(artifact.Path, []byte(artifact.Content), 0644); err != nil {
		w.logger.Error("写入配置文件失败: %v", err)
		return IOError("写入配置文件失败: %v", err)
	}

	w.logger.Debug("已写入配置文件: %s", artifact.Path)
	return nil
}

// WriteAll 按顺序写入所有产物，首个失败立即中止
// 已成功写入的文件不回滚，依靠各自的 .bak 备份人工恢复
func (w *Writer) WriteAll(artifacts []Artifact) *PipelineError {
	for _, artifact := range artifacts {
		if err := w.Write(artifact); err != nil {
			return err
		}
	}
	return nil
}
