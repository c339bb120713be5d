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
// core/confgen/writer_test.go
// 配置文件写入与备份测试

package confgen

import (
	"os"
	"path/filepath"
	"testing"
)

// TestWriterCreatesParentDirs 测试父目录自动创建
func TestWriterCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "etc", "named", "named.conf")

	w := NewWriter()
	if err := w.Write(Artifact{Path: target, Content: "options {};\n"}); err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	content, readErr := os.ReadFile(target)
	if readErr != nil {
		t.Fatalf("读取写入结果失败: %v", readErr)
	}
	if string(content) != "options {};\n" {
		t.Errorf("写入内容不符: %q", string(content))
	}

	// 首次写入不应产生备份
	if _, statErr := os.Stat(target + ".bak"); !os.IsNotExist(statErr) {
		t.Errorf("首次写入不应创建备份文件")
	}
}

// TestWriterBackupBeforeOverwrite 测试覆盖前备份
func TestWriterBackupBeforeOverwrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "example.com.zone")

	w := NewWriter()

	// 连续写三代内容，备份应只保留上一代
	generations := []string{"first\n", "second\n", "third\n"}
	for i, content := range generations {
		if err := w.Write(Artifact{Path: target, Content: content}); err != nil {
			t.Fatalf("第%d次写入失败: %v", i+1, err)
		}
	}

	content, _ := os.ReadFile(target)
	if string(content) != "third\n" {
		t.Errorf("目标文件内容 = %q, want %q", string(content), "third\n")
	}

	backup, err := os.ReadFile(target + ".bak")
	if err != nil {
		t.Fatalf("备份文件不存在: %v", err)
	}
	if string(backup) != "second\n" {
		t.Errorf("备份内容 = %q, 应为上一代内容 %q", string(backup), "second\n")
	}
}

// TestWriteAllFailFast 测试首个失败中止后续写入
func TestWriteAllFailFast(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.conf")
	// 以普通文件充当父目录构造写入失败
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("创建占位文件失败: %v", err)
	}
	bad := filepath.Join(blocker, "b.conf")
	never := filepath.Join(dir, "c.conf")

	w := NewWriter()
	err := w.WriteAll([]Artifact{
		{Path: good, Content: "ok\n"},
		{Path: bad, Content: "fail\n"},
		{Path: never, Content: "skipped\n"},
	})

	if err == nil {
		t.Fatalf("期望写入失败")
	}
	if err.Kind != KindIO {
		t.Errorf("错误类别 = %s, want %s", err.Kind, KindIO)
	}

	// 失败前的写入保留，失败后的写入不执行
	if _, statErr := os.Stat(good); statErr != nil {
		t.Errorf("失败前已写入的文件应保留")
	}
	if _, statErr := os.Stat(never); !os.IsNotExist(statErr) {
		t.Errorf("失败后的写入不应执行")
	}
}
