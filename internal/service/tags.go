package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/svcgen/svcgen/internal/domain"
)

// TagEngine 标签替换引擎接口
// 对目录树中每个普通文件做 %TAGNAME 字面替换
type TagEngine interface {
	// CompileTree 递归处理目录树中的所有普通文件
	// 替换按标签插入顺序应用；任一文件读写失败则中止整个遍历
	CompileTree(root string, tags *domain.TagSet) error

	// CompileFile 处理单个文件
	CompileFile(path string, tags *domain.TagSet) error
}

// tagEngine 标签替换引擎实现
type tagEngine struct{}

// NewTagEngine 创建标签替换引擎实例
func NewTagEngine() TagEngine {
	return &tagEngine{}
}

// CompileTree 递归处理目录树中的所有普通文件
func (e *tagEngine) CompileTree(root string, tags *domain.TagSet) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return e.CompileFile(path, tags)
	})
}

// CompileFile 处理单个文件
// 就地覆盖文件内容，不创建也不删除文件
func (e *tagEngine) CompileFile(path string, tags *domain.TagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取文件 %s 失败: %w", path, err)
	}

	compiled := ReplaceTags(string(data), tags)
	if compiled == string(data) {
		return nil
	}

	if err := os.WriteFile(path, []byte(compiled), 0644); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return nil
}

// ReplaceTags 对文本做标签替换
// 每个标签的所有 %TAGNAME 出现都被替换；不支持转义与嵌套，
// 替换按插入顺序逐个应用
func ReplaceTags(content string, tags *domain.TagSet) string {
	for _, tag := range tags.Tags() {
		content = strings.ReplaceAll(content, "%"+tag.Name, tag.Value)
	}
	return content
}
