package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/svcgen/svcgen/internal/config"
	"github.com/svcgen/svcgen/internal/domain"
)

// TemplateRepository 模板注册表接口
// 注册表是一个目录，每个子目录为一个命名模板
type TemplateRepository interface {
	// ListTemplates 列出注册表中所有模板
	ListTemplates() ([]*domain.Template, error)

	// GetTemplate 获取模板信息
	GetTemplate(name string) (*domain.Template, error)

	// CopyTemplate 复制注册表模板到目标目录
	CopyTemplate(name, destPath string) error

	// CopyTree 复制任意模板目录到目标目录（用于本地路径模板）
	CopyTree(srcPath, destPath string) error
}

// templateRepository 模板注册表实现
type templateRepository struct {
	config *config.Config
}

// NewTemplateRepository 创建模板注册表实例
func NewTemplateRepository(cfg *config.Config) TemplateRepository {
	return &templateRepository{
		config: cfg,
	}
}

// ListTemplates 列出注册表中所有模板
func (r *templateRepository) ListTemplates() ([]*domain.Template, error) {
	registryDir := r.config.RegistryDir

	entries, err := os.ReadDir(registryDir)
	if err != nil {
		return nil, fmt.Errorf("读取模板注册表目录失败: %w", err)
	}

	var templates []*domain.Template

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		template, err := r.GetTemplate(entry.Name())
		if err != nil {
			// 跳过无效模板目录
			continue
		}
		templates = append(templates, template)
	}

	return templates, nil
}

// GetTemplate 获取模板信息
func (r *templateRepository) GetTemplate(name string) (*domain.Template, error) {
	templatePath := filepath.Join(r.config.RegistryDir, name)

	if _, err := os.Stat(templatePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("模板 %s 不存在", name)
	}

	// 服务模板必须包含 package.json
	if _, err := os.Stat(filepath.Join(templatePath, "package.json")); os.IsNotExist(err) {
		return nil, fmt.Errorf("模板 %s 不是有效的服务模板：缺少 package.json", name)
	}

	files, err := r.templateFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("读取模板文件列表失败: %w", err)
	}

	return &domain.Template{
		Name:        name,
		Path:        templatePath,
		Description: r.templateDescription(templatePath),
		Files:       files,
	}, nil
}

// CopyTemplate 复制注册表模板到目标目录
func (r *templateRepository) CopyTemplate(name, destPath string) error {
	template, err := r.GetTemplate(name)
	if err != nil {
		return err
	}
	return copyFiles(template.Path, destPath, template.Files)
}

// CopyTree 复制任意模板目录到目标目录
func (r *templateRepository) CopyTree(srcPath, destPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("读取模板目录失败: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("模板路径 %s 不是目录", srcPath)
	}

	files, err := r.templateFiles(srcPath)
	if err != nil {
		return fmt.Errorf("读取模板文件列表失败: %w", err)
	}

	return copyFiles(srcPath, destPath, files)
}

// copyFiles 按相对路径列表逐个复制文件
func copyFiles(srcRoot, destRoot string, files []string) error {
	if err := os.MkdirAll(destRoot, 0755); err != nil {
		return fmt.Errorf("创建目标目录失败: %w", err)
	}

	for _, file := range files {
		srcPath := filepath.Join(srcRoot, file)
		dstPath := filepath.Join(destRoot, file)

		data, err := os.ReadFile(srcPath)
		if err != nil {
			return fmt.Errorf("读取文件 %s 失败: %w", srcPath, err)
		}

		if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
			return fmt.Errorf("创建目标目录失败: %w", err)
		}

		if err := os.WriteFile(dstPath, data, 0644); err != nil {
			return fmt.Errorf("写入文件 %s 失败: %w", dstPath, err)
		}
	}

	return nil
}

// templateFiles 获取模板文件列表（相对路径）
func (r *templateRepository) templateFiles(templatePath string) ([]string, error) {
	var files []string

	err := filepath.Walk(templatePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// 跳过 .git 等隐藏目录
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != templatePath {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(templatePath, path)
		if err != nil {
			return err
		}

		files = append(files, relPath)
		return nil
	})

	return files, err
}

// templateDescription 获取模板描述
// 取模板目录中 readme.md 的第一行
func (r *templateRepository) templateDescription(templatePath string) string {
	for _, name := range []string{"readme.md", "README.md"} {
		readmePath := filepath.Join(templatePath, name)
		data, err := os.ReadFile(readmePath)
		if err != nil {
			continue
		}
		lines := strings.Split(string(data), "\n")
		if len(lines) > 0 {
			return strings.TrimSpace(strings.TrimPrefix(lines[0], "#"))
		}
	}
	return ""
}
