package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/svcgen/svcgen/internal/domain"
)

// ServiceRepository 服务目录仓库接口
// 通过读取目录中的 svcgen.yaml 清单静态识别服务目录，
// 不加载、不执行目录中的任何代码
type ServiceRepository interface {
	// LoadManifest 读取目录中的服务清单
	// 清单不存在或无效时返回错误
	LoadManifest(dir string) (*domain.ServiceManifest, error)

	// SaveManifest 写入服务清单到目录
	SaveManifest(dir string, manifest *domain.ServiceManifest) error

	// IsService 判断目录是否为服务目录
	IsService(dir string) bool

	// Discover 发现服务目录
	// 如果 root 本身是服务目录，只返回 root；
	// 否则独立检测 root 的每个一级子目录
	Discover(root string) ([]string, error)
}

// serviceRepository 服务目录仓库实现
type serviceRepository struct{}

// NewServiceRepository 创建服务目录仓库实例
func NewServiceRepository() ServiceRepository {
	return &serviceRepository{}
}

// LoadManifest 读取目录中的服务清单
func (r *serviceRepository) LoadManifest(dir string) (*domain.ServiceManifest, error) {
	manifestPath := filepath.Join(dir, domain.ManifestFileName)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("读取服务清单失败: %w", err)
	}

	var manifest domain.ServiceManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("解析服务清单失败: %w", err)
	}

	if !manifest.IsService() {
		return nil, fmt.Errorf("%s 不是有效的服务清单", manifestPath)
	}

	return &manifest, nil
}

// SaveManifest 写入服务清单到目录
func (r *serviceRepository) SaveManifest(dir string, manifest *domain.ServiceManifest) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("序列化服务清单失败: %w", err)
	}

	manifestPath := filepath.Join(dir, domain.ManifestFileName)
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return fmt.Errorf("写入服务清单失败: %w", err)
	}
	return nil
}

// IsService 判断目录是否为服务目录
func (r *serviceRepository) IsService(dir string) bool {
	_, err := r.LoadManifest(dir)
	return err == nil
}

// Discover 发现服务目录
func (r *serviceRepository) Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("读取目录失败: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s 不是目录", root)
	}

	// 根目录本身是服务时只处理根目录
	if r.IsService(root) {
		return []string{root}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("读取目录失败: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if r.IsService(dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs, nil
}
