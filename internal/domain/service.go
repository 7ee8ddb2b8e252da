package domain

import (
	"time"

	"github.com/google/uuid"
)

// ManifestFileName 服务清单文件名
// 生成的每个服务目录中都会写入该文件，作为"这是一个 svcgen 服务"的静态标记
const ManifestFileName = "svcgen.yaml"

// KindService 服务清单的 kind 值
const KindService = "service"

// Service 表示一个已生成的服务
type Service struct {
	ID        string    `json:"id"`         // UUID 标识
	Name      string    `json:"name"`       // 服务名称
	Path      string    `json:"path"`       // 服务目录路径
	Version   string    `json:"version"`    // 当前版本（semver）
	Template  string    `json:"template"`   // 使用的模板（注册表名称、路径或 git URL）
	RepoURL   string    `json:"repo_url"`   // 远程仓库地址（可选）
	CreatedAt time.Time `json:"created_at"` // 创建时间
}

// ServiceManifest 服务清单
// 写入服务目录的 svcgen.yaml，供 update-version 等命令静态识别服务目录，
// 无需加载或执行服务代码
type ServiceManifest struct {
	Kind      string `yaml:"kind"`                 // 固定为 "service"
	ID        string `yaml:"id"`                   // UUID 标识
	Name      string `yaml:"name"`                 // 服务名称
	Version   string `yaml:"version"`              // 生成时的版本
	Template  string `yaml:"template"`             // 使用的模板
	CreatedAt string `yaml:"created_at,omitempty"` // 创建时间（RFC3339）
}

// IsService 判断清单是否为有效的服务标记
func (m *ServiceManifest) IsService() bool {
	return m != nil && m.Kind == KindService && m.Name != ""
}

// NewServiceID 生成服务 UUID
func NewServiceID() string {
	return uuid.New().String()
}
