package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/ini.v1"
)

// Provider 外部服务类型
type Provider string

const (
	ProviderGitHub    Provider = "github"
	ProviderDockerHub Provider = "dockerhub"
	ProviderTravis    Provider = "travis"
)

// allProviders 支持的外部服务列表
var allProviders = []Provider{ProviderGitHub, ProviderDockerHub, ProviderTravis}

// IsValid 判断是否为支持的外部服务
func (p Provider) IsValid() bool {
	for _, known := range allProviders {
		if p == known {
			return true
		}
	}
	return false
}

// DisplayName 外部服务显示名称
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGitHub:
		return "GitHub"
	case ProviderDockerHub:
		return "Docker Hub"
	case ProviderTravis:
		return "Travis CI"
	default:
		return string(p)
	}
}

// Credentials 外部服务凭据
type Credentials struct {
	User      string // 用户名（Docker Hub 使用，GitHub/Travis 可选）
	Secret    string // 令牌或密码
	Namespace string // 可选：默认命名空间
}

// Manager 凭据管理器接口
type Manager interface {
	// Get 获取指定外部服务的凭据
	Get(provider Provider) (*Credentials, error)

	// Set 设置指定外部服务的凭据
	Set(provider Provider, creds *Credentials) error

	// Has 检查是否已配置凭据
	Has(provider Provider) bool

	// List 列出所有已配置凭据的外部服务
	List() []Provider

	// Remove 删除指定外部服务的凭据
	Remove(provider Provider) error
}

// manager 凭据管理器实现
type manager struct {
	configPath string
	mu         sync.RWMutex
	creds      map[Provider]*Credentials
}

// NewManager 创建凭据管理器实例
// configPath 为空时仅从环境变量加载；保存时会自动创建文件
func NewManager(configPath string) (Manager, error) {
	m := &manager{
		configPath: configPath,
		creds:      make(map[Provider]*Credentials),
	}

	if err := m.load(); err != nil {
		return nil, fmt.Errorf("加载凭据配置失败: %w", err)
	}

	return m, nil
}

// load 从配置文件和环境变量加载凭据
func (m *manager) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 先从环境变量加载（配置文件优先级更高，后加载覆盖）
	m.loadFromEnv()

	if m.configPath == "" {
		return nil
	}
	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		return nil
	}

	cfgFile, err := ini.Load(m.configPath)
	if err != nil {
		return fmt.Errorf("读取凭据文件失败: %w", err)
	}

	for _, provider := range allProviders {
		section := cfgFile.Section("credential." + string(provider))
		if section == nil {
			continue
		}
		secret := section.Key("secret").String()
		user := section.Key("user").String()
		if secret == "" && user == "" {
			continue
		}
		m.creds[provider] = &Credentials{
			User:      user,
			Secret:    secret,
			Namespace: section.Key("namespace").String(),
		}
	}

	return nil
}

// loadFromEnv 从环境变量加载凭据
func (m *manager) loadFromEnv() {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		m.creds[ProviderGitHub] = &Credentials{Secret: token}
	}
	if token := os.Getenv("TRAVIS_TOKEN"); token != "" {
		m.creds[ProviderTravis] = &Credentials{Secret: token}
	}
	if user := os.Getenv("DOCKERHUB_USER"); user != "" {
		m.creds[ProviderDockerHub] = &Credentials{
			User:   user,
			Secret: os.Getenv("DOCKERHUB_PASSWORD"),
		}
	}
}

// Get 获取指定外部服务的凭据
func (m *manager) Get(provider Provider) (*Credentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	creds, ok := m.creds[provider]
	if !ok {
		return nil, fmt.Errorf("未配置 %s 的凭据", provider.DisplayName())
	}
	return creds, nil
}

// Set 设置指定外部服务的凭据并保存
func (m *manager) Set(provider Provider, creds *Credentials) error {
	if creds == nil {
		return fmt.Errorf("凭据不能为空")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.creds[provider] = creds
	return m.save()
}

// Has 检查是否已配置凭据
func (m *manager) Has(provider Provider) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.creds[provider]
	return ok
}

// List 列出所有已配置凭据的外部服务
func (m *manager) List() []Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var providers []Provider
	for _, provider := range allProviders {
		if _, ok := m.creds[provider]; ok {
			providers = append(providers, provider)
		}
	}
	return providers
}

// Remove 删除指定外部服务的凭据并保存
func (m *manager) Remove(provider Provider) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.creds[provider]; !ok {
		return fmt.Errorf("未配置 %s 的凭据", provider.DisplayName())
	}

	delete(m.creds, provider)
	return m.save()
}

// save 保存凭据到配置文件
// 调用方需持有写锁
func (m *manager) save() error {
	if m.configPath == "" {
		return fmt.Errorf("未指定凭据配置文件路径")
	}

	// 保留配置文件中的非凭据内容
	cfgFile := ini.Empty()
	if _, err := os.Stat(m.configPath); err == nil {
		f, err := ini.Load(m.configPath)
		if err == nil {
			cfgFile = f
		}
	}

	// 清除所有凭据段后重写
	for _, provider := range allProviders {
		cfgFile.DeleteSection("credential." + string(provider))
	}
	for provider, creds := range m.creds {
		section := cfgFile.Section("credential." + string(provider))
		if creds.User != "" {
			section.Key("user").SetValue(creds.User)
		}
		if creds.Secret != "" {
			section.Key("secret").SetValue(creds.Secret)
		}
		if creds.Namespace != "" {
			section.Key("namespace").SetValue(creds.Namespace)
		}
	}

	if dir := filepath.Dir(m.configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建凭据目录失败: %w", err)
		}
	}

	if err := cfgFile.SaveTo(m.configPath); err != nil {
		return fmt.Errorf("保存凭据文件失败: %w", err)
	}
	return nil
}
