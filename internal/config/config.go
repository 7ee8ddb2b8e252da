package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config 应用配置
// 配置在进程启动时加载一次，之后通过参数显式传递，不使用包级单例
type Config struct {
	// 默认作者
	Author string

	// 默认邮箱
	Email string

	// 默认许可证（SPDX 标识或 UNLICENSED）
	License string

	// 默认模板（注册表名称、本地路径或 git URL）
	Template string

	// 是否默认创建远程 git 仓库（nil 表示未配置，需要交互询问）
	UseGit *bool

	// 是否默认启用 Docker/CI 集成（nil 表示未配置，需要交互询问）
	UseDocker *bool

	// 远程仓库是否私有（nil 表示未配置）
	GitRepoPrivate *bool

	// git 仓库地址前缀（如 git@github.com:）
	GitBaseURL string

	// GitHub 配置
	GitHub GitHubConfig

	// Docker Hub 配置
	Docker DockerConfig

	// 模板注册表目录
	RegistryDir string

	// node.js 版本目录索引地址
	NodeIndexURL string

	// 外部命令配置
	Exec ExecConfig

	// 日志配置
	Log LogConfig

	// 凭据配置文件路径
	CredentialConfigPath string
}

// GitHubConfig GitHub 相关配置
type GitHubConfig struct {
	// 命名空间（用户或组织）
	Namespace string

	// API 访问令牌
	AuthToken string

	// API 地址
	APIURL string
}

// DockerConfig Docker Hub 相关配置
type DockerConfig struct {
	// 命名空间
	Namespace string

	// 用户名
	User string

	// 密码
	Password string
}

// ExecConfig 外部命令相关配置
type ExecConfig struct {
	// git 可执行文件路径
	GitPath string

	// npm 可执行文件路径
	NpmPath string
}

// LogConfig 日志配置
type LogConfig struct {
	// 日志级别：DEBUG, INFO, WARN, ERROR
	Level string

	// 是否启用控制台输出
	EnableConsole bool

	// 是否启用文件输出
	EnableFile bool

	// 日志目录
	LogDir string

	// 日志文件名（如果为空，则使用默认格式）
	LogFile string
}

// configPaths 配置文件候选路径，按优先级排列
func configPaths() []string {
	paths := []string{".svcgen.ini"}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".svcgen", ".svcgen.ini"))
	}
	return paths
}

// Load 加载配置
// 优先级：环境变量 > 配置文件 > 内置默认值。
// 当前目录存在 .env 时会先加载（便于存放令牌等敏感值）
func Load() (*Config, error) {
	// 加载 .env（不存在时忽略）
	_ = godotenv.Load()

	config := defaults()

	// 查找并读取配置文件
	var configPath string
	var cfgFile *ini.File
	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			f, err := ini.Load(path)
			if err != nil {
				return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
			}
			configPath = path
			cfgFile = f
			break
		}
	}
	// 没有配置文件时凭据仍需落盘到默认位置（保存时自动创建）
	if configPath == "" {
		if home := os.Getenv("HOME"); home != "" {
			configPath = filepath.Join(home, ".svcgen", ".svcgen.ini")
		}
	}
	config.CredentialConfigPath = configPath

	if cfgFile != nil {
		applyFile(config, cfgFile)
	}

	applyEnv(config)

	// 确保必要的目录存在
	if err := os.MkdirAll(config.RegistryDir, 0755); err != nil {
		return nil, fmt.Errorf("创建模板注册表目录 %s 失败: %w", config.RegistryDir, err)
	}

	return config, nil
}

// defaults 内置默认配置
func defaults() *Config {
	registryDir := "./svcgen-templates"
	if home := os.Getenv("HOME"); home != "" {
		registryDir = filepath.Join(home, ".svcgen", "templates")
	}

	// License 不设内置默认值：用户未选择许可证时由创建流程
	// 交互式询问，仍无结果则按 UNLICENSED 处理
	return &Config{
		GitBaseURL:   "git@github.com:",
		RegistryDir:  registryDir,
		NodeIndexURL: "https://nodejs.org/dist/index.json",
		GitHub: GitHubConfig{
			APIURL: "https://api.github.com",
		},
		Exec: ExecConfig{
			GitPath: "git",
			NpmPath: "npm",
		},
		Log: LogConfig{
			Level:         "INFO",
			EnableConsole: false,
			EnableFile:    true,
			LogDir:        "logs",
		},
	}
}

// applyFile 从配置文件读取配置值
func applyFile(config *Config, cfgFile *ini.File) {
	if section := cfgFile.Section("default"); section != nil {
		if author := section.Key("author").String(); author != "" {
			config.Author = author
		}
		if email := section.Key("email").String(); email != "" {
			config.Email = email
		}
		if license := section.Key("license").String(); license != "" {
			config.License = license
		}
		if template := section.Key("template").String(); template != "" {
			config.Template = template
		}
		if section.HasKey("use_git") {
			v := parseBool(section.Key("use_git").String())
			config.UseGit = &v
		}
		if section.HasKey("use_docker") {
			v := parseBool(section.Key("use_docker").String())
			config.UseDocker = &v
		}
		if registryDir := section.Key("registry_dir").String(); registryDir != "" {
			config.RegistryDir = registryDir
		}
		if nodeIndexURL := section.Key("node_index_url").String(); nodeIndexURL != "" {
			config.NodeIndexURL = nodeIndexURL
		}
	}

	if section := cfgFile.Section("github"); section != nil {
		if namespace := section.Key("github_namespace").String(); namespace != "" {
			config.GitHub.Namespace = namespace
		}
		if token := section.Key("github_auth_token").String(); token != "" {
			config.GitHub.AuthToken = token
		}
		if apiURL := section.Key("api_url").String(); apiURL != "" {
			config.GitHub.APIURL = apiURL
		}
		if baseURL := section.Key("git_base_url").String(); baseURL != "" {
			config.GitBaseURL = baseURL
		}
		if section.HasKey("git_repo_private") {
			v := parseBool(section.Key("git_repo_private").String())
			config.GitRepoPrivate = &v
		}
	}

	if section := cfgFile.Section("docker"); section != nil {
		if namespace := section.Key("dockerhub_namespace").String(); namespace != "" {
			config.Docker.Namespace = namespace
		}
		if user := section.Key("dockerhub_user").String(); user != "" {
			config.Docker.User = user
		}
		if password := section.Key("dockerhub_password").String(); password != "" {
			config.Docker.Password = password
		}
	}

	if section := cfgFile.Section("exec"); section != nil {
		if gitPath := section.Key("git_path").String(); gitPath != "" {
			config.Exec.GitPath = gitPath
		}
		if npmPath := section.Key("npm_path").String(); npmPath != "" {
			config.Exec.NpmPath = npmPath
		}
	}

	if section := cfgFile.Section("log"); section != nil {
		if level := section.Key("level").String(); level != "" {
			config.Log.Level = level
		}
		if enableConsole := section.Key("enable_console").String(); enableConsole != "" {
			config.Log.EnableConsole = parseBool(enableConsole)
		}
		if enableFile := section.Key("enable_file").String(); enableFile != "" {
			config.Log.EnableFile = parseBool(enableFile)
		}
		if logDir := section.Key("log_dir").String(); logDir != "" {
			config.Log.LogDir = logDir
		}
		if logFile := section.Key("log_file").String(); logFile != "" {
			config.Log.LogFile = logFile
		}
	}
}

// applyEnv 应用环境变量覆盖
func applyEnv(config *Config) {
	if token := os.Getenv("SVCGEN_GITHUB_TOKEN"); token != "" {
		config.GitHub.AuthToken = token
	} else if token := os.Getenv("GITHUB_TOKEN"); token != "" && config.GitHub.AuthToken == "" {
		config.GitHub.AuthToken = token
	}
	if namespace := os.Getenv("SVCGEN_GITHUB_NAMESPACE"); namespace != "" {
		config.GitHub.Namespace = namespace
	}
	if user := os.Getenv("SVCGEN_DOCKER_USER"); user != "" {
		config.Docker.User = user
	}
	if password := os.Getenv("SVCGEN_DOCKER_PASSWORD"); password != "" {
		config.Docker.Password = password
	}
}

// parseBool 解析配置中的布尔值
func parseBool(s string) bool {
	return s == "true" || s == "1" || s == "yes"
}
