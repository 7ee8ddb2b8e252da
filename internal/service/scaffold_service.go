package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/svcgen/svcgen/internal/config"
	"github.com/svcgen/svcgen/internal/credentials"
	"github.com/svcgen/svcgen/internal/domain"
	"github.com/svcgen/svcgen/internal/logger"
	"github.com/svcgen/svcgen/internal/repository"
)

// CreateOptions 创建服务的输入
// 字符串字段为空、布尔字段为 nil 时依次回退到配置默认值和交互提问
type CreateOptions struct {
	// 服务名（命令行位置参数）
	Name string

	// 目标路径（命令行位置参数，为空时使用 ./<name>）
	Path string

	// 模板：注册表名称、本地路径或 git 仓库地址
	Template string

	// 作者与邮箱
	Author string
	Email  string

	// 许可证标识
	License string

	// 初始版本号
	Version string

	// 服务描述
	Description string

	// node.js 版本标签（如 lts、latest、20）
	NodeVersions []string

	// 是否创建远程仓库 / 启用 Docker CI 集成 / 仓库私有
	UseGit    *bool
	UseDocker *bool
	Private   *bool

	// 交互提问器，字段为 nil 时跳过提问直接报错；
	// 许可证提问器留空（或回答为空）时使用 UNLICENSED
	NameProvider      ValueProvider
	AuthorProvider    ValueProvider
	EmailProvider     ValueProvider
	LicenseProvider   ValueProvider
	UseGitProvider    BoolProvider
	UseDockerProvider BoolProvider
}

// ScaffoldService 服务脚手架
type ScaffoldService interface {
	// Create 按模板创建一个新服务
	// 失败时删除已生成的目录（目标为当前目录时除外）
	Create(ctx context.Context, opts CreateOptions) (*domain.Service, error)
}

// scaffoldService 服务脚手架实现
type scaffoldService struct {
	cfg       *config.Config
	log       logger.Logger
	templates repository.TemplateRepository
	services  repository.ServiceRepository
	tagEngine TagEngine
	git       GitService
	npm       NpmService
	github    GitHubClient
	travis    TravisClient
	nodes     NodeCatalog
	creds     credentials.Manager
}

// NewScaffoldService 创建服务脚手架实例
func NewScaffoldService(
	cfg *config.Config,
	log logger.Logger,
	templates repository.TemplateRepository,
	services repository.ServiceRepository,
	tagEngine TagEngine,
	git GitService,
	npm NpmService,
	github GitHubClient,
	travis TravisClient,
	nodes NodeCatalog,
	creds credentials.Manager,
) ScaffoldService {
	return &scaffoldService{
		cfg:       cfg,
		log:       log,
		templates: templates,
		services:  services,
		tagEngine: tagEngine,
		git:       git,
		npm:       npm,
		github:    github,
		travis:    travis,
		nodes:     nodes,
		creds:     creds,
	}
}

// Create 按模板创建一个新服务
func (s *scaffoldService) Create(ctx context.Context, opts CreateOptions) (svc *domain.Service, err error) {
	name, err := ResolveValue(opts.Name, "", opts.NameProvider, ValidateServiceName)
	if err != nil {
		return nil, fmt.Errorf("解析服务名失败: %w", err)
	}

	targetPath := opts.Path
	if targetPath == "" {
		targetPath = "./" + name
	}
	targetPath = filepath.Clean(targetPath)

	// 目标为当前目录时在原地生成，失败时不清理
	inPlace := targetPath == "."
	if !inPlace {
		if _, statErr := os.Stat(targetPath); statErr == nil {
			return nil, fmt.Errorf("目标路径 %s 已存在", targetPath)
		}
	}

	// 失败时清理已生成的目录
	defer func() {
		if err != nil && !inPlace {
			if rmErr := os.RemoveAll(targetPath); rmErr != nil {
				s.log.Warn("清理目录 %s 失败: %v", targetPath, rmErr)
			} else {
				s.log.Info("已清理生成目录: %s", targetPath)
			}
		}
	}()

	author, err := ResolveValue(opts.Author, s.cfg.Author, opts.AuthorProvider, nil)
	if err != nil {
		return nil, fmt.Errorf("解析作者失败: %w", err)
	}
	email, err := ResolveValue(opts.Email, s.cfg.Email, opts.EmailProvider, ValidateEmail)
	if err != nil {
		return nil, fmt.Errorf("解析邮箱失败: %w", err)
	}
	licenseID := opts.License
	if licenseID == "" {
		licenseID = s.cfg.License
	}
	if licenseID == "" && opts.LicenseProvider != nil {
		v, perr := opts.LicenseProvider()
		if perr != nil {
			return nil, fmt.Errorf("解析许可证失败: %w", perr)
		}
		licenseID = strings.TrimSpace(v)
	}
	// 用户未做任何选择时按专有软件处理
	if licenseID == "" {
		licenseID = domain.UnlicensedID
	}
	version := opts.Version
	if version == "" {
		version = "0.1.0"
	}
	if err := ValidateVersion(version); err != nil {
		return nil, err
	}

	useGit, err := ResolveBool(opts.UseGit, s.cfg.UseGit, opts.UseGitProvider)
	if err != nil {
		return nil, fmt.Errorf("解析 git 选项失败: %w", err)
	}
	useDocker, err := ResolveBool(opts.UseDocker, s.cfg.UseDocker, opts.UseDockerProvider)
	if err != nil {
		return nil, fmt.Errorf("解析 docker 选项失败: %w", err)
	}
	// Docker CI 集成依赖远程仓库
	if useDocker && !useGit {
		return nil, fmt.Errorf("启用 docker 集成时必须同时创建远程仓库")
	}

	private := false
	if opts.Private != nil {
		private = *opts.Private
	} else if s.cfg.GitRepoPrivate != nil {
		private = *s.cfg.GitRepoPrivate
	}

	templateRef := opts.Template
	if templateRef == "" {
		templateRef = s.cfg.Template
	}
	if templateRef == "" {
		return nil, fmt.Errorf("未指定模板，请通过 --template 或配置文件设置")
	}

	s.log.Info("开始创建服务 %s，模板: %s", name, templateRef)

	if err := s.fetchTemplate(ctx, templateRef, targetPath); err != nil {
		return nil, err
	}

	nodeVersions := opts.NodeVersions
	if len(nodeVersions) == 0 {
		nodeVersions = []string{"lts"}
	}
	travisTags := ToTravisTags(nodeVersions)

	// 校验每个标签都能解析到真实版本
	for _, tag := range nodeVersions {
		if _, resolveErr := s.nodes.Resolve(ctx, tag); resolveErr != nil {
			return nil, fmt.Errorf("解析 node 版本标签 %s 失败: %w", tag, resolveErr)
		}
	}

	license, err := ResolveLicense(licenseID, LicenseMeta{
		Year:     time.Now().Format("2006"),
		FullName: author,
		Email:    email,
		Project:  name,
	})
	if err != nil {
		return nil, err
	}

	tags := s.buildTags(name, version, author, email, license, travisTags, useDocker)

	if err := os.WriteFile(filepath.Join(targetPath, "LICENSE"), []byte(license.Body), 0644); err != nil {
		return nil, fmt.Errorf("写入 LICENSE 失败: %w", err)
	}

	if err := s.tagEngine.CompileTree(targetPath, tags); err != nil {
		return nil, fmt.Errorf("编译模板失败: %w", err)
	}

	createdAt := time.Now()
	manifest := &domain.ServiceManifest{
		Kind:      domain.KindService,
		ID:        domain.NewServiceID(),
		Name:      name,
		Version:   version,
		Template:  templateRef,
		CreatedAt: createdAt.Format(time.RFC3339),
	}
	if err := s.services.SaveManifest(targetPath, manifest); err != nil {
		return nil, err
	}

	var repoURL string
	repoOwner := s.cfg.GitHub.Namespace
	if useGit {
		repoURL, repoOwner, err = s.createRemoteRepository(ctx, name, opts.Description, private)
		if err != nil {
			return nil, err
		}
	}

	if useDocker {
		if err := s.wireDockerCI(ctx, repoOwner, name, targetPath); err != nil {
			return nil, err
		}
	}

	if err := s.npm.Install(ctx, targetPath); err != nil {
		return nil, err
	}

	if useGit {
		if err := s.pushInitialCommit(ctx, targetPath, repoURL); err != nil {
			return nil, err
		}
	}

	s.log.Info("服务 %s 创建完成: %s", name, targetPath)

	return &domain.Service{
		ID:        manifest.ID,
		Name:      name,
		Path:      targetPath,
		Version:   version,
		Template:  templateRef,
		RepoURL:   repoURL,
		CreatedAt: createdAt,
	}, nil
}

// fetchTemplate 把模板内容放置到目标路径
// 依次尝试 git 仓库地址、本地路径、模板注册表
func (s *scaffoldService) fetchTemplate(ctx context.Context, templateRef, targetPath string) error {
	if IsGitURL(templateRef) {
		if err := s.git.Clone(ctx, templateRef, targetPath); err != nil {
			return fmt.Errorf("克隆模板仓库失败: %w", err)
		}
		// 模板仓库的 git 历史不保留
		if err := os.RemoveAll(filepath.Join(targetPath, ".git")); err != nil {
			return fmt.Errorf("清理模板 git 目录失败: %w", err)
		}
		return nil
	}

	if strings.ContainsAny(templateRef, "/\\") || templateRef == "." || templateRef == ".." {
		if _, err := os.Stat(templateRef); err == nil {
			return s.templates.CopyTree(templateRef, targetPath)
		}
	}

	return s.templates.CopyTemplate(templateRef, targetPath)
}

// buildTags 构造模板标签集
// 较长的标签名先注册，避免被同前缀的短标签提前替换
func (s *scaffoldService) buildTags(name, version, author, email string, license *domain.License, travisTags []string, useDocker bool) *domain.TagSet {
	tags := domain.NewTagSet()
	tags.Set("LICENSE_HEADER", RenderLicenseHeader(license.Header))
	tags.Set("LICENSE", license.SPDX)
	tags.Set("SERVICE_NAME", name)
	tags.Set("VERSION", version)
	tags.Set("AUTHOR", author)
	tags.Set("EMAIL", email)
	tags.Set("YEAR", time.Now().Format("2006"))
	tags.Set("GITHUB_NAMESPACE", s.cfg.GitHub.Namespace)
	tags.Set("DOCKER_NAMESPACE", s.cfg.Docker.Namespace)
	tags.Set("TRAVIS_NODE_VERSIONS", renderTravisVersions(travisTags))
	if !useDocker {
		// 未启用 docker 时清空占位符；启用时保留，等仓库创建后二次编译
		tags.Set("DOCKER_SECURE_ENV", "")
	}
	return tags
}

// renderTravisVersions 渲染 .travis.yml 的 node 版本列表
func renderTravisVersions(tags []string) string {
	lines := make([]string, 0, len(tags))
	for _, tag := range tags {
		lines = append(lines, fmt.Sprintf("  - %q", tag))
	}
	return strings.Join(lines, "\n")
}

// createRemoteRepository 创建远程仓库，返回 ssh 地址和实际使用的命名空间
// 未配置命名空间时以令牌对应的登录名为准，后续 CI 集成沿用该命名空间
func (s *scaffoldService) createRemoteRepository(ctx context.Context, name, description string, private bool) (string, string, error) {
	namespace := s.cfg.GitHub.Namespace
	if namespace == "" {
		login, err := s.github.Login(ctx)
		if err != nil {
			return "", "", err
		}
		namespace = login
	}

	info, err := s.github.CreateRepository(ctx, namespace, name, description, private)
	if err != nil {
		return "", "", err
	}
	s.log.Info("远程仓库创建完成: %s", info.HTMLURL)

	if info.SSHURL != "" {
		return info.SSHURL, namespace, nil
	}
	return s.cfg.GitBaseURL + namespace + "/" + name + ".git", namespace, nil
}

// wireDockerCI 加密 Docker Hub 凭据并写入 .travis.yml，然后启用构建
// owner 为远程仓库实际使用的命名空间。
// Travis 侧的仓库同步可能滞后，构建启用失败不致命
func (s *scaffoldService) wireDockerCI(ctx context.Context, owner, name, targetPath string) error {
	dockerCreds, err := s.creds.Get(credentials.ProviderDockerHub)
	if err != nil {
		user := s.cfg.Docker.User
		password := s.cfg.Docker.Password
		if user == "" || password == "" {
			return fmt.Errorf("缺少 Docker Hub 凭据: %w", err)
		}
		dockerCreds = &credentials.Credentials{User: user, Secret: password}
	}

	key, err := s.travis.FetchRepoKey(ctx, owner, name)
	if err != nil {
		return fmt.Errorf("获取 travis 仓库公钥失败: %w", err)
	}

	encUser, err := s.travis.EncryptSecret(key, "DOCKER_USER", dockerCreds.User)
	if err != nil {
		return fmt.Errorf("加密 DOCKER_USER 失败: %w", err)
	}
	encPass, err := s.travis.EncryptSecret(key, "DOCKER_PASS", dockerCreds.Secret)
	if err != nil {
		return fmt.Errorf("加密 DOCKER_PASS 失败: %w", err)
	}

	travisFile := filepath.Join(targetPath, ".travis.yml")
	if _, err := os.Stat(travisFile); err != nil {
		return fmt.Errorf("模板缺少 .travis.yml，无法写入加密凭据")
	}

	secureTags := domain.NewTagSet()
	secureTags.Set("DOCKER_SECURE_ENV", renderSecureEnv(encUser, encPass))
	if err := s.tagEngine.CompileFile(travisFile, secureTags); err != nil {
		return fmt.Errorf("写入 .travis.yml 失败: %w", err)
	}

	enabled, err := s.travis.EnableBuilds(ctx, owner, name)
	if err != nil {
		return err
	}
	if !enabled {
		s.log.Warn("travis 构建未能自动启用，请在 travis 控制台手动开启仓库 %s/%s", owner, name)
	}
	return nil
}

// renderSecureEnv 渲染 .travis.yml 的加密环境变量块
func renderSecureEnv(encUser, encPass string) string {
	return fmt.Sprintf("  - secure: %q\n  - secure: %q", encUser, encPass)
}

// pushInitialCommit 初始化本地仓库并推送首次提交
func (s *scaffoldService) pushInitialCommit(ctx context.Context, targetPath, repoURL string) error {
	if err := s.git.Init(ctx, targetPath); err != nil {
		return err
	}
	if err := s.git.AddAll(ctx, targetPath); err != nil {
		return err
	}
	if err := s.git.Commit(ctx, targetPath, "Initial commit"); err != nil {
		return err
	}
	if repoURL != "" {
		if err := s.git.AddRemote(ctx, targetPath, repoURL); err != nil {
			return err
		}
		if err := s.git.Push(ctx, targetPath, "master", true); err != nil {
			return err
		}
	}
	return nil
}

// IsGitURL 判断模板引用是否为 git 仓库地址
func IsGitURL(ref string) bool {
	if strings.HasPrefix(ref, "git@") || strings.HasPrefix(ref, "git://") {
		return true
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return true
	}
	return strings.HasSuffix(ref, ".git")
}
