package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svcgen/svcgen/internal/config"
	"github.com/svcgen/svcgen/internal/credentials"
	"github.com/svcgen/svcgen/internal/logger"
	"github.com/svcgen/svcgen/internal/repository"
)

// scaffoldFixture 脚手架测试夹具
type scaffoldFixture struct {
	cfg     *config.Config
	git     *fakeGit
	npm     *fakeNpm
	github  *fakeGitHub
	travis  *fakeTravis
	svc     ScaffoldService
	repo    repository.ServiceRepository
	workDir string
}

// newScaffoldFixture 构造带临时模板注册表的测试夹具
func newScaffoldFixture(t *testing.T) *scaffoldFixture {
	t.Helper()

	workDir := t.TempDir()
	registryDir := filepath.Join(workDir, "registry")
	templateDir := filepath.Join(registryDir, "node-basic")
	require.NoError(t, os.MkdirAll(templateDir, 0755))

	files := map[string]string{
		"package.json": `{"name": "%SERVICE_NAME", "version": "%VERSION", "author": "%AUTHOR <%EMAIL>", "license": "%LICENSE"}`,
		"index.js":     "%LICENSE_HEADER\nmodule.exports = {};\n",
		".travis.yml":  "language: node_js\nnode_js:\n%TRAVIS_NODE_VERSIONS\nenv:\n%DOCKER_SECURE_ENV\n",
		"readme.md":    "# 基础 node 服务模板\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(templateDir, name), []byte(content), 0644))
	}

	cfg := &config.Config{
		Author:      "alice",
		Email:       "alice@example.com",
		License:     "MIT",
		RegistryDir: registryDir,
		GitBaseURL:  "git@github.com:",
		GitHub:      config.GitHubConfig{Namespace: "acme"},
		Docker:      config.DockerConfig{Namespace: "acmedock", User: "dockuser", Password: "dockpass"},
	}

	creds, err := credentials.NewManager("")
	require.NoError(t, err)

	git := &fakeGit{fail: map[string]error{}}
	npm := &fakeNpm{fail: map[string]error{}}
	github := &fakeGitHub{login: "alice"}
	travis := &fakeTravis{enabled: true}

	log := logger.NewNop()
	serviceRepo := repository.NewServiceRepository()
	svc := NewScaffoldService(cfg, log, repository.NewTemplateRepository(cfg), serviceRepo,
		NewTagEngine(), git, npm, github, travis, &fakeNodeCatalog{}, creds)

	return &scaffoldFixture{
		cfg:     cfg,
		git:     git,
		npm:     npm,
		github:  github,
		travis:  travis,
		svc:     svc,
		repo:    serviceRepo,
		workDir: workDir,
	}
}

func (f *scaffoldFixture) createOptions(name string) CreateOptions {
	no := false
	return CreateOptions{
		Name:      name,
		Path:      filepath.Join(f.workDir, name),
		Template:  "node-basic",
		Version:   "0.1.0",
		UseGit:    &no,
		UseDocker: &no,
	}
}

func TestCreateLocalOnly(t *testing.T) {
	f := newScaffoldFixture(t)
	opts := f.createOptions("demo")

	svc, err := f.svc.Create(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "demo", svc.Name)
	assert.Equal(t, "0.1.0", svc.Version)
	assert.Empty(t, svc.RepoURL)

	// 标签替换生效
	data, err := os.ReadFile(filepath.Join(svc.Path, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "demo"`)
	assert.Contains(t, string(data), `"version": "0.1.0"`)
	assert.Contains(t, string(data), "alice <alice@example.com>")
	assert.Contains(t, string(data), `"license": "MIT"`)

	// 许可证头被渲染为块注释
	data, err = os.ReadFile(filepath.Join(svc.Path, "index.js"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "/*")
	assert.NotContains(t, string(data), "%LICENSE")

	// LICENSE 文件写入且占位符被填充
	data, err = os.ReadFile(filepath.Join(svc.Path, "LICENSE"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "alice")
	assert.NotContains(t, string(data), "[fullname]")

	// 未启用 docker 时凭据占位符被清空
	data, err = os.ReadFile(filepath.Join(svc.Path, ".travis.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lts/*"`)
	assert.NotContains(t, string(data), "%DOCKER_SECURE_ENV")
	assert.NotContains(t, string(data), "%TRAVIS_NODE_VERSIONS")

	// 清单可被重新发现
	manifest, err := f.repo.LoadManifest(svc.Path)
	require.NoError(t, err)
	assert.Equal(t, "demo", manifest.Name)
	assert.Equal(t, svc.ID, manifest.ID)

	// 依赖安装执行，git 未触碰
	assert.Contains(t, f.npm.calls, "install "+svc.Path)
	assert.Empty(t, f.git.calls)
}

func TestCreateWithGit(t *testing.T) {
	f := newScaffoldFixture(t)
	yes := true
	opts := f.createOptions("demo")
	opts.UseGit = &yes

	svc, err := f.svc.Create(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "git@github.com:acme/demo.git", svc.RepoURL)
	assert.Contains(t, f.github.created, "acme/demo")

	assert.Contains(t, f.git.calls, "init "+svc.Path)
	assert.Contains(t, f.git.calls, "add "+svc.Path)
	assert.Contains(t, f.git.calls, "commit "+svc.Path)
	assert.Contains(t, f.git.calls, "remote "+svc.Path)
	assert.Contains(t, f.git.calls, "push "+svc.Path)
}

func TestCreateWithDockerCI(t *testing.T) {
	f := newScaffoldFixture(t)
	key, _ := generateTestKey(t)
	f.travis.key = &key.PublicKey

	yes := true
	opts := f.createOptions("demo")
	opts.UseGit = &yes
	opts.UseDocker = &yes

	svc, err := f.svc.Create(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"DOCKER_USER", "DOCKER_PASS"}, f.travis.encrypted)

	// 加密值在仓库创建后通过二次编译写入 .travis.yml
	data, err := os.ReadFile(filepath.Join(svc.Path, ".travis.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "enc(DOCKER_USER)")
	assert.Contains(t, string(data), "enc(DOCKER_PASS)")
	assert.NotContains(t, string(data), "%DOCKER_SECURE_ENV")
}

func TestCreateDockerOwnerFromLogin(t *testing.T) {
	// 未配置命名空间时，CI 集成使用令牌登录名对应的命名空间
	f := newScaffoldFixture(t)
	f.cfg.GitHub.Namespace = ""
	key, _ := generateTestKey(t)
	f.travis.key = &key.PublicKey

	yes := true
	opts := f.createOptions("demo")
	opts.UseGit = &yes
	opts.UseDocker = &yes

	svc, err := f.svc.Create(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "git@github.com:alice/demo.git", svc.RepoURL)
	require.NotEmpty(t, f.travis.owners)
	for _, owner := range f.travis.owners {
		assert.Equal(t, "alice", owner)
	}
}

func TestCreateLicensePrompted(t *testing.T) {
	// 无参数且无配置默认值时通过提问器取得许可证
	f := newScaffoldFixture(t)
	f.cfg.License = ""

	opts := f.createOptions("demo")
	opts.License = ""
	opts.LicenseProvider = func() (string, error) { return "ISC", nil }

	svc, err := f.svc.Create(context.Background(), opts)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(svc.Path, "LICENSE"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ISC License")
}

func TestCreateLicenseDefaultsUnlicensed(t *testing.T) {
	// 用户从未选择许可证时按专有软件处理，而不是悄悄套用 MIT
	f := newScaffoldFixture(t)
	f.cfg.License = ""

	opts := f.createOptions("demo")
	opts.License = ""

	svc, err := f.svc.Create(context.Background(), opts)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(svc.Path, "LICENSE"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "UNLICENSED")
	assert.Contains(t, string(data), "All rights reserved")

	data, err = os.ReadFile(filepath.Join(svc.Path, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"license": "UNLICENSED"`)
}

func TestCreateDockerRequiresGit(t *testing.T) {
	f := newScaffoldFixture(t)
	yes, no := true, false
	opts := f.createOptions("demo")
	opts.UseGit = &no
	opts.UseDocker = &yes

	_, err := f.svc.Create(context.Background(), opts)
	require.Error(t, err)
	assert.NoDirExists(t, opts.Path)
}

func TestCreateCleanupOnFailure(t *testing.T) {
	f := newScaffoldFixture(t)
	f.npm.fail["install"] = os.ErrPermission

	opts := f.createOptions("demo")
	_, err := f.svc.Create(context.Background(), opts)
	require.Error(t, err)

	// 失败时生成目录被清理
	assert.NoDirExists(t, opts.Path)
}

func TestCreateTargetExists(t *testing.T) {
	f := newScaffoldFixture(t)
	opts := f.createOptions("demo")
	require.NoError(t, os.MkdirAll(opts.Path, 0755))

	_, err := f.svc.Create(context.Background(), opts)
	require.Error(t, err)

	// 已存在的目录不会被清理
	assert.DirExists(t, opts.Path)
}

func TestCreateInvalidName(t *testing.T) {
	f := newScaffoldFixture(t)
	opts := f.createOptions("demo")
	opts.Name = "1bad name"

	_, err := f.svc.Create(context.Background(), opts)
	assert.Error(t, err)
}

func TestCreateUnknownTemplate(t *testing.T) {
	f := newScaffoldFixture(t)
	opts := f.createOptions("demo")
	opts.Template = "nope"

	_, err := f.svc.Create(context.Background(), opts)
	require.Error(t, err)
	assert.NoDirExists(t, opts.Path)
}

func TestCreateInvalidNodeTag(t *testing.T) {
	f := newScaffoldFixture(t)
	opts := f.createOptions("demo")
	opts.NodeVersions = []string{"99"}

	_, err := f.svc.Create(context.Background(), opts)
	require.Error(t, err)
	assert.NoDirExists(t, opts.Path)
}

func TestCreateGitURLTemplate(t *testing.T) {
	f := newScaffoldFixture(t)
	opts := f.createOptions("demo")
	opts.Template = "git@github.com:acme/tmpl-node.git"

	// 克隆替身不会真正放置文件，后续编译会失败；只验证走了 clone 分支
	_, _ = f.svc.Create(context.Background(), opts)
	assert.Contains(t, f.git.calls, "clone "+opts.Path)
}

func TestIsGitURL(t *testing.T) {
	assert.True(t, IsGitURL("git@github.com:acme/tmpl.git"))
	assert.True(t, IsGitURL("git://github.com/acme/tmpl"))
	assert.True(t, IsGitURL("https://github.com/acme/tmpl.git"))
	assert.True(t, IsGitURL("http://example.com/tmpl"))
	assert.True(t, IsGitURL("../local/tmpl.git"))

	assert.False(t, IsGitURL("node-basic"))
	assert.False(t, IsGitURL("./templates/node-basic"))
}
