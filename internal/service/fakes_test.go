package service

import (
	"context"
	"crypto/rsa"
	"fmt"

	"github.com/svcgen/svcgen/internal/domain"
)

// 测试用的服务替身，按操作名记录调用并返回预设错误

type fakeGit struct {
	calls []string
	fail  map[string]error
}

func (g *fakeGit) record(op, dir string) error {
	g.calls = append(g.calls, op+" "+dir)
	return g.fail[op]
}

func (g *fakeGit) Init(ctx context.Context, workDir string) error {
	return g.record("init", workDir)
}

func (g *fakeGit) AddAll(ctx context.Context, workDir string) error {
	return g.record("add", workDir)
}

func (g *fakeGit) Commit(ctx context.Context, workDir, message string) error {
	return g.record("commit", workDir)
}

func (g *fakeGit) AddRemote(ctx context.Context, workDir, url string) error {
	return g.record("remote", workDir)
}

func (g *fakeGit) Push(ctx context.Context, workDir, branch string, setUpstream bool) error {
	return g.record("push", workDir)
}

func (g *fakeGit) Clone(ctx context.Context, url, destPath string) error {
	return g.record("clone", destPath)
}

func (g *fakeGit) Checkout(ctx context.Context, workDir, branch string) error {
	return g.record("checkout", workDir)
}

func (g *fakeGit) Pull(ctx context.Context, workDir string) error {
	return g.record("pull", workDir)
}

type fakeNpm struct {
	calls []string
	fail  map[string]error
}

func (n *fakeNpm) Install(ctx context.Context, workDir string) error {
	n.calls = append(n.calls, "install "+workDir)
	return n.fail["install"]
}

func (n *fakeNpm) BumpVersion(ctx context.Context, workDir, kind string) error {
	if err := ValidateBumpKind(kind); err != nil {
		return err
	}
	n.calls = append(n.calls, "version "+workDir)
	return n.fail["version"]
}

type fakeGitHub struct {
	login   string
	created []string
	err     error
}

func (g *fakeGitHub) Login(ctx context.Context) (string, error) {
	return g.login, nil
}

func (g *fakeGitHub) CreateRepository(ctx context.Context, namespace, name, description string, private bool) (*RepositoryInfo, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.created = append(g.created, namespace+"/"+name)
	return &RepositoryInfo{
		FullName: namespace + "/" + name,
		SSHURL:   fmt.Sprintf("git@github.com:%s/%s.git", namespace, name),
	}, nil
}

type fakeTravis struct {
	key       *rsa.PublicKey
	encrypted []string
	enabled   bool
	owners    []string
}

func (c *fakeTravis) FetchRepoKey(ctx context.Context, owner, name string) (*rsa.PublicKey, error) {
	c.owners = append(c.owners, owner)
	if c.key == nil {
		return nil, fmt.Errorf("无公钥")
	}
	return c.key, nil
}

func (c *fakeTravis) EncryptSecret(key *rsa.PublicKey, name, value string) (string, error) {
	c.encrypted = append(c.encrypted, name)
	return "enc(" + name + ")", nil
}

func (c *fakeTravis) EnableBuilds(ctx context.Context, owner, name string) (bool, error) {
	c.owners = append(c.owners, owner)
	return c.enabled, nil
}

type fakeNodeCatalog struct{}

func (c *fakeNodeCatalog) Releases(ctx context.Context) ([]domain.NodeRelease, error) {
	return []domain.NodeRelease{
		{Version: "v21.1.0"},
		{Version: "v20.11.1", LTS: true, LTSName: "Iron"},
	}, nil
}

func (c *fakeNodeCatalog) Resolve(ctx context.Context, tag string) (string, error) {
	switch tag {
	case "latest", "node":
		return "v21.1.0", nil
	case "lts", "stable":
		return "v20.11.1", nil
	}
	return "", fmt.Errorf("未找到匹配版本标签 %s 的 node 版本", tag)
}
