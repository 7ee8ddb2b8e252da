package service

import (
	"context"
	"fmt"

	"github.com/svcgen/svcgen/internal/config"
	"github.com/svcgen/svcgen/internal/logger"
)

// GitService git 操作服务接口
// 所有操作阻塞直到子进程退出
type GitService interface {
	// Init 初始化本地仓库
	Init(ctx context.Context, workDir string) error

	// AddAll 暂存所有变更
	AddAll(ctx context.Context, workDir string) error

	// Commit 提交暂存的变更
	Commit(ctx context.Context, workDir, message string) error

	// AddRemote 添加 origin 远程地址
	AddRemote(ctx context.Context, workDir, url string) error

	// Push 推送到远程
	// setUpstream 为 true 时使用 -u 建立跟踪关系
	Push(ctx context.Context, workDir, branch string, setUpstream bool) error

	// Clone 克隆远程仓库到目标目录
	Clone(ctx context.Context, url, destPath string) error

	// Checkout 切换分支
	Checkout(ctx context.Context, workDir, branch string) error

	// Pull 拉取远程变更
	Pull(ctx context.Context, workDir string) error
}

// gitService git 服务实现
type gitService struct {
	config *config.Config
	runner CommandRunner
	log    logger.Logger
}

// NewGitService 创建 git 服务实例
func NewGitService(cfg *config.Config, runner CommandRunner, log logger.Logger) GitService {
	return &gitService{
		config: cfg,
		runner: runner,
		log:    log,
	}
}

// Init 初始化本地仓库
func (s *gitService) Init(ctx context.Context, workDir string) error {
	s.log.Info("初始化 git 仓库: workDir=%s", workDir)

	if err := s.runner.Run(ctx, workDir, s.config.Exec.GitPath, "init"); err != nil {
		s.log.Error("git init 失败: workDir=%s, error=%v", workDir, err)
		return fmt.Errorf("git init 失败: %w", err)
	}
	return nil
}

// AddAll 暂存所有变更
func (s *gitService) AddAll(ctx context.Context, workDir string) error {
	if err := s.runner.Run(ctx, workDir, s.config.Exec.GitPath, "add", "."); err != nil {
		s.log.Error("git add 失败: workDir=%s, error=%v", workDir, err)
		return fmt.Errorf("git add 失败: %w", err)
	}
	return nil
}

// Commit 提交暂存的变更
func (s *gitService) Commit(ctx context.Context, workDir, message string) error {
	if err := s.runner.Run(ctx, workDir, s.config.Exec.GitPath, "commit", "-m", message); err != nil {
		s.log.Error("git commit 失败: workDir=%s, error=%v", workDir, err)
		return fmt.Errorf("git commit 失败: %w", err)
	}
	return nil
}

// AddRemote 添加 origin 远程地址
func (s *gitService) AddRemote(ctx context.Context, workDir, url string) error {
	if err := s.runner.Run(ctx, workDir, s.config.Exec.GitPath, "remote", "add", "origin", url); err != nil {
		s.log.Error("git remote add 失败: workDir=%s, url=%s, error=%v", workDir, url, err)
		return fmt.Errorf("git remote add 失败: %w", err)
	}
	return nil
}

// Push 推送到远程
func (s *gitService) Push(ctx context.Context, workDir, branch string, setUpstream bool) error {
	s.log.Info("推送到远程: workDir=%s, branch=%s", workDir, branch)

	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, "origin", branch)

	if err := s.runner.Run(ctx, workDir, s.config.Exec.GitPath, args...); err != nil {
		s.log.Error("git push 失败: workDir=%s, branch=%s, error=%v", workDir, branch, err)
		return fmt.Errorf("git push 失败: %w", err)
	}
	return nil
}

// Clone 克隆远程仓库到目标目录
func (s *gitService) Clone(ctx context.Context, url, destPath string) error {
	s.log.Info("克隆模板仓库: url=%s, dest=%s", url, destPath)

	if err := s.runner.Run(ctx, ".", s.config.Exec.GitPath, "clone", "--depth", "1", url, destPath); err != nil {
		s.log.Error("git clone 失败: url=%s, error=%v", url, err)
		return fmt.Errorf("git clone 失败: %w", err)
	}
	return nil
}

// Checkout 切换分支
func (s *gitService) Checkout(ctx context.Context, workDir, branch string) error {
	if err := s.runner.Run(ctx, workDir, s.config.Exec.GitPath, "checkout", branch); err != nil {
		s.log.Error("git checkout 失败: workDir=%s, branch=%s, error=%v", workDir, branch, err)
		return fmt.Errorf("git checkout 失败: %w", err)
	}
	return nil
}

// Pull 拉取远程变更
func (s *gitService) Pull(ctx context.Context, workDir string) error {
	if err := s.runner.Run(ctx, workDir, s.config.Exec.GitPath, "pull"); err != nil {
		s.log.Error("git pull 失败: workDir=%s, error=%v", workDir, err)
		return fmt.Errorf("git pull 失败: %w", err)
	}
	return nil
}
