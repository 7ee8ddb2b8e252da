package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/svcgen/svcgen/internal/config"
	"github.com/svcgen/svcgen/internal/logger"
)

// npm version 支持的版本递增类型
var npmBumpKinds = []string{"major", "minor", "patch", "premajor", "preminor", "prepatch", "prerelease"}

// ValidateBumpKind 校验 npm version 的版本递增类型
func ValidateBumpKind(kind string) error {
	for _, known := range npmBumpKinds {
		if kind == known {
			return nil
		}
	}
	return fmt.Errorf("无效的版本递增类型: %s（支持: major, minor, patch, premajor, preminor, prepatch, prerelease）", kind)
}

// NpmService npm 操作服务接口
type NpmService interface {
	// Install 安装依赖
	Install(ctx context.Context, workDir string) error

	// BumpVersion 递增 package.json 中的版本并创建 git tag
	// kind 为 npm version 的递增类型（major/minor/patch/pre*）
	BumpVersion(ctx context.Context, workDir, kind string) error
}

// npmService npm 服务实现
type npmService struct {
	config *config.Config
	runner CommandRunner
	log    logger.Logger
}

// NewNpmService 创建 npm 服务实例
func NewNpmService(cfg *config.Config, runner CommandRunner, log logger.Logger) NpmService {
	return &npmService{
		config: cfg,
		runner: runner,
		log:    log,
	}
}

// Install 安装依赖
func (s *npmService) Install(ctx context.Context, workDir string) error {
	s.log.Info("安装依赖: workDir=%s", workDir)

	if err := s.runner.Run(ctx, workDir, s.config.Exec.NpmPath, "install"); err != nil {
		s.log.Error("npm install 失败: workDir=%s, error=%v", workDir, err)
		return fmt.Errorf("npm install 失败: %w", err)
	}
	return nil
}

// BumpVersion 递增版本
func (s *npmService) BumpVersion(ctx context.Context, workDir, kind string) error {
	if err := ValidateBumpKind(kind); err != nil {
		return err
	}

	s.log.Info("递增版本: workDir=%s, kind=%s", workDir, kind)

	// npm version 会输出新版本号（如 v1.2.4）
	out, err := s.runner.Output(ctx, workDir, s.config.Exec.NpmPath, "version", kind)
	if err != nil {
		s.log.Error("npm version 失败: workDir=%s, kind=%s, error=%v", workDir, kind, err)
		return fmt.Errorf("npm version 失败: %w", err)
	}
	if version := strings.TrimSpace(string(out)); version != "" {
		s.log.Info("版本已更新: workDir=%s, version=%s", workDir, version)
	}
	return nil
}
