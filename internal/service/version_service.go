package service

import (
	"context"
	"fmt"
	"os"

	"github.com/svcgen/svcgen/internal/config"
	"github.com/svcgen/svcgen/internal/logger"
	"github.com/svcgen/svcgen/internal/repository"
)

// StepName 版本更新流水线的步骤名
type StepName string

const (
	StepCheckout    StepName = "CHECKOUT"
	StepPull        StepName = "PULL"
	StepBumpVersion StepName = "BUMP_VERSION"
	StepPush        StepName = "PUSH"
)

// pipelineSteps 每个服务目录按此顺序执行
var pipelineSteps = []StepName{StepCheckout, StepPull, StepBumpVersion, StepPush}

// StepResult 单个步骤的执行结果
type StepResult struct {
	// 步骤名
	Step StepName

	// 执行失败时的错误
	Err error
}

// UpdateResult 单个服务目录的更新结果
// 某一步失败后该目录的后续步骤不再执行
type UpdateResult struct {
	// 服务目录
	Dir string

	// 已执行的步骤及其结果
	Steps []StepResult

	// 是否有步骤失败
	Failed bool
}

// UpdateOptions 版本更新的输入
type UpdateOptions struct {
	// 服务根目录或包含多个服务的父目录
	Path string

	// 操作分支，默认 master
	Branch string

	// npm version 的升级类型，默认 prerelease
	Bump string
}

// VersionService 批量版本更新
type VersionService interface {
	// Update 对发现的每个服务目录执行 检出-拉取-升级版本-推送 流水线
	// 单个目录失败不影响其余目录
	Update(ctx context.Context, opts UpdateOptions) ([]UpdateResult, error)
}

// versionService 批量版本更新实现
type versionService struct {
	cfg      *config.Config
	log      logger.Logger
	services repository.ServiceRepository
	git      GitService
	npm      NpmService
}

// NewVersionService 创建批量版本更新实例
func NewVersionService(
	cfg *config.Config,
	log logger.Logger,
	services repository.ServiceRepository,
	git GitService,
	npm NpmService,
) VersionService {
	return &versionService{
		cfg:      cfg,
		log:      log,
		services: services,
		git:      git,
		npm:      npm,
	}
}

// Update 对发现的每个服务目录执行版本更新流水线
func (s *versionService) Update(ctx context.Context, opts UpdateOptions) ([]UpdateResult, error) {
	branch := opts.Branch
	if branch == "" {
		branch = "master"
	}
	bump := opts.Bump
	if bump == "" {
		bump = "prerelease"
	}
	if err := ValidateBumpKind(bump); err != nil {
		return nil, err
	}

	if _, err := os.Stat(opts.Path); err != nil {
		return nil, fmt.Errorf("路径 %s 不存在: %w", opts.Path, err)
	}

	dirs, err := s.services.Discover(opts.Path)
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("路径 %s 下未发现服务目录", opts.Path)
	}

	s.log.Info("发现 %d 个服务目录，分支: %s，升级类型: %s", len(dirs), branch, bump)

	results := make([]UpdateResult, 0, len(dirs))
	for _, dir := range dirs {
		result := s.updateOne(ctx, dir, branch, bump)
		if result.Failed {
			s.log.Error("服务目录 %s 更新失败", dir)
		} else {
			s.log.Info("服务目录 %s 更新完成", dir)
		}
		results = append(results, result)
	}

	return results, nil
}

// updateOne 对单个服务目录执行流水线，第一个失败的步骤后直接返回
func (s *versionService) updateOne(ctx context.Context, dir, branch, bump string) UpdateResult {
	result := UpdateResult{Dir: dir}

	for _, step := range pipelineSteps {
		err := s.runStep(ctx, step, dir, branch, bump)
		result.Steps = append(result.Steps, StepResult{Step: step, Err: err})
		if err != nil {
			s.log.Error("步骤 %s 在 %s 执行失败: %v", step, dir, err)
			result.Failed = true
			break
		}
		s.log.Debug("步骤 %s 在 %s 执行完成", step, dir)
	}

	return result
}

// runStep 执行流水线中的单个步骤
func (s *versionService) runStep(ctx context.Context, step StepName, dir, branch, bump string) error {
	switch step {
	case StepCheckout:
		return s.git.Checkout(ctx, dir, branch)
	case StepPull:
		return s.git.Pull(ctx, dir)
	case StepBumpVersion:
		return s.npm.BumpVersion(ctx, dir, bump)
	case StepPush:
		return s.git.Push(ctx, dir, branch, false)
	default:
		return fmt.Errorf("未知的流水线步骤: %s", step)
	}
}
