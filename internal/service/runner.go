package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// CommandRunner 外部命令执行接口
// git/npm 编排通过该接口调用外部进程，测试可注入记录型实现
type CommandRunner interface {
	// Run 在 dir 中同步执行命令，透传 stdout/stderr
	Run(ctx context.Context, dir, name string, args ...string) error

	// Output 在 dir 中同步执行命令并返回 stdout
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// execRunner 基于 os/exec 的命令执行实现
type execRunner struct{}

// NewExecRunner 创建命令执行实例
func NewExecRunner() CommandRunner {
	return &execRunner{}
}

// Run 在 dir 中同步执行命令
func (r *execRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Output 在 dir 中同步执行命令并返回 stdout
func (r *execRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	return cmd.Output()
}

// CheckInstalled 检查外部命令是否可用
func CheckInstalled(execPath string) error {
	cmd := exec.Command(execPath, "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s 未安装或不在 PATH 中: %w", execPath, err)
	}
	return nil
}
