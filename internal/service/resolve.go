package service

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// 纯校验函数与交互式回退策略分离：
// 核心逻辑只依赖 ValueProvider 函数，终端交互由 cmd 层注入

// ValueProvider 在值缺失时提供一个值（通常为交互式输入）
type ValueProvider func() (string, error)

// BoolProvider 在布尔开关缺失时提供一个值
type BoolProvider func() (bool, error)

var (
	serviceNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	emailRe       = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	namespaceRe   = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
)

// ValidateServiceName 校验服务名称
// 名称只能包含字母、数字、连字符和下划线，且以字母开头
func ValidateServiceName(name string) error {
	if name == "" {
		return fmt.Errorf("服务名称不能为空")
	}
	if !serviceNameRe.MatchString(name) {
		return fmt.Errorf("无效的服务名称: %s（只能包含字母、数字、连字符和下划线，且以字母开头）", name)
	}
	return nil
}

// ValidateVersion 校验语义化版本号
func ValidateVersion(version string) error {
	if version == "" {
		return fmt.Errorf("版本号不能为空")
	}
	if !semver.IsValid("v" + strings.TrimPrefix(version, "v")) {
		return fmt.Errorf("无效的版本号: %s（需要符合语义化版本规范，如 1.0.0）", version)
	}
	return nil
}

// ValidateEmail 校验邮箱地址
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("邮箱不能为空")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("无效的邮箱地址: %s", email)
	}
	return nil
}

// ValidateNamespace 校验 GitHub/Docker 命名空间
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("命名空间不能为空")
	}
	if !namespaceRe.MatchString(namespace) {
		return fmt.Errorf("无效的命名空间: %s", namespace)
	}
	return nil
}

// ResolveValue 按优先级解析一个配置值：
// 命令行参数 > 配置默认值 > provider（交互式输入）。
// validate 为 nil 时跳过校验；provider 为 nil 且无可用值时报错
func ResolveValue(flagValue, configDefault string, provider ValueProvider, validate func(string) error) (string, error) {
	value := flagValue
	if value == "" {
		value = configDefault
	}
	if value == "" {
		if provider == nil {
			return "", fmt.Errorf("缺少必需的值且无法交互式获取")
		}
		v, err := provider()
		if err != nil {
			return "", fmt.Errorf("获取输入失败: %w", err)
		}
		value = strings.TrimSpace(v)
	}

	if validate != nil {
		if err := validate(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

// ResolveBool 按优先级解析一个布尔开关：
// 命令行参数 > 配置默认值 > provider（交互式询问）。
// provider 为 nil 且无可用值时返回 false
func ResolveBool(flagValue, configDefault *bool, provider BoolProvider) (bool, error) {
	if flagValue != nil {
		return *flagValue, nil
	}
	if configDefault != nil {
		return *configDefault, nil
	}
	if provider == nil {
		return false, nil
	}
	v, err := provider()
	if err != nil {
		return false, fmt.Errorf("获取输入失败: %w", err)
	}
	return v, nil
}
