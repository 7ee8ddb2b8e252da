package main

import (
	"context"
	"fmt"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
	"github.com/svcgen/svcgen/internal/config"
	"github.com/svcgen/svcgen/internal/credentials"
	"github.com/svcgen/svcgen/internal/repository"
	"github.com/svcgen/svcgen/internal/service"
)

// console 表示交互式控制台结构体
// 使用 go-prompt 提供带 Tab 补全的 REPL（读取-执行-输出）循环
type console struct {
	cfg          *config.Config
	scaffoldSvc  service.ScaffoldService
	versionSvc   service.VersionService
	templateRepo repository.TemplateRepository
	credManager  credentials.Manager
}

// newConsoleCmd 创建控制台命令
// 用户执行 `svcgen console` 即可进入交互式控制台
func newConsoleCmd(
	cfg *config.Config,
	scaffoldSvc service.ScaffoldService,
	versionSvc service.VersionService,
	templateRepo repository.TemplateRepository,
	credManager credentials.Manager,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "进入交互式控制台",
		Long: `进入交互式控制台，对服务、模板、凭据进行统一管理。

示例:
  svcgen console

进入控制台后，可使用命令:
  help                         显示帮助
  create [name] [path]         创建新服务
  update-version <path> [branch] [version]
                               批量更新服务版本
  template list                列出模板
  license list                 列出支持的许可证
  credential list              列出已配置的凭据
  exit / quit                  退出控制台`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &console{
				cfg:          cfg,
				scaffoldSvc:  scaffoldSvc,
				versionSvc:   versionSvc,
				templateRepo: templateRepo,
				credManager:  credManager,
			}
			return c.run()
		},
	}

	return cmd
}

// run 启动交互式控制台主循环（带 Tab 补全）
func (c *console) run() error {
	c.printWelcome()

	p := prompt.New(
		c.executor,
		c.completer,
		prompt.OptionPrefix("svcgen> "),
		prompt.OptionTitle("svcgen console"),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionSuggestionTextColor(prompt.White),
		prompt.OptionSelectedSuggestionBGColor(prompt.Blue),
		prompt.OptionSelectedSuggestionTextColor(prompt.White),
	)

	// Run 会阻塞，直到用户退出（Ctrl+D/Ctrl+C）
	p.Run()
	fmt.Println("\n已退出控制台。")
	return nil
}

// printWelcome 打印欢迎信息
func (c *console) printWelcome() {
	fmt.Println("svcgen 交互式控制台")
	fmt.Println("输入 help 查看可用命令，输入 exit 退出。")
	fmt.Println()
}

// executor 执行单行命令
func (c *console) executor(in string) {
	line := strings.TrimSpace(in)
	if line == "" {
		return
	}
	if err := c.handleCommand(line); err != nil {
		fmt.Printf("错误: %v\n", err)
	}
}

// handleCommand 解析并执行控制台命令
func (c *console) handleCommand(line string) error {
	parts := strings.Fields(line)

	switch parts[0] {
	case "help":
		c.printHelp()
		return nil
	case "exit", "quit":
		fmt.Println("再见。")
		// go-prompt 无法从 executor 内部退出循环，提示用户使用快捷键
		fmt.Println("按 Ctrl+D 退出控制台。")
		return nil
	case "create":
		return c.handleCreate(parts[1:])
	case "update-version":
		return c.handleUpdateVersion(parts[1:])
	case "template":
		return c.handleTemplate(parts[1:])
	case "license":
		return c.handleLicense(parts[1:])
	case "credential":
		return c.handleCredential(parts[1:])
	default:
		return fmt.Errorf("未知命令: %s，输入 help 查看可用命令", parts[0])
	}
}

// handleCreate 控制台创建服务
func (c *console) handleCreate(args []string) error {
	opts := service.CreateOptions{
		NameProvider:      inputProvider("请输入服务名"),
		AuthorProvider:    inputProvider("请输入作者"),
		EmailProvider:     inputProvider("请输入邮箱"),
		LicenseProvider:   inputProvider("请输入许可证标识（留空使用 UNLICENSED）"),
		UseGitProvider:    confirmProvider("是否创建远程 git 仓库?"),
		UseDockerProvider: confirmProvider("是否启用 Docker CI 集成?"),
	}
	if len(args) >= 1 {
		opts.Name = args[0]
	}
	if len(args) >= 2 {
		opts.Path = args[1]
	}

	svc, err := c.scaffoldSvc.Create(context.Background(), opts)
	if err != nil {
		return err
	}

	fmt.Printf("服务 %s 创建成功，路径: %s\n", svc.Name, svc.Path)
	return nil
}

// handleUpdateVersion 控制台批量更新版本
func (c *console) handleUpdateVersion(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("用法: update-version <path> [branch] [version]")
	}

	opts := service.UpdateOptions{Path: args[0]}
	if len(args) >= 2 {
		opts.Branch = args[1]
	}
	if len(args) >= 3 {
		opts.Bump = args[2]
	}

	results, err := c.versionSvc.Update(context.Background(), opts)
	if err != nil {
		return err
	}

	for _, result := range results {
		fmt.Printf("%s:\n", result.Dir)
		for _, step := range result.Steps {
			if step.Err != nil {
				fmt.Printf("  [失败] %s: %v\n", step.Step, step.Err)
			} else {
				fmt.Printf("  [完成] %s\n", step.Step)
			}
		}
	}
	return nil
}

// handleTemplate 控制台模板命令
func (c *console) handleTemplate(args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return fmt.Errorf("用法: template list")
	}

	templates, err := c.templateRepo.ListTemplates()
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		fmt.Println("没有找到模板")
		return nil
	}

	fmt.Println("可用模板:")
	for _, tmpl := range templates {
		fmt.Printf("  - %s", tmpl.Name)
		if tmpl.Description != "" {
			fmt.Printf(": %s", tmpl.Description)
		}
		fmt.Println()
	}
	return nil
}

// handleLicense 控制台许可证命令
func (c *console) handleLicense(args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return fmt.Errorf("用法: license list")
	}

	fmt.Println("支持的许可证:")
	for _, license := range service.ListLicenses() {
		fmt.Printf("  - %s: %s\n", license.SPDX, license.Name)
	}
	return nil
}

// handleCredential 控制台凭据命令
func (c *console) handleCredential(args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return fmt.Errorf("用法: credential list")
	}

	providers := c.credManager.List()
	if len(providers) == 0 {
		fmt.Println("未配置任何凭据")
		return nil
	}

	fmt.Println("已配置的服务凭据:")
	for _, provider := range providers {
		creds, err := c.credManager.Get(provider)
		if err != nil {
			fmt.Printf("  %s: 获取失败 - %v\n", provider.DisplayName(), err)
			continue
		}
		fmt.Printf("  %s (%s): %s\n", provider.DisplayName(), provider, maskSecret(creds.Secret))
	}
	return nil
}

// printHelp 打印帮助信息
func (c *console) printHelp() {
	fmt.Println(`可用命令:
  help                         显示帮助
  create [name] [path]         创建新服务
  update-version <path> [branch] [version]
                               批量更新服务版本
  template list                列出模板
  license list                 列出支持的许可证
  credential list              列出已配置的凭据
  exit / quit                  退出控制台`)
}

// completer 提供 Tab 补全
func (c *console) completer(d prompt.Document) []prompt.Suggest {
	text := d.TextBeforeCursor()
	parts := strings.Fields(text)

	// 如果正在输入第一个单词（顶级命令）
	if len(parts) == 0 {
		return c.topLevelSuggestions("")
	}

	// 当前正在输入的 token
	current := ""
	if !strings.HasSuffix(text, " ") {
		current = parts[len(parts)-1]
	}

	switch parts[0] {
	case "create":
		// create [name] [path]，不做名称补全
		return []prompt.Suggest{}
	case "update-version":
		return c.completeUpdateVersion(parts[1:], current)
	case "template", "license", "credential":
		if len(parts) == 1 || (len(parts) == 2 && current != "") {
			return filterSuggestions([]prompt.Suggest{
				{Text: "list", Description: "列出条目"},
			}, current)
		}
		return []prompt.Suggest{}
	default:
		if len(parts) == 1 && current != "" {
			return c.topLevelSuggestions(current)
		}
	}

	return []prompt.Suggest{}
}

// completeUpdateVersion update-version 参数补全
func (c *console) completeUpdateVersion(args []string, current string) []prompt.Suggest {
	// 第三个参数是升级类型
	argIdx := len(args)
	if current != "" {
		argIdx--
	}
	if argIdx == 2 {
		return filterSuggestions([]prompt.Suggest{
			{Text: "major", Description: "主版本"},
			{Text: "minor", Description: "次版本"},
			{Text: "patch", Description: "补丁版本"},
			{Text: "premajor", Description: "预发布主版本"},
			{Text: "preminor", Description: "预发布次版本"},
			{Text: "prepatch", Description: "预发布补丁版本"},
			{Text: "prerelease", Description: "预发布版本"},
		}, current)
	}
	return []prompt.Suggest{}
}

// topLevelSuggestions 顶级命令补全
func (c *console) topLevelSuggestions(current string) []prompt.Suggest {
	return filterSuggestions([]prompt.Suggest{
		{Text: "help", Description: "显示帮助"},
		{Text: "create", Description: "创建新服务"},
		{Text: "update-version", Description: "批量更新服务版本"},
		{Text: "template", Description: "模板管理命令"},
		{Text: "license", Description: "许可证管理命令"},
		{Text: "credential", Description: "凭据管理命令"},
		{Text: "exit", Description: "退出控制台"},
		{Text: "quit", Description: "退出控制台"},
	}, current)
}

// filterSuggestions 按前缀过滤补全项
func filterSuggestions(suggestions []prompt.Suggest, current string) []prompt.Suggest {
	var res []prompt.Suggest
	for _, s := range suggestions {
		if strings.HasPrefix(s.Text, current) {
			res = append(res, s)
		}
	}
	return res
}
