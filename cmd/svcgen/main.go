package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/svcgen/svcgen/internal/config"
	"github.com/svcgen/svcgen/internal/credentials"
	"github.com/svcgen/svcgen/internal/logger"
	"github.com/svcgen/svcgen/internal/repository"
	"github.com/svcgen/svcgen/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志系统
	logConfig := &logger.Config{
		Level:         logger.ParseLevel(cfg.Log.Level),
		EnableConsole: cfg.Log.EnableConsole,
		EnableFile:    cfg.Log.EnableFile,
		LogDir:        cfg.Log.LogDir,
		LogFile:       cfg.Log.LogFile,
	}

	log, err := logger.New(logConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志系统失败: %v\n", err)
		os.Exit(1)
	}

	log.Info("svcgen 启动")
	log.Debug("配置加载成功: RegistryDir=%s, NodeIndexURL=%s", cfg.RegistryDir, cfg.NodeIndexURL)

	// 初始化凭据管理器
	credManager, err := credentials.NewManager(cfg.CredentialConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化凭据管理器失败: %v\n", err)
		os.Exit(1)
	}

	// 检查外部命令可用性，缺失时不中止（部分命令不依赖它们）
	for _, tool := range []string{cfg.Exec.GitPath, cfg.Exec.NpmPath} {
		if err := service.CheckInstalled(tool); err != nil {
			log.Warn("外部命令检查: %v", err)
		}
	}

	// 初始化仓库与服务
	templateRepo := repository.NewTemplateRepository(cfg)
	serviceRepo := repository.NewServiceRepository()
	runner := service.NewExecRunner()
	gitSvc := service.NewGitService(cfg, runner, log)
	npmSvc := service.NewNpmService(cfg, runner, log)
	nodeCatalog := service.NewNodeCatalog(cfg.NodeIndexURL)

	githubToken := cfg.GitHub.AuthToken
	if githubToken == "" {
		if creds, err := credManager.Get(credentials.ProviderGitHub); err == nil {
			githubToken = creds.Secret
		}
	}
	githubClient := service.NewGitHubClient(cfg.GitHub.APIURL, githubToken, log)

	travisToken := githubToken
	if creds, err := credManager.Get(credentials.ProviderTravis); err == nil {
		travisToken = creds.Secret
	}
	travisClient := service.NewTravisClient("https://api.travis-ci.com", travisToken, log)

	scaffoldSvc := service.NewScaffoldService(cfg, log, templateRepo, serviceRepo,
		service.NewTagEngine(), gitSvc, npmSvc, githubClient, travisClient, nodeCatalog, credManager)
	versionSvc := service.NewVersionService(cfg, log, serviceRepo, gitSvc, npmSvc)

	// 创建根命令
	rootCmd := &cobra.Command{
		Use:   "svcgen",
		Short: "svcgen 是一个 node.js 微服务脚手架工具",
		Long: `svcgen 是一个 node.js 微服务脚手架工具。
通过模板一键生成服务骨架，并自动完成许可证、远程仓库、CI 集成和依赖安装。`,
	}

	rootCmd.AddCommand(createCmd(cfg, scaffoldSvc))
	rootCmd.AddCommand(updateVersionCmd(versionSvc))

	// 添加模板命令组
	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "模板管理命令",
	}
	templateCmd.AddCommand(listTemplatesCmd(templateRepo))
	rootCmd.AddCommand(templateCmd)

	// 添加许可证命令组
	licenseCmd := &cobra.Command{
		Use:   "license",
		Short: "许可证管理命令",
	}
	licenseCmd.AddCommand(listLicensesCmd())
	rootCmd.AddCommand(licenseCmd)

	// 添加交互式控制台命令
	rootCmd.AddCommand(newConsoleCmd(cfg, scaffoldSvc, versionSvc, templateRepo, credManager))

	// 添加凭据管理命令组
	rootCmd.AddCommand(credentialCmd(credManager))

	// 设置自动补全
	setupCompletion(rootCmd)
	setupDynamicCompletion(rootCmd, templateRepo)

	// 执行命令
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "执行命令失败: %v\n", err)
		os.Exit(1)
	}
}

// createCmd 创建服务命令
func createCmd(cfg *config.Config, scaffoldSvc service.ScaffoldService) *cobra.Command {
	var (
		template     string
		author       string
		email        string
		license      string
		version      string
		description  string
		nodeVersions []string
		useGit       bool
		useDocker    bool
		private      bool
	)

	cmd := &cobra.Command{
		Use:   "create [name] [path]",
		Short: "从模板创建新服务",
		Long: `从模板创建一个新的 node.js 服务。

参数说明:
  name  服务名称（省略时交互式询问）
  path  目标路径（省略时使用 ./<name>，指定 . 时在当前目录生成）

模板可以是注册表中的模板名、本地目录路径或 git 仓库地址。
未通过标志指定的值依次回退到配置文件默认值和交互式询问。

创建流程:
  1. 获取模板并放置到目标路径
  2. 替换模板中的 %标签 占位符
  3. 写入 LICENSE 文件
  4. 创建远程仓库（可选）
  5. 加密 Docker Hub 凭据并启用 CI 构建（可选）
  6. 安装 npm 依赖
  7. 初始化 git 仓库并推送首次提交（可选）

失败时会清理已生成的目录（目标为当前目录时除外）。`,
		Example: `  # 交互式创建服务
  svcgen create

  # 创建名为 my-service 的服务
  svcgen create my-service

  # 在指定路径创建并使用 git 模板
  svcgen create my-service ./services/my-service --template git@github.com:acme/tmpl-node.git

  # 创建并同时建远程仓库和 CI 集成
  svcgen create my-service --git --docker`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := service.CreateOptions{
				Template:          template,
				Author:            author,
				Email:             email,
				License:           license,
				Version:           version,
				Description:       description,
				NodeVersions:      nodeVersions,
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
			if cmd.Flags().Changed("git") {
				opts.UseGit = &useGit
			}
			if cmd.Flags().Changed("docker") {
				opts.UseDocker = &useDocker
			}
			if cmd.Flags().Changed("private") {
				opts.Private = &private
			}

			svc, err := scaffoldSvc.Create(context.Background(), opts)
			if err != nil {
				return err
			}

			fmt.Printf("服务 %s 创建成功\n", svc.Name)
			fmt.Printf("ID: %s\n", svc.ID)
			fmt.Printf("路径: %s\n", svc.Path)
			fmt.Printf("版本: %s\n", svc.Version)
			if svc.RepoURL != "" {
				fmt.Printf("仓库: %s\n", svc.RepoURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "模板（注册表名称、本地路径或 git 地址）")
	cmd.Flags().StringVarP(&author, "author", "a", "", "作者")
	cmd.Flags().StringVarP(&email, "email", "e", "", "邮箱")
	cmd.Flags().StringVarP(&license, "license", "l", "", "许可证标识（如 MIT、ISC、UNLICENSED）")
	cmd.Flags().StringVar(&version, "version", "", "初始版本号（默认 0.1.0）")
	cmd.Flags().StringVarP(&description, "description", "d", "", "服务描述")
	cmd.Flags().StringSliceVar(&nodeVersions, "node", nil, "node.js 版本标签（如 lts、latest、20，可多个）")
	cmd.Flags().BoolVar(&useGit, "git", false, "创建远程 git 仓库")
	cmd.Flags().BoolVar(&useDocker, "docker", false, "启用 Docker CI 集成（需要同时启用 --git）")
	cmd.Flags().BoolVar(&private, "private", false, "远程仓库设为私有")

	return cmd
}

// updateVersionCmd 批量更新版本命令
func updateVersionCmd(versionSvc service.VersionService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-version <path> [branch] [version]",
		Short: "批量更新服务版本",
		Long: `对指定路径下发现的每个服务目录执行版本更新流水线。

路径本身是服务目录时只更新该目录，否则扫描其直接子目录。
每个目录依次执行: 检出分支 -> 拉取 -> 升级版本 -> 推送。
某一步失败时跳过该目录的后续步骤，继续处理下一个目录。

参数说明:
  path     服务目录或包含多个服务的父目录
  branch   操作分支（默认 master）
  version  npm version 的升级类型（默认 prerelease），
           可选: major, minor, patch, premajor, preminor, prepatch, prerelease`,
		Example: `  # 更新当前目录下所有服务的预发布版本
  svcgen update-version .

  # 在 develop 分支上更新补丁版本
  svcgen update-version ./services develop patch`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := service.UpdateOptions{Path: args[0]}
			if len(args) >= 2 {
				opts.Branch = args[1]
			}
			if len(args) >= 3 {
				opts.Bump = args[2]
			}

			results, err := versionSvc.Update(context.Background(), opts)
			if err != nil {
				return err
			}

			failed := 0
			fmt.Println("版本更新结果:")
			for _, result := range results {
				if result.Failed {
					failed++
				}
				fmt.Printf("\n%s:\n", result.Dir)
				for _, step := range result.Steps {
					if step.Err != nil {
						fmt.Printf("  [失败] %s: %v\n", step.Step, step.Err)
					} else {
						fmt.Printf("  [完成] %s\n", step.Step)
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d/%d 个服务目录更新失败", failed, len(results))
			}
			fmt.Printf("\n全部 %d 个服务目录更新完成\n", len(results))
			return nil
		},
	}
	return cmd
}

// listTemplatesCmd 列出模板命令
func listTemplatesCmd(templateRepo repository.TemplateRepository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出注册表中的所有模板",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := templateRepo.ListTemplates()
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
		},
	}
	return cmd
}

// listLicensesCmd 列出许可证命令
func listLicensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出支持的许可证",
		RunE: func(cmd *cobra.Command, args []string) error {
			licenses := service.ListLicenses()

			fmt.Println("支持的许可证:")
			for _, license := range licenses {
				fmt.Printf("  - %s: %s\n", license.SPDX, license.Name)
			}
			return nil
		},
	}
	return cmd
}
