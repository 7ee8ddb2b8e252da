package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/svcgen/svcgen/internal/repository"
	"github.com/svcgen/svcgen/internal/service"
)

// completeTemplates 补全模板名称列表
func completeTemplates(templateRepo repository.TemplateRepository) func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		templates, err := templateRepo.ListTemplates()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var completions []string
		for _, template := range templates {
			if strings.HasPrefix(template.Name, toComplete) {
				desc := template.Description
				if desc == "" {
					desc = "模板"
				}
				completions = append(completions, fmt.Sprintf("%s\t%s", template.Name, desc))
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeLicenses 补全许可证标识列表
func completeLicenses() func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var completions []string
		for _, license := range service.ListLicenses() {
			if strings.HasPrefix(license.SPDX, toComplete) {
				completions = append(completions, fmt.Sprintf("%s\t%s", license.SPDX, license.Name))
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}

// setupDynamicCompletion 为 create 命令的标志注册动态补全
func setupDynamicCompletion(rootCmd *cobra.Command, templateRepo repository.TemplateRepository) {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() != "create" {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc("template", completeTemplates(templateRepo))
		_ = cmd.RegisterFlagCompletionFunc("license", completeLicenses())
	}
}

// setupCompletion 设置自动补全命令
func setupCompletion(rootCmd *cobra.Command) {
	completionCmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "生成自动补全脚本",
		Long: `生成指定 shell 的自动补全脚本。

支持的 shell: bash, zsh, fish, powershell

安装方法:

Bash:
  $ source <(svcgen completion bash)

  # 或添加到 ~/.bashrc
  $ echo 'source <(svcgen completion bash)' >> ~/.bashrc

Zsh:
  $ source <(svcgen completion zsh)

  # 或添加到 ~/.zshrc
  $ echo 'source <(svcgen completion zsh)' >> ~/.zshrc

Fish:
  $ svcgen completion fish | source

  # 或添加到 ~/.config/fish/completions/svcgen.fish
  $ svcgen completion fish > ~/.config/fish/completions/svcgen.fish

PowerShell:
  $ svcgen completion powershell | Out-String | Invoke-Expression

  # 或添加到 PowerShell profile
  $ svcgen completion powershell >> $PROFILE
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactValidArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				rootCmd.GenPowerShellCompletion(os.Stdout)
			}
		},
	}

	rootCmd.AddCommand(completionCmd)
}
