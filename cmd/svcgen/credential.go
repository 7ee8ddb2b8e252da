package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/svcgen/svcgen/internal/credentials"
)

// credentialCmd 凭据管理命令组
func credentialCmd(manager credentials.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "服务凭据管理",
		Long: `管理外部服务的访问凭据。

支持以下服务:
  - github: GitHub API 令牌
  - dockerhub: Docker Hub 用户名和密码
  - travis: Travis CI API 令牌

凭据可以存储在配置文件中，也可以从环境变量读取。
环境变量优先级低于配置文件。`,
	}

	cmd.AddCommand(listCredentialsCmd(manager))
	cmd.AddCommand(setCredentialCmd(manager))
	cmd.AddCommand(getCredentialCmd(manager))
	cmd.AddCommand(removeCredentialCmd(manager))

	return cmd
}

// listCredentialsCmd 列出所有已配置的凭据
func listCredentialsCmd(manager credentials.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出所有已配置的凭据",
		Long:  "显示所有已配置凭据的服务列表。",
		RunE: func(cmd *cobra.Command, args []string) error {
			providers := manager.List()

			if len(providers) == 0 {
				fmt.Println("未配置任何凭据")
				fmt.Println("\n提示: 使用 'svcgen credential set <provider>' 配置凭据")
				return nil
			}

			fmt.Println("已配置的服务凭据:")
			fmt.Println()

			for _, provider := range providers {
				creds, err := manager.Get(provider)
				if err != nil {
					fmt.Printf("  %s (%s): 获取失败 - %v\n", provider.DisplayName(), provider, err)
					continue
				}

				fmt.Printf("  %s (%s):\n", provider.DisplayName(), provider)
				if creds.User != "" {
					fmt.Printf("    User: %s\n", creds.User)
				}
				fmt.Printf("    Secret: %s\n", maskSecret(creds.Secret))
				if creds.Namespace != "" {
					fmt.Printf("    Namespace: %s\n", creds.Namespace)
				}
				fmt.Println()
			}

			return nil
		},
	}
	return cmd
}

// setCredentialCmd 设置凭据
func setCredentialCmd(manager credentials.Manager) *cobra.Command {
	var user, secret, namespace string

	cmd := &cobra.Command{
		Use:   "set <provider>",
		Short: "设置服务凭据",
		Long: `设置指定服务的访问凭据。

支持的 provider: github, dockerhub, travis

示例:
  # 交互式设置（会提示输入）
  svcgen credential set github

  # 通过参数设置
  svcgen credential set dockerhub --user <user> --secret <password> --namespace <ns>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := credentials.Provider(args[0])
			if !provider.IsValid() {
				return fmt.Errorf("无效的服务: %s。支持的服务: github, dockerhub, travis", args[0])
			}

			// 如果没有通过参数提供，交互式输入
			if user == "" {
				fmt.Printf("请输入 %s 的用户名（可为空）: ", provider.DisplayName())
				fmt.Scanln(&user)
			}
			if secret == "" {
				fmt.Printf("请输入 %s 的令牌/密码: ", provider.DisplayName())
				fmt.Scanln(&secret)
			}
			if secret == "" {
				return fmt.Errorf("令牌/密码不能为空")
			}

			creds := &credentials.Credentials{
				User:      user,
				Secret:    secret,
				Namespace: namespace,
			}
			if err := manager.Set(provider, creds); err != nil {
				return fmt.Errorf("设置凭据失败: %w", err)
			}

			fmt.Printf("%s 凭据设置成功\n", provider.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "用户名")
	cmd.Flags().StringVarP(&secret, "secret", "s", "", "令牌或密码")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "命名空间（可选）")

	return cmd
}

// getCredentialCmd 获取凭据
func getCredentialCmd(manager credentials.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <provider>",
		Short: "获取服务凭据",
		Long:  "显示指定服务的凭据信息（令牌/密码会被隐藏）。",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := credentials.Provider(args[0])
			if !provider.IsValid() {
				return fmt.Errorf("无效的服务: %s", args[0])
			}

			if !manager.Has(provider) {
				return fmt.Errorf("未配置 %s 的凭据", provider.DisplayName())
			}

			creds, err := manager.Get(provider)
			if err != nil {
				return fmt.Errorf("获取凭据失败: %w", err)
			}

			fmt.Printf("%s 凭据信息:\n", provider.DisplayName())
			if creds.User != "" {
				fmt.Printf("  User: %s\n", creds.User)
			}
			fmt.Printf("  Secret: %s\n", maskSecret(creds.Secret))
			if creds.Namespace != "" {
				fmt.Printf("  Namespace: %s\n", creds.Namespace)
			}
			return nil
		},
	}
	return cmd
}

// removeCredentialCmd 删除凭据
func removeCredentialCmd(manager credentials.Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <provider>",
		Short: "删除服务凭据",
		Long:  "从配置文件中删除指定服务的凭据。",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := credentials.Provider(args[0])
			if !provider.IsValid() {
				return fmt.Errorf("无效的服务: %s", args[0])
			}

			if !manager.Has(provider) {
				return fmt.Errorf("未配置 %s 的凭据", provider.DisplayName())
			}

			fmt.Printf("确认删除 %s 的凭据? (yes/no): ", provider.DisplayName())
			var confirm string
			fmt.Scanln(&confirm)

			if strings.ToLower(confirm) != "yes" && strings.ToLower(confirm) != "y" {
				fmt.Println("已取消")
				return nil
			}

			if err := manager.Remove(provider); err != nil {
				return fmt.Errorf("删除凭据失败: %w", err)
			}

			fmt.Printf("%s 凭据已删除\n", provider.DisplayName())
			return nil
		},
	}
	return cmd
}

// maskSecret 隐藏令牌（只显示前4位和后4位）
func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
