package main

import (
	"fmt"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/svcgen/svcgen/internal/service"
)

// noCompleter 空补全，用于纯文本输入
func noCompleter(d prompt.Document) []prompt.Suggest {
	return []prompt.Suggest{}
}

// yesNoCompleter 是否确认的补全
func yesNoCompleter(d prompt.Document) []prompt.Suggest {
	return prompt.FilterHasPrefix([]prompt.Suggest{
		{Text: "yes", Description: "是"},
		{Text: "no", Description: "否"},
	}, d.GetWordBeforeCursor(), true)
}

// inputProvider 构造一个交互式文本输入器
func inputProvider(label string) service.ValueProvider {
	return func() (string, error) {
		value := prompt.Input(label+": ", noCompleter)
		return strings.TrimSpace(value), nil
	}
}

// confirmProvider 构造一个交互式是否确认器
func confirmProvider(label string) service.BoolProvider {
	return func() (bool, error) {
		for {
			answer := strings.ToLower(strings.TrimSpace(prompt.Input(label+" (yes/no): ", yesNoCompleter)))
			switch answer {
			case "yes", "y":
				return true, nil
			case "no", "n":
				return false, nil
			}
			fmt.Println("请输入 yes 或 no")
		}
	}
}
