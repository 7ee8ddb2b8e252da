package domain

// NodeRelease 表示 node.js 发布目录中的一个版本条目
type NodeRelease struct {
	Version string // 版本号（如 v20.11.1）
	LTS     bool   // 是否为 LTS 版本
	LTSName string // LTS 代号（如 Iron），非 LTS 为空
}
