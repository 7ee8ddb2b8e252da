package domain

// UnlicensedID 专有软件（未授权）license 的标识
const UnlicensedID = "UNLICENSED"

// License 表示一个软件许可证
// Body 中可以包含 [year]、[fullname]、[email]、[project]、[project_url]
// 占位符，解析时会被替换为实际值
type License struct {
	Name   string // 显示名称
	SPDX   string // SPDX 标识（或 UNLICENSED）
	Body   string // 许可证正文（写入 LICENSE 文件）
	Header string // 文件头部的短声明（可选）
}

// IsUnlicensed 判断是否为专有软件许可
func (l *License) IsUnlicensed() bool {
	return l != nil && l.SPDX == UnlicensedID
}
