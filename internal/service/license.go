package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/svcgen/svcgen/internal/domain"
)

// LicenseMeta 许可证解析所需的元信息
type LicenseMeta struct {
	Year       string // 版权年份
	FullName   string // 版权所有者
	Email      string // 所有者邮箱
	Project    string // 项目名称
	ProjectURL string // 项目地址
}

// ResolveLicense 按 SPDX 标识解析许可证
// 返回的许可证正文与头部中的 [year]、[fullname]、[email]、[project]、
// [project_url] 占位符全部被替换为实际值。
// 未知标识为致命的输入错误
func ResolveLicense(id string, meta LicenseMeta) (*domain.License, error) {
	if id == "" {
		return nil, fmt.Errorf("许可证标识不能为空")
	}

	entry, ok := licenseTable[id]
	if !ok {
		return nil, fmt.Errorf("未知的许可证标识: %s（使用 svcgen license list 查看支持的许可证）", id)
	}

	resolved := &domain.License{
		Name:   entry.Name,
		SPDX:   entry.SPDX,
		Body:   fillLicenseTokens(entry.Body, meta),
		Header: fillLicenseTokens(entry.Header, meta),
	}
	return resolved, nil
}

// ListLicenses 按标识排序返回所有内置许可证
func ListLicenses() []*domain.License {
	ids := make([]string, 0, len(licenseTable))
	for id := range licenseTable {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	licenses := make([]*domain.License, 0, len(ids))
	for _, id := range ids {
		licenses = append(licenses, licenseTable[id])
	}
	return licenses
}

// fillLicenseTokens 替换许可证文本中的占位符
// 每个占位符的所有出现都会被替换
func fillLicenseTokens(text string, meta LicenseMeta) string {
	replacer := strings.NewReplacer(
		"[year]", meta.Year,
		"[fullname]", meta.FullName,
		"[email]", meta.Email,
		"[project]", meta.Project,
		"[project_url]", meta.ProjectURL,
	)
	return replacer.Replace(text)
}

// RenderLicenseHeader 把许可证短声明渲染为块注释
// 每行前加一个 *，形如：
//
//	/*
//	 * ...
//	 */
func RenderLicenseHeader(header string) string {
	if header == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("/*\n")
	for _, line := range strings.Split(strings.TrimRight(header, "\n"), "\n") {
		if line == "" {
			b.WriteString(" *\n")
			continue
		}
		b.WriteString(" * ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(" */")
	return b.String()
}
