package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svcgen/svcgen/internal/domain"
)

func TestResolveLicenseMIT(t *testing.T) {
	license, err := ResolveLicense("MIT", LicenseMeta{
		Year:     "2026",
		FullName: "Alice Doe",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "MIT", license.SPDX)
	assert.Contains(t, license.Body, "2026")
	assert.Contains(t, license.Body, "Alice Doe")
	assert.NotContains(t, license.Body, "[year]")
	assert.NotContains(t, license.Body, "[fullname]")
	assert.NotContains(t, license.Header, "[year]")
}

func TestResolveLicenseReplacesAllOccurrences(t *testing.T) {
	// BSD 系许可证在正文和免责声明里多次出现所有者名
	license, err := ResolveLicense("BSD-3-Clause", LicenseMeta{
		Year:     "2026",
		FullName: "Acme Corp",
	})
	require.NoError(t, err)

	assert.NotContains(t, license.Body, "[fullname]")
	assert.NotContains(t, license.Body, "[year]")
}

func TestResolveLicenseUnknown(t *testing.T) {
	_, err := ResolveLicense("WTFPL", LicenseMeta{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WTFPL")
}

func TestResolveLicenseEmpty(t *testing.T) {
	_, err := ResolveLicense("", LicenseMeta{})
	assert.Error(t, err)
}

func TestResolveLicenseUnlicensed(t *testing.T) {
	license, err := ResolveLicense(domain.UnlicensedID, LicenseMeta{
		Year:     "2026",
		FullName: "Acme Corp",
	})
	require.NoError(t, err)

	assert.True(t, license.IsUnlicensed())
	assert.Contains(t, license.Body, "Acme Corp")
}

func TestListLicenses(t *testing.T) {
	licenses := ListLicenses()
	require.NotEmpty(t, licenses)

	// 按标识排序
	for i := 1; i < len(licenses); i++ {
		assert.True(t, licenses[i-1].SPDX < licenses[i].SPDX)
	}

	var ids []string
	for _, license := range licenses {
		ids = append(ids, license.SPDX)
	}
	assert.Contains(t, ids, "MIT")
	assert.Contains(t, ids, "ISC")
	assert.Contains(t, ids, domain.UnlicensedID)
}

func TestRenderLicenseHeader(t *testing.T) {
	header := RenderLicenseHeader("Copyright 2026 Alice\n\nMIT licensed.")

	lines := strings.Split(header, "\n")
	assert.Equal(t, "/*", lines[0])
	assert.Equal(t, " * Copyright 2026 Alice", lines[1])
	assert.Equal(t, " *", lines[2])
	assert.Equal(t, " * MIT licensed.", lines[3])
	assert.Equal(t, " */", lines[4])
}

func TestRenderLicenseHeaderEmpty(t *testing.T) {
	assert.Equal(t, "", RenderLicenseHeader(""))
}
