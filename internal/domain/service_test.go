package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceManifestIsService(t *testing.T) {
	manifest := &ServiceManifest{Kind: KindService, Name: "demo"}
	assert.True(t, manifest.IsService())

	// kind 不匹配
	assert.False(t, (&ServiceManifest{Kind: "library", Name: "demo"}).IsService())

	// 缺少名称
	assert.False(t, (&ServiceManifest{Kind: KindService}).IsService())
}

func TestNewServiceID(t *testing.T) {
	id1 := NewServiceID()
	id2 := NewServiceID()

	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)
}
