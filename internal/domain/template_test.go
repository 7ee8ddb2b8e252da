package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagSetOrder(t *testing.T) {
	tags := NewTagSet()
	tags.Set("LICENSE_HEADER", "header")
	tags.Set("LICENSE", "MIT")
	tags.Set("SERVICE_NAME", "demo")

	list := tags.Tags()
	assert.Len(t, list, 3)
	assert.Equal(t, "LICENSE_HEADER", list[0].Name)
	assert.Equal(t, "LICENSE", list[1].Name)
	assert.Equal(t, "SERVICE_NAME", list[2].Name)
}

func TestTagSetOverwriteKeepsPosition(t *testing.T) {
	tags := NewTagSet()
	tags.Set("A", "1")
	tags.Set("B", "2")
	tags.Set("A", "3")

	list := tags.Tags()
	assert.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)
	assert.Equal(t, "3", list[0].Value)
	assert.Equal(t, "B", list[1].Name)
}

func TestTagSetGet(t *testing.T) {
	tags := NewTagSet()
	tags.Set("VERSION", "1.0.0")

	value, ok := tags.Get("VERSION")
	assert.True(t, ok)
	assert.Equal(t, "1.0.0", value)

	_, ok = tags.Get("MISSING")
	assert.False(t, ok)
}
