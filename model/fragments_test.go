package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFragmentIDMap_AddMerge(t *testing.T) {
	m := NewFragmentIDMap()
	assert.True(t, m.IsEmpty())

	m.Add("f1", 1, 2)
	m.Add("f1", 2, 3)
	assert.Equal(t, 3, m.Len())

	other := NewFragmentIDMap()
	other.Add("f1", 4)
	other.Add("f2", 9)
	m.Merge(other)

	assert.Equal(t, 5, m.Len())
	assert.True(t, m.Contains("f2", 9))
	assert.Equal(t, []string{"f1", "f2"}, m.Fragments())

	// Merge must copy, not alias.
	other["f2"].Add(10)
	assert.False(t, m.Contains("f2", 10))
}

func TestFragmentIDMap_Clone(t *testing.T) {
	m := NewFragmentIDMap()
	m.Add("f1", 7)

	c := m.Clone()
	c.Add("f1", 8)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, c.Len())
}

func TestAssetReference_String(t *testing.T) {
	assert.Equal(t, "proj1/file1", AssetReference{ID: "proj1/file1", APIKey: "secret"}.String())
	assert.Equal(t, "a@http://h", AssetReference{ID: "a", Endpoint: "http://h"}.String())
}
