package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynonymLookup(t *testing.T) {
	table := NewSynonymTable(nil)

	c, ok := table.Lookup("赤色")
	require.True(t, ok)
	assert.Equal(t, "红色", c)

	// canonical token maps to itself
	c, ok = table.Lookup("红色")
	require.True(t, ok)
	assert.Equal(t, "红色", c)

	// lookup normalizes its input
	c, ok = table.Lookup("RED")
	require.True(t, ok)
	assert.Equal(t, "红色", c)

	_, ok = table.Lookup("不存在的词")
	assert.False(t, ok)
}

func TestSynonymResolve(t *testing.T) {
	table := NewSynonymTable(nil)

	assert.Equal(t, "红色", table.Resolve("赤色"))
	assert.Equal(t, "触摸", table.Resolve("触摸屏"))
	// unknown input comes back normalized, unchanged
	assert.Equal(t, "不存在的词", table.Resolve("不存在的词"))
	assert.Equal(t, "", table.Resolve("暂无"))
	// per-token resolution for multi-word strings
	assert.Equal(t, "无线 触摸", table.Resolve("wireless touch"))
}

func TestSynonymExtraTable(t *testing.T) {
	table := NewSynonymTable(map[string]string{
		"磁共振": "mri",
		"核磁":  "mri",
	})

	assert.Equal(t, "mri", table.Resolve("磁共振"))
	assert.Equal(t, "mri", table.Resolve("核磁"))
	// extra pairs merge on top of the builtin table
	assert.Equal(t, "红色", table.Resolve("赤色"))
}
