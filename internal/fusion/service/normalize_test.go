package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  12  MM  ", "12 mm"},
		{"１２ｍｍ", "12mm"}, // full-width folds to half-width
		{"红色", "红色"},
		{"红色，蓝色", "红色,蓝色"},
		{"12 mm", "12 mm"}, // NBSP
		{"12　mm", "12 mm"},      // ideographic space
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "input %q", c.in)
	}
}

func TestNormalizeNegativeTokens(t *testing.T) {
	for _, in := range []string{"-", "—", "/", "无", "暂无", "没有", "N/A", "na", "None", "null"} {
		assert.Equal(t, "", Normalize(in), "negative token %q must normalize to empty", in)
	}
}

func TestCompareKey(t *testing.T) {
	// spacing and case differences collapse into one key
	assert.Equal(t, CompareKey("12 mm"), CompareKey("12mm"))
	assert.Equal(t, CompareKey("12 mm"), CompareKey("12 MM"))
	assert.Equal(t, "12mm", CompareKey("１２ MM"))

	assert.NotEqual(t, CompareKey("12mm"), CompareKey("13mm"))
	assert.Equal(t, "", CompareKey("暂无"))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, in := range []string{"  12  MM  ", "红色，蓝色", "≥5kg", "1920×1080"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
