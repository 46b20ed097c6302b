package service

import "strings"

// SynonymTable maps surface terms to canonical semantic tokens. Built once,
// read-only afterwards; safe to share across workers.
type SynonymTable struct {
	canon map[string]string
}

// builtin synonym pairs for the medical-device domain. External tables are
// merged on top (fileio.LoadSynonyms).
var builtinSynonyms = map[string][]string{
	"红色":  {"赤色", "red"},
	"二维":  {"2d", "two-dimensional", "二维空间"},
	"三维":  {"3d", "three-dimensional", "三维空间"},
	"彩色":  {"彩屏", "color", "全彩"},
	"黑白":  {"单色", "monochrome", "灰度"},
	"触摸":  {"触摸屏", "touch", "touchscreen", "触控"},
	"非触摸": {"普通屏", "non-touch", "非触控"},
	"无线":  {"wireless", "wifi", "wi-fi"},
	"有线":  {"wired", "有线连接"},
	"毫米":  {"mm", "millimeter"},
	"厘米":  {"cm", "centimeter"},
	"千克":  {"kg", "kilogram", "公斤"},
	"毫升":  {"ml", "milliliter"},
}

// NewSynonymTable builds a table from surface→canonical pairs. Keys and
// values are normalized; a nil map yields the builtin table only.
func NewSynonymTable(extra map[string]string) *SynonymTable {
	canon := make(map[string]string)
	for token, surfaces := range builtinSynonyms {
		nt := Normalize(token)
		canon[nt] = nt
		for _, s := range surfaces {
			canon[Normalize(s)] = nt
		}
	}
	for surface, token := range extra {
		ns, nt := Normalize(surface), Normalize(token)
		if ns == "" || nt == "" {
			continue
		}
		canon[ns] = nt
		canon[nt] = nt
	}
	delete(canon, "")
	return &SynonymTable{canon: canon}
}

// Lookup returns the canonical token for a whole normalized string.
func (t *SynonymTable) Lookup(s string) (string, bool) {
	c, ok := t.canon[Normalize(s)]
	return c, ok
}

// Resolve maps a string to semantic tokens: whole-string lookup first, then
// each whitespace token independently, rejoined. Unknown input comes back
// unchanged (normalized).
func (t *SynonymTable) Resolve(s string) string {
	norm := Normalize(s)
	if norm == "" {
		return ""
	}
	if c, ok := t.canon[norm]; ok {
		return c
	}
	fields := strings.Fields(norm)
	if len(fields) < 2 {
		return norm
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		if c, ok := t.canon[f]; ok {
			out[i] = c
		} else {
			out[i] = f
		}
	}
	return strings.Join(out, " ")
}
