package service

import (
	"regexp"
	"strings"
)

// Some vendors answer one parameter row with a whole bundled spec:
// "≥win10系统,≥酷睿i5 cpu,≥8g 内存,≥250gb ssd". Such cells are split into
// segments, each segment classified, and only the segment matching the
// row's parameter name is kept for fusion.

type segment struct {
	Kind       string // classified segment type, "其他" when unknown
	Comparison string // leading comparison prefix, may be empty
	Content    string // segment without the prefix
}

var (
	segmentSplit  = regexp.MustCompile(`[,;，；、\n]`)
	segmentPrefix = regexp.MustCompile(`^([≥≤><=~\-]+)\s*(.*)$`)
)

type segmentKind struct {
	kind     string
	keywords []string
}

// segment type → keywords that identify it inside a bundled cell.
// Declaration order is the match priority: a segment whose content hits
// keywords of several kinds always classifies to the first listed one.
var segmentKinds = []segmentKind{
	{"操作系统", []string{"操作系统", "系统", "os", "windows", "win10", "win11"}},
	{"cpu", []string{"cpu", "处理器", "酷睿", "英特尔", "intel", "amd", "锐龙", "ryzen"}},
	{"内存", []string{"内存", "ram", "ddr"}},
	{"存储", []string{"存储", "硬盘", "固态", "ssd", "hdd", "磁盘", "nvme", "m.2"}},
	{"显示器", []string{"显示器", "显示屏", "屏幕", "英寸", "分辨率", "液晶", "tft", "ips"}},
	{"显卡", []string{"显卡", "gpu", "独立显卡", "集成显卡"}},
	{"网络", []string{"网络", "网口", "rj45", "以太网"}},
	{"接口", []string{"接口", "usb", "hdmi", "displayport", "thunderbolt"}},
	{"电源", []string{"电源", "功率"}},
	{"散热", []string{"散热", "冷却", "风冷", "液冷"}},
}

// aliases used when matching a row's parameter name against segment types,
// declaration order again fixed
var segmentNameAliases = []segmentKind{
	{"cpu", []string{"cpu", "处理器"}},
	{"存储", []string{"存储", "硬盘"}},
	{"显示器", []string{"显示器", "显示屏"}},
	{"散热", []string{"散热", "冷却"}},
}

// isIntegrated reports whether a cell bundles several parameters:
// two or more segment separators is the tell.
func isIntegrated(s string) bool {
	return len(segmentSplit.FindAllString(s, 3)) >= 2
}

// splitSegments splits a bundled cell and classifies each part.
func splitSegments(s string) []segment {
	var out []segment
	for _, part := range segmentSplit.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var cmp, content string
		if m := segmentPrefix.FindStringSubmatch(part); m != nil && strings.TrimSpace(m[2]) != "" {
			cmp, content = m[1], strings.TrimSpace(m[2])
		} else {
			content = part
		}
		out = append(out, segment{
			Kind:       classifySegment(content),
			Comparison: cmp,
			Content:    content,
		})
	}
	return out
}

func classifySegment(content string) string {
	low := strings.ToLower(content)
	for _, sk := range segmentKinds {
		for _, kw := range sk.keywords {
			if strings.Contains(low, kw) {
				return sk.kind
			}
		}
	}
	return "其他"
}

// extractRelevant picks the segment matching the parameter name out of a
// bundled cell; the cell comes back unchanged when nothing matches or the
// cell is not bundled.
func extractRelevant(cell, paramName string) string {
	if paramName == "" || !isIntegrated(cell) {
		return cell
	}
	segs := splitSegments(cell)
	if len(segs) == 0 {
		return cell
	}

	nameLow := strings.ToLower(strings.TrimSpace(paramName))
	wanted := []string{nameLow}
	for _, sk := range segmentNameAliases {
		for _, a := range sk.keywords {
			if strings.Contains(nameLow, a) {
				wanted = append(wanted, sk.kind)
				break
			}
		}
	}

	for _, w := range wanted {
		for _, seg := range segs {
			if seg.Kind == w || strings.Contains(strings.ToLower(seg.Content), w) {
				return strings.TrimSpace(seg.Comparison + seg.Content)
			}
		}
	}
	// fuzzy: segment kind contained in the name or vice versa
	for _, seg := range segs {
		if seg.Kind == "其他" {
			continue
		}
		if strings.Contains(nameLow, seg.Kind) || strings.Contains(seg.Kind, nameLow) {
			return strings.TrimSpace(seg.Comparison + seg.Content)
		}
	}
	return cell
}
