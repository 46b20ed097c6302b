package service

import "strings"

// Unit families with per-family canonical unit and scale factors. Every
// recognized unit is rescaled to the family canonical unit before any
// cross-vendor comparison. Keys are normalized (lower-case, half-width).
type unitFamily struct {
	name      string
	canonical string
	scale     map[string]float64 // unit → factor to canonical
}

var unitFamilies = []unitFamily{
	{
		name: "length", canonical: "mm",
		scale: map[string]float64{
			"μm": 0.001, "um": 0.001, "微米": 0.001,
			"mm": 1, "毫米": 1,
			"cm": 10, "厘米": 10,
			"m": 1000, "米": 1000,
			"km": 1e6, "千米": 1e6, "公里": 1e6,
			"in": 25.4, "inch": 25.4, "英寸": 25.4,
		},
	},
	{
		name: "mass", canonical: "g",
		scale: map[string]float64{
			"mg": 0.001, "毫克": 0.001,
			"g": 1, "克": 1,
			"kg": 1000, "千克": 1000, "公斤": 1000,
			"t": 1e6, "吨": 1e6,
		},
	},
	{
		name: "volume", canonical: "ml",
		scale: map[string]float64{
			"μl": 0.001, "ul": 0.001, "微升": 0.001,
			"ml": 1, "毫升": 1,
			"l": 1000, "升": 1000,
		},
	},
	{
		name: "power", canonical: "w",
		scale: map[string]float64{
			"mw": 0.001, "毫瓦": 0.001,
			"w": 1, "瓦": 1,
			"kw": 1000, "千瓦": 1000,
		},
	},
	{
		name: "frequency", canonical: "hz",
		scale: map[string]float64{
			"hz": 1, "赫兹": 1,
			"khz": 1e3,
			"mhz": 1e6,
			"ghz": 1e9,
		},
	},
	{
		name: "voltage", canonical: "v",
		scale: map[string]float64{
			"mv": 0.001,
			"v":  1, "伏": 1,
			"kv": 1000, "千伏": 1000,
		},
	},
	{
		name: "current", canonical: "a",
		scale: map[string]float64{
			"μa": 1e-6, "ua": 1e-6,
			"ma": 0.001, "毫安": 0.001,
			"a": 1, "安": 1,
		},
	},
	{
		name: "capacity", canonical: "mah",
		scale: map[string]float64{
			"mah": 1, "毫安时": 1,
			"ah": 1000, "安时": 1000,
		},
	},
	{
		name: "time", canonical: "s",
		scale: map[string]float64{
			"ms": 0.001, "毫秒": 0.001,
			"s": 1, "秒": 1,
			"min": 60, "分钟": 60,
			"h": 3600, "小时": 3600,
		},
	},
	{
		name: "percent", canonical: "%",
		scale: map[string]float64{"%": 1},
	},
	{
		name: "level", canonical: "db",
		scale: map[string]float64{"db": 1, "分贝": 1},
	},
	{
		// affine scale handled in ToCanonical; factors here only classify
		name: "temperature", canonical: "℃",
		scale: map[string]float64{
			"℃": 1, "°c": 1, "c": 1, "摄氏度": 1,
			"℉": 1, "°f": 1, "f": 1, "华氏度": 1,
		},
	},
}

// lookupUnit classifies a unit token. Case-insensitive.
func lookupUnit(unit string) (unitFamily, float64, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		return unitFamily{}, 0, false
	}
	for _, fam := range unitFamilies {
		if f, ok := fam.scale[u]; ok {
			return fam, f, ok
		}
	}
	return unitFamily{}, 0, false
}

// UnitFamily returns the family name of a unit, "" when unknown.
func UnitFamily(unit string) string {
	fam, _, ok := lookupUnit(unit)
	if !ok {
		return ""
	}
	return fam.name
}

// ToCanonical rescales value to the family canonical unit.
// Unknown units come back unchanged with ok=false.
func ToCanonical(value float64, unit string) (float64, string, string, bool) {
	fam, factor, ok := lookupUnit(unit)
	if !ok {
		return value, unit, "", false
	}
	if fam.name == "temperature" {
		u := strings.ToLower(strings.TrimSpace(unit))
		if u == "℉" || u == "°f" || u == "f" || u == "华氏度" {
			return (value - 32) * 5 / 9, fam.canonical, fam.name, true
		}
		return value, fam.canonical, fam.name, true
	}
	return value * factor, fam.canonical, fam.name, true
}
