// Package color implements the small parsing utilities component of the
// core (spec §4 component 1): hex / rgb: / rgbi: / named colors, yes/no
// booleans, int-with-percent values and "#anchor"-style hash-anchor parsing
// used by the apps-rules grammar's [Position] payload.
//
// Grounded on the teacher's (ctxmenu.go) parseColor: hex-digit expansion of
// 3/4/6/8-digit forms, extended here with the rgb:/rgbi:/named forms the
// spec calls out and with a Format that makes round-tripping (§8.2) exact.
package color

import (
	"fmt"
	"strconv"
	"strings"
)

// RGBA is a straightforward 8-bit-per-channel color.
type RGBA struct {
	R, G, B, A uint8
}

// named holds the small set of X11-ish color names a style sheet is allowed
// to reference without a leading '#'. The style-sheet parser itself is out
// of scope (spec §1); this table is what the core-side parser consults once
// resolved key=value fields reach it (e.g. via rule/override payloads).
var named = map[string]RGBA{
	"black":       {0, 0, 0, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"red":         {0xff, 0, 0, 0xff},
	"green":       {0, 0x80, 0, 0xff},
	"blue":        {0, 0, 0xff, 0xff},
	"gray":        {0x80, 0x80, 0x80, 0xff},
	"grey":        {0x80, 0x80, 0x80, 0xff},
	"transparent": {0, 0, 0, 0},
}

// Parse accepts "#RRGGBB[AA]", "#RGB[A]", "rgb:RR/GG/BB", "rgbi:R.R/G.G/B.B"
// (0..1 floats) and the names in the named table.
func Parse(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgbi:"):
		return parseRGBI(s[len("rgbi:"):])
	case strings.HasPrefix(s, "rgb:"):
		return parseRGBColon(s[len("rgb:"):])
	default:
		if c, ok := named[strings.ToLower(s)]; ok {
			return c, nil
		}
		return parseHex(s)
	}
}

func parseHex(s string) (RGBA, error) {
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2], 'f', 'f'})
	case 4:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2], s[3], s[3]})
	case 6:
		s += "ff"
	case 8:
		// already full form
	default:
		return RGBA{}, fmt.Errorf("invalid color: %s", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid color: %s", s)
	}
	return RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

func parseRGBColon(s string) (RGBA, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return RGBA{}, fmt.Errorf("invalid rgb: color: %s", s)
	}
	var out [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid rgb: color: %s", s)
		}
		// rgb: components may be 1, 2, 3 or 4 hex digits; scale to 8 bits.
		bits := len(p) * 4
		if bits > 8 {
			v >>= uint(bits - 8)
		} else if bits < 8 {
			v <<= uint(8 - bits)
		}
		out[i] = uint8(v)
	}
	return RGBA{out[0], out[1], out[2], 0xff}, nil
}

func parseRGBI(s string) (RGBA, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return RGBA{}, fmt.Errorf("invalid rgbi: color: %s", s)
	}
	var out [3]uint8
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil || f < 0 || f > 1 {
			return RGBA{}, fmt.Errorf("invalid rgbi: color: %s", s)
		}
		out[i] = uint8(f*255 + 0.5)
	}
	return RGBA{out[0], out[1], out[2], 0xff}, nil
}

// Format renders c as "#RRGGBBAA", the canonical form §8.2's round-trip law
// requires: Format(Parse(s)) == s for any valid "#RRGGBBAA" input s.
func Format(c RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseBool accepts the yes/no (and true/false/on/off/1/0) forms the
// apps-rules and style grammars use for boolean attributes.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "on", "1":
		return true, nil
	case "no", "false", "off", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %s", s)
	}
}

// IntOrPercent is a dimension value that is either an absolute integer or a
// percentage of some outer extent (§4.6 Dimensions/Position payloads:
// "width, width_pct, height, height_pct").
type IntOrPercent struct {
	Value   int
	Percent bool
}

// Resolve returns the effective integer value against an outer extent.
func (v IntOrPercent) Resolve(outer int) int {
	if v.Percent {
		return outer * v.Value / 100
	}
	return v.Value
}

// ParseIntOrPercent parses "50%" or "500" forms.
func ParseIntOrPercent(s string) (IntOrPercent, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
		if err != nil {
			return IntOrPercent{}, fmt.Errorf("invalid percent: %s", s)
		}
		return IntOrPercent{Value: n, Percent: true}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return IntOrPercent{}, fmt.Errorf("invalid integer: %s", s)
	}
	return IntOrPercent{Value: n}, nil
}

// SplitHashAnchor parses the "(Anchor) {payload}" shape used throughout the
// apps-rules grammar (§6.3) and menu geometry hints: an optional
// parenthesized anchor name followed by a brace-delimited payload. Returns
// the anchor name (empty if absent) and the raw payload text.
func SplitHashAnchor(s string) (anchor string, payload string) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") {
		if idx := strings.IndexByte(s, ')'); idx >= 0 {
			anchor = strings.TrimSpace(s[1:idx])
			s = strings.TrimSpace(s[idx+1:])
		}
	}
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	return anchor, strings.TrimSpace(s)
}
