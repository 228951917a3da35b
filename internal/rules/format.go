package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fluxbox-wayland/fluxwm/internal/color"
	"github.com/fluxbox-wayland/fluxwm/internal/decor"
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/view"
)

// ParseResult is the outcome of parsing an apps-rules file: the rules that
// compiled, plus whether the whole file was understood well enough to be
// rewrite-safe (spec GLOSSARY "Rewrite-safe").
type ParseResult struct {
	Rules       []Rule
	RewriteSafe bool
}

// Parse decodes an apps-rules file per spec §6.3's minimum grammar. Any
// unrecognized block/attribute keyword or predicate key taints
// RewriteSafe=false but does not stop parsing; a regex compile failure
// drops just that rule (spec §7).
func Parse(text string) ParseResult {
	lines := strings.Split(text, "\n")
	var result ParseResult
	result.RewriteSafe = true

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		i++
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "[group]"):
			var shared Attrs
			var groupRules []Rule
			for i < len(lines) {
				l := strings.TrimSpace(lines[i])
				if l == "" || strings.HasPrefix(l, "#") {
					i++
					continue
				}
				if strings.HasPrefix(l, "[end]") {
					i++
					break
				}
				if strings.HasPrefix(l, "[app]") {
					r, ok := parseAppHeader(l)
					if !ok {
						result.RewriteSafe = false
						i++
						continue
					}
					groupRules = append(groupRules, r)
					i++
					continue
				}
				if !applyAttrLine(l, &shared) {
					result.RewriteSafe = false
				}
				i++
			}
			for idx := range groupRules {
				groupRules[idx].Attrs = shared
				if err := groupRules[idx].compile(); err != nil {
					result.RewriteSafe = false
					continue
				}
				result.Rules = append(result.Rules, groupRules[idx])
			}
		case strings.HasPrefix(line, "[app]"):
			r, ok := parseAppHeader(line)
			if !ok {
				result.RewriteSafe = false
				continue
			}
			for i < len(lines) {
				l := strings.TrimSpace(lines[i])
				if l == "" || strings.HasPrefix(l, "#") {
					i++
					continue
				}
				if strings.HasPrefix(l, "[end]") {
					i++
					break
				}
				if !applyAttrLine(l, &r.Attrs) {
					result.RewriteSafe = false
				}
				i++
			}
			if err := r.compile(); err != nil {
				result.RewriteSafe = false
				continue
			}
			result.Rules = append(result.Rules, r)
		default:
			result.RewriteSafe = false
		}
	}
	return result
}

var predKeyAlias = map[string]string{
	"app_id": "app_id", "appid": "app_id", "class": "app_id",
	"instance": "instance", "name": "instance",
	"role":  "role",
	"title": "title",
}

// parseAppHeader parses a "[app] (pred ...) {match_limit}" line.
func parseAppHeader(line string) (Rule, bool) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "[app]"))
	var r Rule

	if strings.HasPrefix(rest, "(") {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return r, false
		}
		predText := rest[1:end]
		rest = strings.TrimSpace(rest[end+1:])
		for _, tok := range strings.Fields(predText) {
			if !applyPredicate(&r, tok) {
				return r, false
			}
		}
	}
	if strings.HasPrefix(rest, "{") {
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return r, false
		}
		limText := strings.TrimSpace(rest[1:end])
		if limText != "" {
			n, err := strconv.ParseUint(limText, 10, 32)
			if err != nil {
				return r, false
			}
			r.MatchLimit = uint32(n)
		}
	}
	return r, true
}

// applyPredicate parses one "key=pattern" or "key!=pattern" token.
func applyPredicate(r *Rule, tok string) bool {
	negate := false
	sep := "="
	idx := strings.Index(tok, "!=")
	if idx >= 0 {
		negate = true
		sep = "!="
	} else {
		idx = strings.Index(tok, "=")
		if idx < 0 {
			return false
		}
	}
	key := strings.ToLower(tok[:idx])
	pattern := tok[idx+len(sep):]
	canon, ok := predKeyAlias[key]
	if !ok {
		return false
	}
	p := Predicate{Set: true, Negate: negate, Pattern: pattern}
	switch canon {
	case "app_id":
		r.AppID = p
	case "instance":
		r.Instance = p
	case "role":
		r.Role = p
	case "title":
		r.Title = p
	default:
		return false
	}
	return true
}

// applyAttrLine parses one "[Attr] (anchor?) {payload}" line into a, per
// spec §6.3's attribute list, returning false for unrecognized keywords.
func applyAttrLine(line string, a *Attrs) bool {
	if !strings.HasPrefix(line, "[") {
		return false
	}
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return false
	}
	key := strings.ToLower(strings.TrimSpace(line[1:end]))
	anchorStr, payload := color.SplitHashAnchor(strings.TrimSpace(line[end+1:]))

	switch key {
	case "hidden", "focushidden":
		v, err := color.ParseBool(payload)
		if err != nil {
			return false
		}
		a.SetFocusHidden, a.FocusHidden = true, v
	case "iconhidden":
		v, err := color.ParseBool(payload)
		if err != nil {
			return false
		}
		a.SetIconHidden, a.IconHidden = true, v
	case "workspace":
		n, err := strconv.Atoi(payload)
		if err != nil {
			return false
		}
		a.SetWorkspace, a.Workspace = true, n
	case "sticky":
		v, err := color.ParseBool(payload)
		if err != nil {
			return false
		}
		a.SetSticky, a.Sticky = true, v
	case "jump":
		v, err := color.ParseBool(payload)
		if err != nil {
			return false
		}
		a.SetJump, a.Jump = true, v
	case "head":
		n, err := strconv.Atoi(payload)
		if err != nil {
			return false
		}
		a.SetHead, a.Head = true, n
	case "dimensions":
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return false
		}
		w, err1 := color.ParseIntOrPercent(fields[0])
		h, err2 := color.ParseIntOrPercent(fields[1])
		if err1 != nil || err2 != nil {
			return false
		}
		a.SetDimensions, a.DimWidth, a.DimHeight = true, w, h
	case "ignoresizehints":
		v, err := color.ParseBool(payload)
		if err != nil {
			return false
		}
		a.SetIgnoreSizeHints, a.IgnoreSizeHints = true, v
	case "position":
		anchor, ok := geom.ParseAnchor(anchorStr)
		if !ok && anchorStr != "" {
			return false
		}
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return false
		}
		x, err1 := color.ParseIntOrPercent(fields[0])
		y, err2 := color.ParseIntOrPercent(fields[1])
		if err1 != nil || err2 != nil {
			return false
		}
		a.SetPosition, a.PosAnchor, a.PosX, a.PosY = true, anchor, x, y
	case "minimized":
		v, err := color.ParseBool(payload)
		if err != nil {
			return false
		}
		a.SetMinimized, a.Minimized = true, v
	case "maximized":
		switch strings.ToLower(payload) {
		case "yes":
			a.SetMaximized, a.MaximizedH, a.MaximizedV = true, true, true
		case "horz":
			a.SetMaximized, a.MaximizedH, a.MaximizedV = true, true, false
		case "vert":
			a.SetMaximized, a.MaximizedH, a.MaximizedV = true, false, true
		case "no":
			a.SetMaximized, a.MaximizedH, a.MaximizedV = true, false, false
		default:
			return false
		}
	case "fullscreen":
		v, err := color.ParseBool(payload)
		if err != nil {
			return false
		}
		a.SetFullscreen, a.Fullscreen = true, v
	case "shaded":
		v, err := color.ParseBool(payload)
		if err != nil {
			return false
		}
		a.SetShaded, a.Shaded = true, v
	case "tab":
		v, err := color.ParseBool(payload)
		if err != nil {
			return false
		}
		a.SetTab, a.Tab = true, v
	case "alpha":
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return false
		}
		f, err1 := strconv.Atoi(fields[0])
		u, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return false
		}
		a.SetAlpha, a.AlphaFocused, a.AlphaUnfocused = true, uint8(f), uint8(u)
	case "focusprotection":
		n, err := strconv.Atoi(payload)
		if err != nil {
			return false
		}
		a.SetFocusProtection = true
		a.FocusProtection = view.FocusProtection(n)
	case "deco":
		if m, ok := decor.ParsePreset(strings.ToUpper(payload)); ok {
			a.SetDecor, a.Decor = true, m
			break
		}
		n, err := strconv.ParseUint(payload, 0, 32)
		if err != nil {
			return false
		}
		a.SetDecor, a.Decor = true, decor.Mask(n)
	case "layer":
		n, err := strconv.Atoi(payload)
		if err != nil {
			return false
		}
		a.SetLayer, a.Layer = true, n
	case "close", "saveonclose":
		v, err := color.ParseBool(payload)
		if err != nil {
			return false
		}
		a.SetSaveOnClose, a.SaveOnClose = true, v
	default:
		return false
	}
	return true
}

// Write serializes rules in canonical form, one [app]...[end] block per
// rule, sharing a [group] wrapper for consecutive rules with the same
// nonzero GroupID (spec §6.3, §8.3 S5).
func Write(rules []Rule) string {
	var b strings.Builder
	i := 0
	for i < len(rules) {
		r := rules[i]
		if r.GroupID != 0 {
			j := i
			for j < len(rules) && rules[j].GroupID == r.GroupID {
				j++
			}
			if j-i > 1 {
				fmt.Fprintf(&b, "[group]\n")
				writeAttrs(&b, r.Attrs, "  ")
				for k := i; k < j; k++ {
					fmt.Fprintf(&b, "[app] %s\n", formatPredicates(rules[k]))
				}
				fmt.Fprintf(&b, "[end]\n")
				i = j
				continue
			}
		}
		fmt.Fprintf(&b, "[app] %s%s\n", formatPredicates(r), formatMatchLimit(r))
		writeAttrs(&b, r.Attrs, "  ")
		fmt.Fprintf(&b, "[end]\n")
		i++
	}
	return b.String()
}

func formatMatchLimit(r Rule) string {
	if r.MatchLimit == 0 {
		return ""
	}
	return fmt.Sprintf(" {%d}", r.MatchLimit)
}

func formatPredicates(r Rule) string {
	var parts []string
	add := func(key string, p Predicate) {
		if !p.Set {
			return
		}
		op := "="
		if p.Negate {
			op = "!="
		}
		parts = append(parts, key+op+p.Pattern)
	}
	add("app_id", r.AppID)
	add("instance", r.Instance)
	add("role", r.Role)
	add("title", r.Title)
	return "(" + strings.Join(parts, " ") + ")"
}

func writeAttrs(b *strings.Builder, a Attrs, indent string) {
	if a.SetFocusHidden {
		fmt.Fprintf(b, "%s[FocusHidden] {%s}\n", indent, yesNo(a.FocusHidden))
	}
	if a.SetIconHidden {
		fmt.Fprintf(b, "%s[IconHidden] {%s}\n", indent, yesNo(a.IconHidden))
	}
	if a.SetWorkspace {
		fmt.Fprintf(b, "%s[Workspace] {%d}\n", indent, a.Workspace)
	}
	if a.SetSticky {
		fmt.Fprintf(b, "%s[Sticky] {%s}\n", indent, yesNo(a.Sticky))
	}
	if a.SetJump {
		fmt.Fprintf(b, "%s[Jump] {%s}\n", indent, yesNo(a.Jump))
	}
	if a.SetHead {
		fmt.Fprintf(b, "%s[Head] {%d}\n", indent, a.Head)
	}
	if a.SetDimensions {
		fmt.Fprintf(b, "%s[Dimensions] {%s %s}\n", indent, formatIntOrPercent(a.DimWidth), formatIntOrPercent(a.DimHeight))
	}
	if a.SetIgnoreSizeHints {
		fmt.Fprintf(b, "%s[IgnoreSizeHints] {%s}\n", indent, yesNo(a.IgnoreSizeHints))
	}
	if a.SetPosition {
		fmt.Fprintf(b, "%s[Position] (%s) {%s %s}\n", indent, anchorName(a.PosAnchor), formatIntOrPercent(a.PosX), formatIntOrPercent(a.PosY))
	}
	if a.SetMinimized {
		fmt.Fprintf(b, "%s[Minimized] {%s}\n", indent, yesNo(a.Minimized))
	}
	if a.SetMaximized {
		fmt.Fprintf(b, "%s[Maximized] {%s}\n", indent, maximizedPayload(a.MaximizedH, a.MaximizedV))
	}
	if a.SetFullscreen {
		fmt.Fprintf(b, "%s[Fullscreen] {%s}\n", indent, yesNo(a.Fullscreen))
	}
	if a.SetShaded {
		fmt.Fprintf(b, "%s[Shaded] {%s}\n", indent, yesNo(a.Shaded))
	}
	if a.SetTab {
		fmt.Fprintf(b, "%s[Tab] {%s}\n", indent, yesNo(a.Tab))
	}
	if a.SetAlpha {
		fmt.Fprintf(b, "%s[Alpha] {%d %d}\n", indent, a.AlphaFocused, a.AlphaUnfocused)
	}
	if a.SetFocusProtection {
		fmt.Fprintf(b, "%s[FocusProtection] {%d}\n", indent, int(a.FocusProtection))
	}
	if a.SetDecor {
		if name := decor.CanonicalName(a.Decor); name != "" {
			fmt.Fprintf(b, "%s[Deco] {%s}\n", indent, name)
		} else {
			fmt.Fprintf(b, "%s[Deco] {0x%x}\n", indent, uint32(a.Decor))
		}
	}
	if a.SetLayer {
		fmt.Fprintf(b, "%s[Layer] {%d}\n", indent, a.Layer)
	}
	if a.SetSaveOnClose {
		fmt.Fprintf(b, "%s[SaveOnClose] {%s}\n", indent, yesNo(a.SaveOnClose))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func maximizedPayload(h, v bool) string {
	switch {
	case h && v:
		return "yes"
	case h:
		return "horz"
	case v:
		return "vert"
	default:
		return "no"
	}
}

func formatIntOrPercent(v color.IntOrPercent) string {
	if v.Percent {
		return strconv.Itoa(v.Value) + "%"
	}
	return strconv.Itoa(v.Value)
}

func anchorName(a geom.Anchor) string {
	names := []string{"TopLeft", "Left", "BottomLeft", "Top", "Center", "Bottom", "TopRight", "Right", "BottomRight"}
	if int(a) >= 0 && int(a) < len(names) {
		return names[a]
	}
	return "Center"
}
