// Package rules implements the apps-rules engine (spec §4.6, §6.3): rule
// schema, matching, pre-map/post-map application, remember-toggle/forget,
// and atomic persistence, plus the sibling slit-list persistence (§6.4).
// There is no teacher analog for a rule-matching engine; this package
// follows the teacher's general style (plain structs, explicit error
// returns, no hidden state) rather than any one grounded file.
package rules

import (
	"fmt"
	"regexp"

	"github.com/fluxbox-wayland/fluxwm/internal/color"
	"github.com/fluxbox-wayland/fluxwm/internal/decor"
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/view"
)

// ID identifies a Rule within a Store's slice-backed list. Rules are kept
// in a plain slice (not an arena) because match order is load-bearing and
// a slice preserves it directly; RuleId in spec §9's design note maps to a
// slice index here.
type ID int

// Predicate is one of the four match clauses a rule can carry (spec
// §4.6).
type Predicate struct {
	Set     bool
	Negate  bool
	Pattern string
	re      *regexp.Regexp
}

// compile anchors Pattern as `^(?:pattern)$` and stores the compiled
// extended-POSIX regex, per spec §6.3 ("pattern is an extended regex").
// A compile failure taints the predicate as unset and is reported to the
// caller so the rule can be dropped and logged (spec §7: "the rule is
// dropped at load time").
func (p *Predicate) compile() error {
	if !p.Set {
		return nil
	}
	re, err := regexp.CompilePOSIX("^(?:" + p.Pattern + ")$")
	if err != nil {
		p.Set = false
		return fmt.Errorf("rules: invalid pattern %q: %w", p.Pattern, err)
	}
	p.re = re
	return nil
}

// match runs the predicate against candidate (the empty string if the
// candidate attribute is absent), honoring Negate. An unset predicate
// always matches.
func (p Predicate) match(candidate string) bool {
	if !p.Set {
		return true
	}
	if p.re == nil {
		return false
	}
	return p.re.MatchString(candidate) != p.Negate
}

// Target is the (app_id, instance, role, title) tuple a rule is matched
// against (spec §4.6).
type Target struct {
	AppID, Instance, Role, Title string
}

// Attrs is the attribute block a rule applies on match (spec §4.6); every
// field is guarded by a SetX flag so "toggle a currently-unset attribute"
// (§4.6 remember-toggle) has something to flip.
type Attrs struct {
	SetWorkspace bool
	Workspace    int

	SetSticky bool
	Sticky    bool

	SetJump bool
	Jump    bool

	SetHead bool
	Head    int

	SetDimensions bool
	DimWidth      color.IntOrPercent
	DimHeight     color.IntOrPercent

	SetIgnoreSizeHints bool
	IgnoreSizeHints    bool

	SetPosition bool
	PosAnchor   geom.Anchor
	PosX        color.IntOrPercent
	PosY        color.IntOrPercent

	SetMinimized bool
	Minimized    bool

	SetMaximized bool
	MaximizedH   bool
	MaximizedV   bool

	SetFullscreen bool
	Fullscreen    bool

	SetShaded bool
	Shaded    bool

	SetTab bool
	Tab    bool

	SetAlpha       bool
	AlphaFocused   uint8
	AlphaUnfocused uint8

	SetFocusProtection bool
	FocusProtection    view.FocusProtection

	SetDecor bool
	Decor    decor.Mask

	SetLayer bool
	Layer    int

	SetSaveOnClose bool
	SaveOnClose    bool

	SetFocusHidden bool
	FocusHidden    bool

	SetIconHidden bool
	IconHidden    bool
}

// IsEmpty reports whether no attribute is set, the "empty rule" case
// spec §8.3 S5 logs rather than deleting.
func (a Attrs) IsEmpty() bool {
	return a == Attrs{}
}

// Rule is one apps-rule entry (spec §4.6).
type Rule struct {
	AppID, Instance, Role, Title Predicate
	MatchLimit                  uint32
	GroupID                     uint32
	Attrs

	matchCount uint32
}

// compile compiles every set predicate, returning the first error
// encountered (if any) so the caller can drop the rule and log it.
func (r *Rule) compile() error {
	for _, p := range []*Predicate{&r.AppID, &r.Instance, &r.Role, &r.Title} {
		if err := p.compile(); err != nil {
			return err
		}
	}
	return nil
}

// matches reports whether t satisfies every set predicate on r.
func (r *Rule) matches(t Target) bool {
	return r.AppID.match(t.AppID) &&
		r.Instance.match(t.Instance) &&
		r.Role.match(t.Role) &&
		r.Title.match(t.Title)
}

// eligible reports whether r can still match, honoring match_limit (0 =
// unlimited).
func (r *Rule) eligible() bool {
	return r.MatchLimit == 0 || r.matchCount < r.MatchLimit
}

// Match performs a linear scan over rules in order, skipping exhausted
// rules, and returns the first full match plus its index (spec §4.6
// "Match", invariant §8.1 item 5). It does not bump matchCount; callers
// do that via Store.RecordMatch once they've committed to using the rule.
func Match(rules []Rule, t Target) (ID, bool) {
	for i := range rules {
		if !rules[i].eligible() {
			continue
		}
		if rules[i].matches(t) {
			return ID(i), true
		}
	}
	return ID(-1), false
}
