// Package filter implements the message content filter.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
)

// RuleKind is the rule list a filter match came from.
type RuleKind string

const (
	KindWord   RuleKind = "word_blacklist"
	KindToken  RuleKind = "token_blacklist"
	KindDomain RuleKind = "domain_blacklist"
)

// Decision is the result of evaluating a message against the rule lists.
type Decision struct {
	Allow bool
	// Kind and Rule are only set for rejections.
	Kind RuleKind
	Rule string
}

var allow = Decision{Allow: true}

func reject(kind RuleKind, rule string) Decision {
	return Decision{Kind: kind, Rule: rule}
}

type compiledRule struct {
	raw string
	re  *regexp.Regexp
}

// Rules is an immutable, precompiled set of filter rules.
// Word rules match on word or hyphen boundaries, token rules match as raw
// regex fragments anywhere in the content, domain rules match as plain
// substrings. All matching is done against lowercased content.
//
// The role whitelist matches any role the author holds. The guild's
// @everyone role is stripped by the caller before evaluation, so it can
// never be whitelisted.
type Rules struct {
	words   []compiledRule
	tokens  []compiledRule
	domains []string

	whitelist map[discord.RoleID]struct{}
}

// Compile precompiles the given rule lists. Patterns are compiled once here
// rather than per evaluated message.
func Compile(words, tokens, domains []string, whitelist []discord.RoleID) (*Rules, error) {
	r := &Rules{
		whitelist: make(map[discord.RoleID]struct{}, len(whitelist)),
	}

	for _, w := range words {
		re, err := regexp.Compile(fmt.Sprintf(`(?:-|\b)%s(?:-|\b)`, w))
		if err != nil {
			return nil, errors.Wrapf(err, "compiling word rule %q", w)
		}
		r.words = append(r.words, compiledRule{raw: w, re: re})
	}

	for _, t := range tokens {
		re, err := regexp.Compile(t)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling token rule %q", t)
		}
		r.tokens = append(r.tokens, compiledRule{raw: t, re: re})
	}

	for _, d := range domains {
		r.domains = append(r.domains, strings.ToLower(d))
	}

	for _, id := range whitelist {
		r.whitelist[id] = struct{}{}
	}

	return r, nil
}

// Evaluate checks content against the rule lists.
// Rule lists are checked in order (words, tokens, domains) and the first
// match wins. Authors holding any whitelisted role are always allowed.
func (r *Rules) Evaluate(content string, roles []discord.RoleID) Decision {
	for _, id := range roles {
		if _, ok := r.whitelist[id]; ok {
			return allow
		}
	}

	content = strings.ToLower(content)

	for _, w := range r.words {
		if w.re.MatchString(content) {
			return reject(KindWord, w.raw)
		}
	}

	for _, t := range r.tokens {
		if t.re.MatchString(content) {
			return reject(KindToken, t.raw)
		}
	}

	for _, d := range r.domains {
		if strings.Contains(content, d) {
			return reject(KindDomain, d)
		}
	}

	return allow
}
