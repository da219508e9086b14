package config

import (
	"emperror.dev/errors"

	"github.com/united-minecrafters/kaede/filter"
)

// Mutation errors. These are validation errors and carry no side effects.
const (
	ErrIndexOutOfRange = errors.Sentinel("config: index out of range")
	ErrLastStatus      = errors.Sentinel("config: cannot delete the only status")
	ErrUnknownRuleKind = errors.Sentinel("config: unknown rule kind")
)

// AddFilterRule appends a rule to the word or token blacklist, recompiles
// the rule set, and persists the document. An invalid pattern is rejected
// without changing the live rules.
func (c *Config) AddFilterRule(kind filter.RuleKind, rule string) error {
	err := c.mutateFilters(func(f *Filters) error {
		switch kind {
		case filter.KindWord:
			f.WordBlacklist = append(f.WordBlacklist, rule)
		case filter.KindToken:
			f.TokenBlacklist = append(f.TokenBlacklist, rule)
		case filter.KindDomain:
			f.DomainBlacklist = append(f.DomainBlacklist, rule)
		default:
			return ErrUnknownRuleKind
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.Save()
}

// DeleteFilterRule removes the rule at index n from the given blacklist and
// persists the document. It returns the removed rule.
func (c *Config) DeleteFilterRule(kind filter.RuleKind, n int) (removed string, err error) {
	err = c.mutateFilters(func(f *Filters) error {
		var list *[]string
		switch kind {
		case filter.KindWord:
			list = &f.WordBlacklist
		case filter.KindToken:
			list = &f.TokenBlacklist
		case filter.KindDomain:
			list = &f.DomainBlacklist
		default:
			return ErrUnknownRuleKind
		}

		if n < 0 || n >= len(*list) {
			return ErrIndexOutOfRange
		}
		removed = (*list)[n]
		*list = append(append([]string{}, (*list)[:n]...), (*list)[n+1:]...)
		return nil
	})
	if err != nil {
		return "", err
	}
	return removed, c.Save()
}

// mutateFilters applies fn to a copy of the filter lists, recompiles, and
// swaps both in under the lock. fn failing or the new rules failing to
// compile leaves the live config untouched.
func (c *Config) mutateFilters(fn func(*Filters) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := Filters{
		WordBlacklist:   append([]string{}, c.doc.Filters.WordBlacklist...),
		TokenBlacklist:  append([]string{}, c.doc.Filters.TokenBlacklist...),
		DomainBlacklist: append([]string{}, c.doc.Filters.DomainBlacklist...),
		RoleWhitelist:   c.doc.Filters.RoleWhitelist,
	}

	if err := fn(&f); err != nil {
		return err
	}

	rules, err := compileRules(f)
	if err != nil {
		return err
	}

	c.doc.Filters = f
	c.rules = rules
	return nil
}

// AddStatus appends a status to the rotation list and persists the document.
func (c *Config) AddStatus(s string) error {
	c.mu.Lock()
	c.doc.Statuses = append(c.doc.Statuses, s)
	c.mu.Unlock()
	return c.Save()
}

// DeleteStatus removes the status at index n. The last remaining status
// cannot be deleted.
func (c *Config) DeleteStatus(n int) (removed string, err error) {
	c.mu.Lock()
	switch {
	case len(c.doc.Statuses) <= 1:
		err = ErrLastStatus
	case n < 0 || n >= len(c.doc.Statuses):
		err = ErrIndexOutOfRange
	default:
		removed = c.doc.Statuses[n]
		c.doc.Statuses = append(append([]string{}, c.doc.Statuses[:n]...), c.doc.Statuses[n+1:]...)
	}
	c.mu.Unlock()

	if err != nil {
		return "", err
	}
	return removed, c.Save()
}

// SetAutokick sets the autokick threshold in days (0 disables) and persists
// the document.
func (c *Config) SetAutokick(days int) error {
	if days < 0 {
		return ErrIndexOutOfRange
	}

	c.mu.Lock()
	c.doc.Autokick = days
	c.mu.Unlock()
	return c.Save()
}
