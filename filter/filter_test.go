package filter

import (
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateWordBoundaries(t *testing.T) {
	rules, err := Compile([]string{"spam"}, nil, nil, nil)
	require.NoError(t, err)

	dec := rules.Evaluate("this is spam", nil)
	assert.False(t, dec.Allow, "whole word should match")
	assert.Equal(t, KindWord, dec.Kind)
	assert.Equal(t, "spam", dec.Rule)

	// no boundary, so no match
	dec = rules.Evaluate("spammy", nil)
	assert.True(t, dec.Allow, "substring of a larger word should not match")

	dec = rules.Evaluate("anti-spam-filter", nil)
	assert.False(t, dec.Allow, "hyphen-delimited occurrence should match")

	dec = rules.Evaluate("SPAM!", nil)
	assert.False(t, dec.Allow, "matching is case-insensitive")
}

func TestEvaluateTokens(t *testing.T) {
	rules, err := Compile(nil, []string{"grr"}, nil, nil)
	require.NoError(t, err)

	dec := rules.Evaluate("aggrrravating", nil)
	assert.False(t, dec.Allow, "token rules match mid-word")
	assert.Equal(t, KindToken, dec.Kind)
	assert.Equal(t, "grr", dec.Rule)

	dec = rules.Evaluate("fine message", nil)
	assert.True(t, dec.Allow)
}

func TestEvaluateDomains(t *testing.T) {
	rules, err := Compile(nil, nil, []string{"Scam.Example.Com"}, nil)
	require.NoError(t, err)

	dec := rules.Evaluate("check out https://scam.example.com/win", nil)
	assert.False(t, dec.Allow)
	assert.Equal(t, KindDomain, dec.Kind)
	assert.Equal(t, "scam.example.com", dec.Rule)

	dec = rules.Evaluate("check out https://example.com", nil)
	assert.True(t, dec.Allow)
}

func TestEvaluateWhitelist(t *testing.T) {
	staff := discord.RoleID(123)

	rules, err := Compile([]string{"spam"}, []string{"grr"}, []string{"scam.example.com"}, []discord.RoleID{staff})
	require.NoError(t, err)

	dec := rules.Evaluate("spam grr scam.example.com", []discord.RoleID{456, staff})
	assert.True(t, dec.Allow, "whitelisted authors are always allowed")

	dec = rules.Evaluate("spam grr scam.example.com", []discord.RoleID{456})
	assert.False(t, dec.Allow)
}

func TestEvaluateOrder(t *testing.T) {
	// word rules are checked before token rules, token rules before domains
	rules, err := Compile([]string{"spam"}, []string{"spam"}, []string{"spam"}, nil)
	require.NoError(t, err)

	dec := rules.Evaluate("spam", nil)
	assert.Equal(t, KindWord, dec.Kind)

	rules, err = Compile(nil, []string{"spam"}, []string{"spam"}, nil)
	require.NoError(t, err)

	dec = rules.Evaluate("spam", nil)
	assert.Equal(t, KindToken, dec.Kind)
}

func TestCompileInvalidPattern(t *testing.T) {
	_, err := Compile(nil, []string{"(unclosed"}, nil, nil)
	assert.Error(t, err)

	_, err = Compile([]string{"(unclosed"}, nil, nil, nil)
	assert.Error(t, err)
}
