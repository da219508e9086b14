package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/united-minecrafters/kaede/filter"
)

const testConfig = `guild_id: 586199960198971409
prefixes: ["!"]
roles:
  staff: 100
  muted: 101
  operator: 102
channels:
  log: 200
  modlog: 201
  greeting: 202
colors:
  log_message: 5592575
  ban: 16733525
filters:
  word_blacklist: ["spam"]
  token_blacklist: ["grr"]
  domain_blacklist: ["scam.example.com"]
  role_whitelist: [100]
logging:
  ignore_bots: true
  ignore_del_prefix: ["!", "?"]
autokick: 3
statuses: ["Hello :)", "!help"]
status_cycle: 120
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	doc := c.Get()
	assert.EqualValues(t, 586199960198971409, doc.GuildID)
	assert.EqualValues(t, 100, doc.Roles.Staff)
	assert.EqualValues(t, 201, doc.Channels.Modlog)
	assert.Equal(t, 3, doc.Autokick)
	assert.True(t, doc.Logging.IgnoreBots)
	assert.Equal(t, []string{"!", "?"}, doc.Logging.IgnoreDeletePrefixes)

	// rules are compiled at load time
	dec := c.Rules().Evaluate("this is spam", nil)
	assert.False(t, dec.Allow)
}

func TestLoadInvalidPattern(t *testing.T) {
	_, err := Load(writeConfig(t, `filters: {token_blacklist: ["(unclosed"]}`))
	assert.Error(t, err)
}

func TestReloadKeepsOldDocumentOnFailure(t *testing.T) {
	path := writeConfig(t, testConfig)

	c, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{{ not yaml"), 0o644))
	assert.Error(t, c.Reload())

	// previous document stays live
	assert.Equal(t, 3, c.Get().Autokick)
	assert.False(t, c.Rules().Evaluate("spam", nil).Allow)
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeConfig(t, testConfig)

	c, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, c.AddFilterRule(filter.KindWord, "eggs"))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"spam", "eggs"}, reloaded.Get().Filters.WordBlacklist)
	assert.False(t, reloaded.Rules().Evaluate("green eggs and ham", nil).Allow)
}

func TestAddFilterRuleInvalidPattern(t *testing.T) {
	c, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Error(t, c.AddFilterRule(filter.KindToken, "(unclosed"))

	// live rules unchanged
	assert.False(t, c.Rules().Evaluate("grr", nil).Allow)
	assert.True(t, c.Rules().Evaluate("unclosed", nil).Allow)
}

func TestDeleteFilterRule(t *testing.T) {
	c, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	removed, err := c.DeleteFilterRule(filter.KindWord, 0)
	require.NoError(t, err)
	assert.Equal(t, "spam", removed)
	assert.True(t, c.Rules().Evaluate("this is spam", nil).Allow)

	_, err = c.DeleteFilterRule(filter.KindWord, 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestDeleteStatus(t *testing.T) {
	c, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	removed, err := c.DeleteStatus(0)
	require.NoError(t, err)
	assert.Equal(t, "Hello :)", removed)

	_, err = c.DeleteStatus(0)
	assert.ErrorIs(t, err, ErrLastStatus)
}
