// Package config implements the bot's hot-reloadable YAML configuration.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"gopkg.in/yaml.v3"

	"github.com/united-minecrafters/kaede/common/log"
	"github.com/united-minecrafters/kaede/filter"
)

// Document is the on-disk structure of the config file.
type Document struct {
	GuildID discord.GuildID `yaml:"guild_id"`

	Prefixes []string `yaml:"prefixes"`

	Roles    Roles    `yaml:"roles"`
	Channels Channels `yaml:"channels"`
	Colors   Colors   `yaml:"colors"`

	Filters Filters `yaml:"filters"`
	Logging Logging `yaml:"logging"`

	// Autokick is the minimum account age in days for new members.
	// 0 disables autokick.
	Autokick int `yaml:"autokick"`

	Statuses    []string `yaml:"statuses"`
	StatusCycle int      `yaml:"status_cycle"`

	// RestrictedCategories are category IDs whose channels are never silenced.
	RestrictedCategories []discord.ChannelID `yaml:"restricted_categories"`
}

type Roles struct {
	Staff    discord.RoleID `yaml:"staff"`
	Muted    discord.RoleID `yaml:"muted"`
	Operator discord.RoleID `yaml:"operator"`
}

type Channels struct {
	// Log receives the detailed audit entries, Modlog the terse public notices.
	Log      discord.ChannelID `yaml:"log"`
	Modlog   discord.ChannelID `yaml:"modlog"`
	Greeting discord.ChannelID `yaml:"greeting"`

	Roles discord.ChannelID `yaml:"roles"`
	Rules discord.ChannelID `yaml:"rules"`
	Intro discord.ChannelID `yaml:"intro"`
}

type Colors struct {
	LogMessage discord.Color `yaml:"log_message"`
	Edit       discord.Color `yaml:"edit"`
	Delete     discord.Color `yaml:"delete"`
	Filter     discord.Color `yaml:"filter"`
	User       discord.Color `yaml:"user"`
	Kick       discord.Color `yaml:"kick"`
	Mute       discord.Color `yaml:"mute"`
	Warn       discord.Color `yaml:"warn"`
	Ban        discord.Color `yaml:"ban"`
}

type Filters struct {
	WordBlacklist   []string `yaml:"word_blacklist"`
	TokenBlacklist  []string `yaml:"token_blacklist"`
	DomainBlacklist []string `yaml:"domain_blacklist"`

	RoleWhitelist []discord.RoleID `yaml:"role_whitelist"`
}

type Logging struct {
	// IgnoreBots skips deletion/edit audit entries for bot authors.
	IgnoreBots bool `yaml:"ignore_bots"`
	// IgnoreDeletePrefixes skips deletion audit entries for messages
	// starting with any of these prefixes (usually command prefixes).
	IgnoreDeletePrefixes []string `yaml:"ignore_del_prefix"`
}

// Config holds the live configuration. Reload and Save are safe to call
// concurrently with readers; a failed reload leaves the previous document
// in effect.
type Config struct {
	mu    sync.RWMutex
	path  string
	doc   Document
	rules *filter.Rules
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	c := &Config{path: path}

	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the config file and swaps the document atomically.
// Filter patterns are recompiled; if parsing or compiling fails, the old
// document and rules stay live and the error is returned.
func (c *Config) Reload() error {
	b, err := os.ReadFile(c.path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}

	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return errors.Wrap(err, "unmarshaling config")
	}

	rules, err := compileRules(doc.Filters)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.doc = doc
	c.rules = rules
	c.mu.Unlock()

	log.Named("config").Infof("Loaded config from %v", c.path)
	return nil
}

// Save writes the current document back to disk. The write goes through a
// temporary file and a rename so a crash can't truncate the config.
func (c *Config) Save() error {
	c.mu.RLock()
	b, err := yaml.Marshal(c.doc)
	c.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return errors.Wrap(err, "replacing config file")
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string {
	return filepath.Clean(c.path)
}

// Get returns a snapshot of the current document. The snapshot's slices
// must be treated as read-only.
func (c *Config) Get() Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc
}

// Rules returns the current compiled filter rules.
func (c *Config) Rules() *filter.Rules {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rules
}

func compileRules(f Filters) (*filter.Rules, error) {
	return filter.Compile(f.WordBlacklist, f.TokenBlacklist, f.DomainBlacklist, f.RoleWhitelist)
}
