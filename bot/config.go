package bot

import (
	"encoding/json"
	"errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	C             Config
	ConfigPath    = "config/config.json"
	fileMode      = os.FileMode(0700)
	DefaultPrefix = "!"
)

type configOperation func(*Config)
type guildOperation func(*GuildConfig) (*GuildConfig, string)

// GuildContext will modify a GuildConfig non-concurrently.
// Avoid using inside a network or hang-able context whenever possible.
func GuildContext(c discord.GuildID, g guildOperation) {
	id := int64(c)
	start := time.Now().UnixMilli()
	found := false

	C.Run(func(c *Config) {
		for n, guild := range c.GuildConfigs {
			if guild.ID == id {
				res, fnName := g(&guild)
				c.GuildConfigs[n] = *res
				found = true

				if Debug {
					log.Printf("Execute: %vms (%s)\n", time.Now().UnixMilli()-start, fnName)
				}
				break
			}
		}

		// If we didn't find an existing config, run guildOperation with the defaultConfig, and append it to the list
		if !found {
			defaultConfig := NewGuildConfig(id)
			if c.PrefixCache == nil {
				c.PrefixCache = make(map[int64]string)
			}
			c.PrefixCache[id] = defaultConfig.Prefix

			res, _ := g(&defaultConfig)
			c.GuildConfigs = append(c.GuildConfigs, *res)
		}
	})
}

// FindGuildConfig returns a copy of the guild's config, and whether one exists.
// Unlike GuildContext, it never creates a config.
func FindGuildConfig(c discord.GuildID) (GuildConfig, bool) {
	id := int64(c)
	var cfg GuildConfig
	found := false

	C.Run(func(c *Config) {
		for _, guild := range c.GuildConfigs {
			if guild.ID == id {
				cfg = guild
				found = true
				break
			}
		}
	})

	return cfg, found
}

// RemoveGuildConfig drops the guild's config, returning whether it existed
func RemoveGuildConfig(c discord.GuildID) bool {
	id := int64(c)
	removed := false

	C.Run(func(c *Config) {
		configs := make([]GuildConfig, 0, len(c.GuildConfigs))
		for _, guild := range c.GuildConfigs {
			if guild.ID == id {
				removed = true
				continue
			}
			configs = append(configs, guild)
		}

		c.GuildConfigs = configs
		delete(c.PrefixCache, id)
	})

	return removed
}

// Run will modify a Config non-concurrently.
// Avoid using inside a network or hang-able context whenever possible.
func (c *Config) Run(co configOperation) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	co(c)
}

type Config struct {
	Mutex              sync.Mutex       `json:"-"` // not saved in DB
	PrefixCache        map[int64]string `json:"-"` // not saved in DB // [guild id]prefix
	BotToken           string           `json:"bot_token"`
	OperatorChannel    int64            `json:"operator_channel,omitempty"`
	OperatorIDs        []int64          `json:"operator_ids,omitempty"`
	SweepIntervalHours int64            `json:"sweep_interval_hours,omitempty"`
	MessagesDir        string           `json:"messages_dir,omitempty"`
	WelcomeMessage     string           `json:"welcome_message,omitempty"`
	GuildConfigs       []GuildConfig    `json:"guild_configs,omitempty"`
}

type GuildConfig struct {
	ID               int64              `json:"id"`
	Prefix           string             `json:"prefix,omitempty"`
	ReportingChannel int64              `json:"reporting_channel,omitempty"`
	Permissions      PermissionsConfig  `json:"permissions"`
	Verification     VerificationConfig `json:"verification"`
	Roles            RolesConfig        `json:"roles"`
	Reports          []IncidentReport   `json:"reports,omitempty"`
}

type PermissionsConfig struct {
	ManageChannels    []int64 `json:"manage_channels,omitempty"`
	ManagePermissions []int64 `json:"manage_permissions,omitempty"`
	Moderation        []int64 `json:"moderation,omitempty"`
}

// VerificationConfig is disabled while Role is 0
type VerificationConfig struct {
	Role          int64  `json:"role,omitempty"`
	Channel       int64  `json:"channel,omitempty"` // the introduction channel
	GraceDays     int64  `json:"grace_days,omitempty"`
	DelayMinutes  int64  `json:"delay_minutes,omitempty"`
	BaselineRoles int64  `json:"baseline_roles,omitempty"`
	Invite        string `json:"invite,omitempty"`
}

func (v VerificationConfig) Enabled() bool {
	return v.Role != 0
}

type RolesConfig struct {
	Ignored              []string          `json:"ignored,omitempty"`
	HeaderMarker         string            `json:"header_marker,omitempty"`
	Aliases              map[string]string `json:"aliases,omitempty"` // [alias]role name
	LanguagesCategory    string            `json:"languages_category,omitempty"`
	MinRetainedLanguages int64             `json:"min_retained_languages,omitempty"`
	Reaction             string            `json:"reaction,omitempty"` // url-encoded, added to accepted introductions
}

type IncidentReport struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	IssuerID  int64     `json:"issuer_id"`
	Issuer    string    `json:"issuer"`
	SubjectID int64     `json:"subject_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Time      time.Time `json:"time"`
}

func NewGuildConfig(id int64) GuildConfig {
	return GuildConfig{ID: id, Prefix: DefaultPrefix}
}

// SetupConfigSaving will run SaveConfig every 5 minutes
func SetupConfigSaving() {
	if _, err := Scheduler.Every(5).Minutes().Tag("config-save").Do(SaveConfig); err != nil {
		log.Printf("failed to schedule config saving: %v\n", err)
	}
}

// ConfigExists reports whether ConfigPath is present on disk, used to detect a first run
func ConfigExists() bool {
	_, err := os.Stat(ConfigPath)
	return !errors.Is(err, fs.ErrNotExist)
}

// BootstrapConfig writes the initial config for a first run
func BootstrapConfig(token string) error {
	if len(token) == 0 {
		return ConfigError("BootstrapConfig", "creating initial config", "no bot token given")
	}

	if err := os.MkdirAll(filepath.Dir(ConfigPath), fileMode); err != nil {
		return err
	}

	C.Run(func(c *Config) {
		c.BotToken = token
	})

	return writeConfig()
}

func LoadConfig() error {
	bytes, err := os.ReadFile(ConfigPath)
	if err != nil {
		return err
	}

	var err2 error
	C.Run(func(c *Config) {
		if err2 = json.Unmarshal(bytes, c); err2 != nil {
			return
		}

		c.PrefixCache = make(map[int64]string, 0)
		for _, g := range c.GuildConfigs {
			prefix := g.Prefix
			if len(prefix) == 0 {
				prefix = DefaultPrefix
			}
			c.PrefixCache[g.ID] = prefix
		}
	})

	return err2
}

func SaveConfig() {
	if err := writeConfig(); err != nil {
		log.Printf("failed to write config: %v\n", err)
	} else if Debug {
		log.Printf("successfully saved config\n")
	}
}

func writeConfig() error {
	var bytes []byte
	var err error = nil

	C.Run(func(c *Config) {
		bytes, err = json.MarshalIndent(c, "", "    ")
	})

	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath, bytes, fileMode)
}
