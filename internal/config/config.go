// Package config loads the structured project configuration: defaults,
// then .context/config.yaml, then PROJECT_INDEX_* environment variables,
// then CLI flag overrides — in that precedence order, via viper.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"projectindex/internal/errs"
)

// Config is the complete project configuration.
type Config struct {
	ProjectRoot     string   `mapstructure:"project_root"`
	IndexFile       string   `mapstructure:"index_file"`
	IncludePatterns []string `mapstructure:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns"`
	MaxFileSize     int64    `mapstructure:"max_file_size"`
	Languages       []string `mapstructure:"languages"`

	Watcher WatcherConfig `mapstructure:"watcher"`
	Server  ServerConfig  `mapstructure:"server"`
	Embed   EmbedConfig   `mapstructure:"embed"`
	Chat    ChatConfig    `mapstructure:"chat"`

	// ServerURL holds the address of a running resident server. Bound to
	// PROJECT_INDEX_SERVER per spec.md §6. The CLI commands do not read it:
	// they always load the index from disk.
	ServerURL string `mapstructure:"server_url"`
}

// WatcherConfig controls the background file watcher.
type WatcherConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	PollSeconds   int  `mapstructure:"poll_seconds"`
	DebounceMillis int `mapstructure:"debounce_millis"`
}

// ServerConfig controls the resident HTTP server.
type ServerConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Trace bool   `mapstructure:"trace"`
}

// EmbedConfig controls the embedding backend used by the Semantic Cache.
type EmbedConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// ChatConfig controls the generative backend used by overview synthesis.
// It is independent of EmbedConfig since an Ollama install commonly runs
// a small embedding model alongside a separate chat-capable model.
type ChatConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// Default returns the built-in configuration, used when no config file
// is present and no overrides apply.
func Default() *Config {
	return &Config{
		ProjectRoot:     ".",
		IndexFile:       "PROJECT_INDEX.json",
		IncludePatterns: []string{"**/*"},
		ExcludePatterns: []string{".git", "node_modules", "vendor", "dist", "build", "__pycache__"},
		MaxFileSize:     1 << 20,
		Languages:       []string{"go", "javascript", "typescript", "python", "rust", "shell"},
		Watcher: WatcherConfig{
			Enabled:        true,
			PollSeconds:    2,
			DebounceMillis: 750,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 7420,
		},
		Embed: EmbedConfig{
			BaseURL: "http://localhost:11434",
			Model:   "nomic-embed-text",
		},
		Chat: ChatConfig{
			BaseURL: "http://localhost:11434",
			Model:   "llama3.2",
		},
	}
}

// Load reads .context/config.yaml under projectRoot (if present),
// layering PROJECT_INDEX_* environment variables on top, and returns the
// merged Config. A missing config file is not an error — defaults apply.
func Load(projectRoot string) (*Config, error) {
	return LoadFrom(projectRoot, "")
}

// LoadFrom behaves like Load, but reads the config file from configPath
// instead of <projectRoot>/.context/config.yaml when configPath is set
// (the CLI's --config override).
func LoadFrom(projectRoot, configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(projectRoot, ".context"))
	}

	v.SetEnvPrefix("PROJECT_INDEX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The spec names these four env vars explicitly and flatly
	// (PROJECT_INDEX_HOST, not PROJECT_INDEX_SERVER_HOST), so they're
	// bound by hand rather than relying on the dot-to-underscore mapping
	// AutomaticEnv would otherwise derive from the nested struct tags.
	v.BindEnv("server.host", "PROJECT_INDEX_HOST")
	v.BindEnv("server.port", "PROJECT_INDEX_PORT")
	v.BindEnv("server.trace", "PROJECT_INDEX_TRACE")
	v.BindEnv("server_url", "PROJECT_INDEX_SERVER")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errs.Wrap(errs.ConfigError, "read config.yaml", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.Wrap(errs.ConfigError, "unmarshal config", err)
	}
	if cfg.ProjectRoot == "" || cfg.ProjectRoot == "." {
		cfg.ProjectRoot = projectRoot
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("project_root", d.ProjectRoot)
	v.SetDefault("index_file", d.IndexFile)
	v.SetDefault("include_patterns", d.IncludePatterns)
	v.SetDefault("exclude_patterns", d.ExcludePatterns)
	v.SetDefault("max_file_size", d.MaxFileSize)
	v.SetDefault("languages", d.Languages)
	v.SetDefault("watcher.enabled", d.Watcher.Enabled)
	v.SetDefault("watcher.poll_seconds", d.Watcher.PollSeconds)
	v.SetDefault("watcher.debounce_millis", d.Watcher.DebounceMillis)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.trace", d.Server.Trace)
	v.SetDefault("embed.base_url", d.Embed.BaseURL)
	v.SetDefault("embed.model", d.Embed.Model)
	v.SetDefault("chat.base_url", d.Chat.BaseURL)
	v.SetDefault("chat.model", d.Chat.Model)
}

// Addr is the host:port the resident server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
