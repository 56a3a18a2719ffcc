/*
Package config manages TOML config for wordcorrect.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordcorrect/internal/utils"
	"github.com/bastiangx/wordcorrect/pkg/dictionary"
	"github.com/bastiangx/wordcorrect/pkg/keyboard"
	"github.com/bastiangx/wordcorrect/pkg/sketch"
)

// Config holds the entire config structure
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Dict     DictConfig     `toml:"dict"`
	Keyboard KeyboardConfig `toml:"keyboard"`
	Server   ServerConfig   `toml:"server"`
	CLI      CliConfig      `toml:"cli"`
}

// EngineConfig has scoring and sketch options.
type EngineConfig struct {
	Alpha         float64 `toml:"alpha"`
	Beta          float64 `toml:"beta"`
	Precision     int     `toml:"precision"`
	SketchAlpha   float64 `toml:"sketch_alpha"`
	Hasher        string  `toml:"hasher"`
	UseKeyboard   bool    `toml:"use_keyboard"`
	ReturnInvalid bool    `toml:"return_invalid"`
	CacheSize     int     `toml:"cache_size"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Source           string   `toml:"source"`
	Dir              string   `toml:"dir"`
	Addons           []string `toml:"addons"`
	ValidLetters     []string `toml:"valid_letters"`
	CompactThreshold float64  `toml:"compact_threshold"`
}

// KeyboardConfig selects a named layout, or custom rows when Rows is set.
type KeyboardConfig struct {
	Layout string   `toml:"layout"`
	Rows   []string `toml:"rows"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	HTTPAddr     string `toml:"http_addr"`
	MaxBatch     int    `toml:"max_batch"`
	ReadTimeout  int    `toml:"read_timeout_ms"`
	WriteTimeout int    `toml:"write_timeout_ms"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	Details bool `toml:"details"`
	Times   bool `toml:"times"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordcorrect")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordcorrect")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordcorrect/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Alpha:         0.2,
			Beta:          0.35,
			Precision:     sketch.DefaultPrecision,
			Hasher:        "xxh3",
			UseKeyboard:   true,
			ReturnInvalid: true,
			CacheSize:     0,
		},
		Dict: DictConfig{
			Source:           "",
			Addons:           []string{},
			ValidLetters:     []string{"a-z"},
			CompactThreshold: dictionary.DefaultCompactThreshold,
		},
		Keyboard: KeyboardConfig{
			Layout: keyboard.DefaultLayout,
		},
		Server: ServerConfig{
			HTTPAddr:     "127.0.0.1:8080",
			MaxBatch:     1000,
			ReadTimeout:  5000,
			WriteTimeout: 10000,
		},
		CLI: CliConfig{
			Details: false,
			Times:   false,
		},
	}
}

// Validate checks the values that would otherwise fail deep inside the engine.
func (c *Config) Validate() error {
	if _, err := sketch.NewConfig(c.Engine.Precision); err != nil {
		return fmt.Errorf("engine.precision: %w", err)
	}
	if _, err := sketch.NewHasher(c.Engine.Hasher); err != nil {
		return fmt.Errorf("engine.hasher: %w", err)
	}
	if _, err := dictionary.ParseLetters(c.Dict.ValidLetters); err != nil {
		return fmt.Errorf("dict.valid_letters: %w", err)
	}
	if len(c.Keyboard.Rows) == 0 {
		if _, err := keyboard.LayoutByName(c.Keyboard.Layout); err != nil {
			return fmt.Errorf("keyboard.layout: %w", err)
		}
	}
	if c.Dict.CompactThreshold < 0 || c.Dict.CompactThreshold > 1 {
		return fmt.Errorf("dict.compact_threshold: %v is outside [0, 1]", c.Dict.CompactThreshold)
	}
	return nil
}

// Layout resolves the configured keyboard.
func (c *Config) Layout() (keyboard.Layout, error) {
	if len(c.Keyboard.Rows) > 0 {
		return keyboard.Custom(c.Keyboard.Rows), nil
	}
	return keyboard.LayoutByName(c.Keyboard.Layout)
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every value that decodes with the right type and
// falls back to defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "keyboard"); ok {
		extractKeyboardConfig(section, &config.Keyboard)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractFloat64(data, "alpha"); ok {
		engine.Alpha = val
	}
	if val, ok := utils.ExtractFloat64(data, "beta"); ok {
		engine.Beta = val
	}
	if val, ok := utils.ExtractInt64(data, "precision"); ok {
		engine.Precision = val
	}
	if val, ok := utils.ExtractFloat64(data, "sketch_alpha"); ok {
		engine.SketchAlpha = val
	}
	if val, ok := utils.ExtractString(data, "hasher"); ok {
		engine.Hasher = val
	}
	if val, ok := utils.ExtractBool(data, "use_keyboard"); ok {
		engine.UseKeyboard = val
	}
	if val, ok := utils.ExtractBool(data, "return_invalid"); ok {
		engine.ReturnInvalid = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		engine.CacheSize = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "source"); ok {
		dict.Source = val
	}
	if val, ok := utils.ExtractString(data, "dir"); ok {
		dict.Dir = val
	}
	if val, ok := utils.ExtractStrings(data, "addons"); ok {
		dict.Addons = val
	}
	if val, ok := utils.ExtractStrings(data, "valid_letters"); ok {
		dict.ValidLetters = val
	}
	if val, ok := utils.ExtractFloat64(data, "compact_threshold"); ok {
		dict.CompactThreshold = val
	}
}

func extractKeyboardConfig(data map[string]any, kb *KeyboardConfig) {
	if val, ok := utils.ExtractString(data, "layout"); ok {
		kb.Layout = val
	}
	if val, ok := utils.ExtractStrings(data, "rows"); ok {
		kb.Rows = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractString(data, "http_addr"); ok {
		server.HTTPAddr = val
	}
	if val, ok := utils.ExtractInt64(data, "max_batch"); ok {
		server.MaxBatch = val
	}
	if val, ok := utils.ExtractInt64(data, "read_timeout_ms"); ok {
		server.ReadTimeout = val
	}
	if val, ok := utils.ExtractInt64(data, "write_timeout_ms"); ok {
		server.WriteTimeout = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "details"); ok {
		cli.Details = val
	}
	if val, ok := utils.ExtractBool(data, "times"); ok {
		cli.Times = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the scoring values and saves to file. An empty configPath
// only updates the in-memory config.
func (c *Config) Update(configPath string, alpha, beta *float64, useKeyboard, returnInvalid *bool) error {
	engine := &c.Engine
	if alpha != nil {
		engine.Alpha = *alpha
	}
	if beta != nil {
		engine.Beta = *beta
	}
	if useKeyboard != nil {
		engine.UseKeyboard = *useKeyboard
	}
	if returnInvalid != nil {
		engine.ReturnInvalid = *returnInvalid
	}
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
