package shared

import (
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

const (
	DefaultMaxWords       = 2000
	DefaultTokenThreshold = 0.8
)

// Config holds the user-tunable generation settings. Flags override config
// values, config values override the defaults.
type Config struct {
	MaxWords           int      `yaml:"max_words"`
	TokenThreshold     float64  `yaml:"token_threshold"`
	TruncateOnOverflow bool     `yaml:"truncate_on_overflow"`
	Sections           []string `yaml:"sections,omitempty"`
	OutputDir          string   `yaml:"output_dir,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		MaxWords:       DefaultMaxWords,
		TokenThreshold: DefaultTokenThreshold,
	}
}

func (c Config) Validate() error {
	if c.MaxWords < 0 {
		return Errorf(ErrorSourceInput, "max_words must not be negative, got %d", c.MaxWords)
	}
	if c.TokenThreshold < 0 || c.TokenThreshold > 1 {
		return Errorf(ErrorSourceInput, "token_threshold must be in [0,1], got %v", c.TokenThreshold)
	}
	return nil
}

type ConfigManager struct {
	fs       *afero.Afero
	userInfo UserInfo
}

func NewConfigManager(fs *afero.Afero, userInfo UserInfo) *ConfigManager {
	return &ConfigManager{
		fs:       fs,
		userInfo: userInfo,
	}
}

func (m *ConfigManager) Load() (Config, error) {
	config := DefaultConfig()

	configDir, err := m.userInfo.ConfigDir()
	if err != nil {
		return config, err
	}

	configFile := filepath.Join(configDir, configFileName)
	exists, err := m.fs.Exists(configFile)
	if err != nil {
		return config, Wrap(ErrorSourceIO, err, "failed to check config file %s", configFile)
	}
	if !exists {
		return config, nil
	}

	content, err := m.fs.ReadFile(configFile)
	if err != nil {
		return config, Wrap(ErrorSourceIO, err, "failed to read config file %s", configFile)
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return DefaultConfig(), Wrap(ErrorSourceInput, err, "failed to parse config file %s", configFile)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

func (m *ConfigManager) Save(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	configDir, err := m.userInfo.ConfigDir()
	if err != nil {
		return err
	}

	content, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	configFile := filepath.Join(configDir, configFileName)
	return m.fs.WriteFile(configFile, content, 0600)
}
