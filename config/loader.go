package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "semcomply.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/semcomply"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"

	// EnvMaxIterations overrides engine.max_iterations
	EnvMaxIterations = "SEMCOMPLY_MAX_ITERATIONS"
	// EnvNATSURL overrides nats.url
	EnvNATSURL = "SEMCOMPLY_NATS_URL"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	// workDir and homeDir default to the process working and home directories.
	workDir string
	homeDir string
	getenv  func(string) string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, getenv: os.Getenv}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/semcomply/config.yaml)
// 3. Project config (semcomply.yaml in current or parent directories)
// 4. Environment variables
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	if userConfigPath := l.userConfigPath(); userConfigPath != "" {
		if userConfig, err := readLayer(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
			config.Merge(userConfig)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	if projectConfigPath := l.findProjectConfig(); projectConfigPath != "" {
		projectConfig, err := readLayer(projectConfigPath)
		if err != nil {
			return nil, fmt.Errorf("project config %s: %w", projectConfigPath, err)
		}
		l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
		projectConfig.resolvePaths(filepath.Dir(projectConfigPath))
		config.Merge(projectConfig)
	} else {
		l.logger.Debug("No project config found")
	}

	if err := l.applyEnv(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFile loads an explicit config file over the defaults, then applies
// environment overrides.
func (l *Loader) LoadFile(path string) (*Config, error) {
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	config.resolvePaths(filepath.Dir(path))
	if err := l.applyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	userConfigPath := l.userConfigPath()
	if userConfigPath == "" {
		return fmt.Errorf("no home directory")
	}

	if _, err := os.Stat(userConfigPath); err == nil {
		return nil
	}

	if err := DefaultConfig().SaveToFile(userConfigPath); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return nil
}

func (l *Loader) applyEnv(config *Config) error {
	if v := l.getenv(EnvMaxIterations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxIterations, err)
		}
		config.Engine.MaxIterations = n
		l.logger.Debug("Applied environment override", slog.String("name", EnvMaxIterations))
	}
	if v := l.getenv(EnvNATSURL); v != "" {
		config.NATS.URL = v
		l.logger.Debug("Applied environment override", slog.String("name", EnvNATSURL))
	}
	return nil
}

// resolvePaths makes relative source directories relative to base.
func (c *Config) resolvePaths(base string) {
	for _, src := range []*SourceConfig{&c.Ontology, &c.Rules, &c.Frameworks} {
		if src.Dir != "" && !filepath.IsAbs(src.Dir) {
			src.Dir = filepath.Join(base, src.Dir)
		}
	}
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for semcomply.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	dir := l.workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
