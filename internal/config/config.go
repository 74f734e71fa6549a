package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GlobalFlags carries the persistent CLI flags before resolution.
type GlobalFlags struct {
	ConfigPath  string
	Network     string
	Timeout     string
	Retries     int
	EnableTools string
	WalletPath  string
	NoCache     bool
	Debug       bool
}

// Settings is the fully resolved runtime configuration.
type Settings struct {
	Network          Network
	Endpoints        Endpoints
	Timeout          time.Duration
	Retries          int
	EnableTools      []string
	WalletPath       string
	CacheEnabled     bool
	CachePath        string
	CacheLockPath    string
	CacheTTL         time.Duration
	BroadcastTimeout time.Duration
	PollInterval     time.Duration
	Debug            bool
}

type fileConfig struct {
	Network string `yaml:"network"`
	Timeout string `yaml:"timeout"`
	Retries *int   `yaml:"retries"`
	Debug   *bool  `yaml:"debug"`
	Wallet  struct {
		Path string `yaml:"path"`
	} `yaml:"wallet"`
	Cache struct {
		Enabled  *bool  `yaml:"enabled"`
		TTL      string `yaml:"ttl"`
		Path     string `yaml:"path"`
		LockPath string `yaml:"lock_path"`
	} `yaml:"cache"`
	Broadcast struct {
		Timeout      string `yaml:"timeout"`
		PollInterval string `yaml:"poll_interval"`
	} `yaml:"broadcast"`
}

func Load(flags GlobalFlags) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}
	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}
	applyEnv(&settings)
	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}

	settings.Endpoints = settings.Network.Endpoints()
	if settings.Timeout <= 0 {
		settings.Timeout = 10 * time.Second
	}
	if settings.Retries < 0 {
		settings.Retries = 0
	}
	if settings.CacheTTL <= 0 {
		settings.CacheTTL = 10 * time.Minute
	}
	if settings.BroadcastTimeout <= 0 {
		settings.BroadcastTimeout = 2 * time.Minute
	}
	if settings.PollInterval <= 0 {
		settings.PollInterval = 2 * time.Second
	}
	return settings, nil
}

func defaultSettings() (Settings, error) {
	cachePath, lockPath, err := defaultCachePaths()
	if err != nil {
		return Settings{}, err
	}
	walletPath, err := defaultWalletPath()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Network:          NetworkMainnet,
		Timeout:          10 * time.Second,
		Retries:          2,
		WalletPath:       walletPath,
		CacheEnabled:     true,
		CachePath:        cachePath,
		CacheLockPath:    lockPath,
		CacheTTL:         10 * time.Minute,
		BroadcastTimeout: 2 * time.Minute,
		PollInterval:     2 * time.Second,
	}, nil
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "injagent", "config.yaml"), nil
}

func defaultCachePaths() (string, string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "injagent")
	return filepath.Join(dir, "snapshots.db"), filepath.Join(dir, "snapshots.lock"), nil
}

func defaultWalletPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "injagent", "wallet.json"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.Network != "" {
		network, err := ParseNetwork(cfg.Network)
		if err != nil {
			return fmt.Errorf("config network: %w", err)
		}
		settings.Network = network
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		settings.Timeout = d
	}
	if cfg.Retries != nil {
		settings.Retries = *cfg.Retries
	}
	if cfg.Debug != nil {
		settings.Debug = *cfg.Debug
	}
	if cfg.Wallet.Path != "" {
		settings.WalletPath = cfg.Wallet.Path
	}
	if cfg.Cache.Enabled != nil {
		settings.CacheEnabled = *cfg.Cache.Enabled
	}
	if cfg.Cache.TTL != "" {
		d, err := time.ParseDuration(cfg.Cache.TTL)
		if err != nil {
			return fmt.Errorf("config cache.ttl: %w", err)
		}
		settings.CacheTTL = d
	}
	if cfg.Cache.Path != "" {
		settings.CachePath = cfg.Cache.Path
	}
	if cfg.Cache.LockPath != "" {
		settings.CacheLockPath = cfg.Cache.LockPath
	}
	if cfg.Broadcast.Timeout != "" {
		d, err := time.ParseDuration(cfg.Broadcast.Timeout)
		if err != nil {
			return fmt.Errorf("config broadcast.timeout: %w", err)
		}
		settings.BroadcastTimeout = d
	}
	if cfg.Broadcast.PollInterval != "" {
		d, err := time.ParseDuration(cfg.Broadcast.PollInterval)
		if err != nil {
			return fmt.Errorf("config broadcast.poll_interval: %w", err)
		}
		settings.PollInterval = d
	}
	return nil
}

func applyEnv(settings *Settings) {
	if v := os.Getenv("INJAGENT_NETWORK"); v != "" {
		if network, err := ParseNetwork(v); err == nil {
			settings.Network = network
		}
	}
	if v := os.Getenv("INJAGENT_WALLET_PATH"); v != "" {
		settings.WalletPath = v
	}
	if v := os.Getenv("INJAGENT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			settings.Timeout = d
		}
	}
	if v := os.Getenv("INJAGENT_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.Retries = n
		}
	}
	if v := os.Getenv("INJAGENT_DEBUG"); v != "" {
		settings.Debug = v == "1" || strings.EqualFold(v, "true")
	}
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if flags.Network != "" {
		network, err := ParseNetwork(flags.Network)
		if err != nil {
			return err
		}
		settings.Network = network
	}
	if flags.Timeout != "" {
		d, err := time.ParseDuration(flags.Timeout)
		if err != nil {
			return fmt.Errorf("--timeout: %w", err)
		}
		settings.Timeout = d
	}
	if flags.Retries >= 0 {
		settings.Retries = flags.Retries
	}
	if flags.WalletPath != "" {
		settings.WalletPath = flags.WalletPath
	}
	if flags.EnableTools != "" {
		for _, tool := range strings.Split(flags.EnableTools, ",") {
			tool = strings.TrimSpace(tool)
			if tool != "" {
				settings.EnableTools = append(settings.EnableTools, tool)
			}
		}
	}
	if flags.NoCache {
		settings.CacheEnabled = false
	}
	if flags.Debug {
		settings.Debug = true
	}
	return nil
}
