package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/clauseguard/clauseguard/pkg/observability"
)

var (
	config     *EngineConfig
	configOnce sync.Once
	configErr  error
	configMu   sync.RWMutex
)

// Load loads the configuration from the specified YAML file once and caches
// it globally.
func Load(configPath string) (*EngineConfig, error) {
	configOnce.Do(func() {
		cfg, err := Parse(configPath)
		if err != nil {
			configErr = err
			return
		}
		configMu.Lock()
		config = cfg
		configMu.Unlock()
	})
	if configErr != nil {
		return nil, configErr
	}
	configMu.RLock()
	defer configMu.RUnlock()
	return config, nil
}

// Parse parses the YAML config file without touching the global cache.
func Parse(configPath string) (*EngineConfig, error) {
	// Resolve symlinks to handle Kubernetes ConfigMap mounts
	resolved, _ := filepath.EvalSymlinks(configPath)
	if resolved == "" {
		resolved = configPath
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &EngineConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	// Validation after parsing. A bad bundle is fatal at load time, before
	// any clause is classified.
	if err := validateConfigStructure(cfg); err != nil {
		return nil, err
	}

	observability.Infof("Config loaded: templates=%d, placeholder_patterns=%d, exception_tokens=%d",
		len(cfg.Templates), len(cfg.PlaceholderPatterns), len(cfg.ExceptionTokens))
	return cfg, nil
}

// Replace replaces the globally cached config. It is safe for concurrent
// readers; in-flight classifications keep the bundle they started with.
func Replace(newCfg *EngineConfig) {
	configMu.Lock()
	config = newCfg
	configErr = nil
	configMu.Unlock()
	observability.Infof("Config replaced: templates=%d", len(newCfg.Templates))
}

// Get returns the current configuration.
func Get() *EngineConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}
