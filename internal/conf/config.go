// config.go: settings struct for the Listr application and functions to load them.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var configFiles embed.FS

// Log rotation types for file loggers.
const (
	RotationDaily  = "daily"
	RotationWeekly = "weekly"
	RotationSize   = "size"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled  bool   // true to enable this log
	Path     string // path to log file
	Rotation string // rotation type, "daily", "weekly" or "size"
	MaxSize  int64  // max size in bytes for size rotation
}

// MainSettings contains top level application settings
type MainSettings struct {
	Name string    // name of this node, used in logs
	Log  LogConfig // main log file settings
}

// DatabaseSettings contains the SQLite database configuration.
// The database is produced by the ingest pipeline and read by the optimizer.
type DatabaseSettings struct {
	Path string // path to SQLite database file
}

// WebServerSettings contains HTTP API server settings
type WebServerSettings struct {
	Enabled bool      // true to enable the API server
	Port    string    // port to listen on
	Log     LogConfig // web server log settings
}

// OptimizerSettings contains defaults for hotspot optimization requests
type OptimizerSettings struct {
	DefaultK int // number of hotspots to select when a request does not specify one
	MaxK     int // upper bound on hotspots per request, requests above it are clamped
}

// IngestSettings contains settings for the eBird export ingest pipeline
type IngestSettings struct {
	Debug            bool // true to enable ingest debug logging
	MinYearsObserved int  // species seen at a hotspot in fewer distinct years are dropped as vagrants
	BatchSize        int  // number of sightings per insert batch
}

// Settings contains all configuration options for the Listr application
type Settings struct {
	Debug bool // true to enable debug mode

	Main      MainSettings
	Database  DatabaseSettings
	WebServer WebServerSettings
	Optimizer OptimizerSettings
	Ingest    IngestSettings
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into a Settings struct.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(getDefaultConfig()), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading embedded config file: %v", err)
	}
	return string(data)
}

// GetDefaultConfigPaths returns the paths where a config file is searched for,
// in priority order: the working directory, then the user config directory.
func GetDefaultConfigPaths() ([]string, error) {
	paths := []string{"."}

	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "listr"))
	}

	return paths, nil
}

// Setting returns the current settings instance, loading it if necessary.
func Setting() *Settings {
	settingsMutex.RLock()
	if settingsInstance != nil {
		defer settingsMutex.RUnlock()
		return settingsInstance
	}
	settingsMutex.RUnlock()

	settings, err := Load()
	if err != nil {
		log.Fatalf("Error loading settings: %v", err)
	}
	return settings
}

// GetBasePath expands a possibly relative directory to an absolute path,
// creating it if it does not exist.
func GetBasePath(path string) string {
	if path == "" {
		path = "."
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		log.Printf("Error creating directory %s: %v", absPath, err)
	}
	return absPath
}
