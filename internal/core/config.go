package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config contains all of the configuration options available to the server
// components.
type Config struct {
	// Hostname or IP address on which the servers will listen for connections.
	Hostname string `mapstructure:"hostname"`
	// Display name included in discovery offers.
	ServerName string `mapstructure:"server_name"`
	// Maximum number of concurrent sessions the server will allow.
	MaxConnections int `mapstructure:"max_connections"`

	Logging struct {
		// Full path to file to which logs will be written. Blank will write to stdout.
		LogFilePath string `mapstructure:"log_file_path"`
		// Minimum level of a log required to be written. Options: debug, info, warn, error
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"logging"`

	GameServer struct {
		// Port on which the game server will accept TCP connections.
		Port int `mapstructure:"port"`
	} `mapstructure:"game_server"`

	Discovery struct {
		// Well-known UDP port to which offers are broadcast.
		Port int `mapstructure:"port"`
		// Seconds between consecutive offer broadcasts.
		IntervalSeconds int `mapstructure:"interval_seconds"`
	} `mapstructure:"discovery"`

	Database struct {
		// Path to the sqlite file in which finished games are recorded.
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	Debugging struct {
		// Enable database-level query logging.
		DatabaseLoggingEnabled bool `mapstructure:"database_logging_enabled"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "PITBOSS"

// LoadConfig initializes Viper with the contents of the config file under
// configPath, with every key overridable through PITBOSS_-prefixed
// environment variables.
func LoadConfig(configPath string) *Config {
	viper.AddConfigPath(configPath)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix(envVarPrefix)
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("error reading config file: %v", err)
		os.Exit(1)
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, discovery.port can be set using: PITBOSS_DISCOVERY_PORT
	for _, k := range viper.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := viper.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			fmt.Printf("error binding %s to %s", k, envVarPrefix+"_"+envVar)
			os.Exit(1)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		fmt.Printf("error unmarshaling config object: %v", err)
		os.Exit(1)
	}
	return config
}

func setDefaults() {
	viper.SetDefault("server_name", "Cool Server Name")
	viper.SetDefault("max_connections", 100)
	viper.SetDefault("logging.log_level", "info")
	viper.SetDefault("game_server.port", 8080)
	viper.SetDefault("discovery.port", 13122)
	viper.SetDefault("discovery.interval_seconds", 1)
	viper.SetDefault("database.path", "games.db")
}

// GameAddress returns the TCP address on which the game server listens.
func (c *Config) GameAddress() string {
	return fmt.Sprintf("%s:%v", c.Hostname, c.GameServer.Port)
}

// BroadcastInterval returns the delay between consecutive discovery offers.
func (c *Config) BroadcastInterval() time.Duration {
	return time.Duration(c.Discovery.IntervalSeconds) * time.Second
}
