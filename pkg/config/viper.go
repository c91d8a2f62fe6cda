// Package config is responsible for initializing the application's
// configuration. It uses the Viper library to read settings from a config
// file and environment variables, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/airborne-data/logofetch/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. Designed to be called once at startup.
func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")                // Current working directory
	viper.AddConfigPath("/etc/logofetch/")  // System-wide configuration
	viper.AddConfigPath("$HOME/.logofetch") // User-specific configuration

	// Defaults mirror the constants the tool shipped with; every one of them
	// can be overridden by file or environment.
	viper.SetDefault("harvest.wiki_base_url", "https://en.wikipedia.org/wiki/List_of_airline_codes_")
	viper.SetDefault("harvest.user_agent", "Mozilla/5.0 (compatible; logofetch/0.3; +https://github.com/airborne-data/logofetch)")
	viper.SetDefault("harvest.csv_path", "airline_codes_all.csv")
	viper.SetDefault("harvest.output_dir", "airline_bitmaps")
	viper.SetDefault("harvest.logo_extension", "png")
	viper.SetDefault("download.concurrency", 12)
	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("metrics.addr", "")
	viper.SetDefault("logging.development", false)

	viper.SetEnvPrefix("LOGOFETCH") // e.g. LOGOFETCH_DOWNLOAD_CONCURRENCY=8
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.L.Debug("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
