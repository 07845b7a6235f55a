// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/cfr-navigator/internal/catalog"
	"github.com/jdfalk/cfr-navigator/internal/config"
	"github.com/jdfalk/cfr-navigator/internal/database"
	"github.com/jdfalk/cfr-navigator/internal/logging"
)

var cfgFile string
var dataPath string
var databasePath string
var databaseType string
var enableSQLite bool
var logLevel string
var logFormat string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cfr-navigator",
	Short: "Search VA rating conditions and jump to the governing CFR text",
	Long: `CFR Navigator searches a catalog of VA disability conditions by name,
alias, diagnostic code or 38 CFR section, and serves a small web front end
with per-condition notes and evidence checklists.

Educational tool; not legal advice.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cfr-navigator.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "data/conditions.json", "conditions catalog (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "progress.pebble", "path to the progress database")
	rootCmd.PersistentFlags().StringVar(&databaseType, "db-type", "pebble", "database type: pebble (default), sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&enableSQLite, "enable-sqlite3-i-know-the-risks", false, "enable SQLite3 database (WARNING: cross-compilation issues, PebbleDB recommended)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")

	viper.BindPFlag("data_path", rootCmd.PersistentFlags().Lookup("data"))
	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("database_type", rootCmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("enable_sqlite3_i_know_the_risks", rootCmd.PersistentFlags().Lookup("enable-sqlite3-i-know-the-risks"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(jumpCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(diagnosticsCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cfr-navigator")
	}

	viper.SetEnvPrefix("CFR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configErr := viper.ReadInConfig()

	config.InitConfig()
	logging.Setup(config.AppConfig.LogLevel, config.AppConfig.LogFormat)

	if configErr == nil {
		log.Info().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}

	// Ensure database directory exists
	if config.AppConfig.DatabaseType != database.TypeMemory && config.AppConfig.DatabasePath != "" {
		dbDir := filepath.Dir(config.AppConfig.DatabasePath)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				log.Error().Err(err).Str("dir", dbDir).Msg("error creating database directory")
			}
		}
	}
}

// openCatalog loads the configured catalog file.
func openCatalog() (*catalog.Catalog, error) {
	if err := config.AppConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cat, err := catalog.Open(config.AppConfig.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// openStore opens the configured progress store.
func openStore() (database.Store, error) {
	store, err := database.OpenStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath, config.AppConfig.EnableSQLite)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}
