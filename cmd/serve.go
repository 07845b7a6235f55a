// file: cmd/serve.go
// version: 1.0.0
// guid: 8d1e4b27-5c93-4a06-b7f2-0e6a9c3d5f18

package cmd

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/cfr-navigator/internal/config"
	"github.com/jdfalk/cfr-navigator/internal/server"
	"github.com/jdfalk/cfr-navigator/internal/watcher"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Serve the search API, the progress API and the static front end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		store, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close database")
			}
		}()

		log.Info().
			Str("data", config.AppConfig.DataPath).
			Str("database", config.AppConfig.DatabasePath).
			Str("database_type", config.AppConfig.DatabaseType).
			Msg("starting CFR navigator")

		if config.AppConfig.WatchData {
			if err := cat.Watch(watcher.DefaultDebounce); err != nil {
				log.Warn().Err(err).Msg("catalog hot reload disabled")
			}
		}

		srv := server.NewServer(cat, store, server.OptionsFromConfig(config.AppConfig))
		cfg := server.ServerConfigFromConfig(config.AppConfig)

		if rt, _ := cmd.Flags().GetDuration("read-timeout"); rt > 0 {
			cfg.ReadTimeout = rt
		}
		if wt, _ := cmd.Flags().GetDuration("write-timeout"); wt > 0 {
			cfg.WriteTimeout = wt
		}
		if it, _ := cmd.Flags().GetDuration("idle-timeout"); it > 0 {
			cfg.IdleTimeout = it
		}

		return srv.Start(cfg)
	},
}

func init() {
	serveCmd.Flags().Int("port", 3000, "port to run the web server on")
	serveCmd.Flags().String("host", "localhost", "host to bind the web server to")
	serveCmd.Flags().String("static", "public", "directory holding the front end")
	serveCmd.Flags().Bool("watch", true, "reload the catalog when the data file changes")
	serveCmd.Flags().Duration("read-timeout", 15*time.Second, "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().Duration("write-timeout", 0, "write timeout, 0 keeps event streams open")
	serveCmd.Flags().Duration("idle-timeout", 60*time.Second, "idle timeout (e.g. 60s, 2m)")

	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("static_dir", serveCmd.Flags().Lookup("static"))
	viper.BindPFlag("watch_data", serveCmd.Flags().Lookup("watch"))
}
