/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ssargent/beemap/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the beemap REST API server.

The first run bootstraps a config file with a generated API key.

Example:
  beemap serve --config ./beemap.yaml --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		var cfg *config.Config
		var err error
		if config.ConfigExists(configPath) {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
		} else {
			cfg, err = config.BootstrapConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to bootstrap config: %w", err)
			}
			log.Info("bootstrapped configuration", "path", configPath)
		}

		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		if bind, _ := cmd.Flags().GetString("bind"); bind != "" {
			cfg.Bind = bind
		}

		if level, err := log.ParseLevel(cfg.Logging.Level); err == nil {
			log.SetLevel(level)
		}

		server := container.NewServer(cfg)
		log.Info("starting beemap REST API server", "bind", cfg.Bind, "port", cfg.Port)
		log.Info("metrics endpoint", "url", fmt.Sprintf("http://%s:%d/metrics", cfg.Bind, cfg.Port))
		return server.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "", "Path to the configuration file")
	serveCmd.Flags().IntP("port", "p", 0, "Override the configured port")
	serveCmd.Flags().String("bind", "", "Override the configured bind address")
}
