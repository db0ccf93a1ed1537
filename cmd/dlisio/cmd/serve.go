package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jokva/dlisio/pkg/api"
	"github.com/jokva/dlisio/pkg/config"
	"github.com/jokva/dlisio/pkg/dlis"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve FILE",
	Short: "Serve read-only HTTP inspection of a file",
	Long: `Open the file and start an HTTP server exposing its storage label,
record index and parsed object sets, plus Prometheus metrics on /metrics.

Examples:
  dlisio serve well.dlis
  dlisio serve well.dlis --port 9200 --bind 0.0.0.0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" && config.ConfigExists(config.GetDefaultConfigPath()) {
			configPath = config.GetDefaultConfigPath()
		}
		if configPath != "" {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}

		log, err := logger(cmd)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer log.Sync()

		s, err := dlis.Open(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		server := api.ServerConfig{Bind: cfg.Bind, Port: cfg.Port}
		return api.StartServer(s, args[0], server, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind")
	serveCmd.Flags().String("config", "", "Configuration file path")
}
