package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/craftdet/internal/config"
	"github.com/MeKo-Tech/craftdet/internal/craftnet"
	"github.com/MeKo-Tech/craftdet/internal/detector"
	"github.com/MeKo-Tech/craftdet/internal/pipeline"
	"github.com/MeKo-Tech/craftdet/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the detection API",
	Long: `Start an HTTP server that provides REST API endpoints for text detection.

The server provides the following endpoints:
  POST /detect  - Detect text boxes in an uploaded image
  GET  /health  - Health check endpoint
  GET  /metrics - Prometheus metrics

Examples:
  craftdet serve
  craftdet serve --port 8080
  craftdet serve --host 0.0.0.0 --port 3000`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		srvCfg := cfg.Server
		if cmd.Flags().Changed("host") {
			srvCfg.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			srvCfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("max-upload-size") {
			srvCfg.MaxUploadMB, _ = cmd.Flags().GetInt("max-upload-size")
		}
		if cmd.Flags().Changed("timeout") {
			srvCfg.TimeoutSec, _ = cmd.Flags().GetInt("timeout")
		}
		if srvCfg.Port < 1 || srvCfg.Port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", srvCfg.Port)
		}

		netCfg := craftnet.Config{
			ModelPath:  cfg.Network.ModelPath,
			InputName:  cfg.Network.InputName,
			OutputName: cfg.Network.OutputName,
			NumThreads: cfg.Network.NumThreads,
			UseGPU:     cfg.Network.UseGPU,
			DeviceID:   cfg.Network.DeviceID,
		}
		if cmd.Flags().Changed("model") {
			netCfg.ModelPath, _ = cmd.Flags().GetString("model")
		}

		opts := detector.Options{
			DetectionThreshold: cfg.Extraction.DetectionThreshold,
			TextThreshold:      cfg.Extraction.TextThreshold,
			LinkThreshold:      cfg.Extraction.LinkThreshold,
			SizeThreshold:      cfg.Extraction.SizeThreshold,
		}
		if err := validateThresholds(opts); err != nil {
			return err
		}

		net, err := craftnet.NewNetwork(netCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize network: %w", err)
		}
		defer func() { _ = net.Close() }()

		p, err := pipeline.New(net, opts, cfg.Workers)
		if err != nil {
			return fmt.Errorf("failed to build pipeline: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		srv := server.New(p, config.ServerConfig{
			Host:        srvCfg.Host,
			Port:        srvCfg.Port,
			MaxUploadMB: srvCfg.MaxUploadMB,
			TimeoutSec:  srvCfg.TimeoutSec,
		})
		if err := srv.Start(ctx); err != nil {
			return err
		}
		slog.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().Int("max-upload-size", 50, "maximum upload size in MB")
	serveCmd.Flags().Int("timeout", 60, "request timeout in seconds")
	serveCmd.Flags().String("model", "", "override ONNX model path")
}
