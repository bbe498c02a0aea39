package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/craftdet/internal/craftnet"
	"github.com/MeKo-Tech/craftdet/internal/detector"
	"github.com/MeKo-Tech/craftdet/internal/pipeline"
	"github.com/MeKo-Tech/craftdet/internal/utils"
)

// detectCmd represents the detect command.
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect text boxes in images",
	Long: `Run text detection on one or more image files and print the detected
boxes as JSON. Box corners are in image pixel coordinates, ordered
clockwise starting from the top-left corner.

Supported formats: JPEG, PNG, BMP

Examples:
  craftdet detect photo.jpg
  craftdet detect scan.png --output boxes.json
  craftdet detect *.jpg --overlay-dir overlays/`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()

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
		if cmd.Flags().Changed("use-gpu") {
			netCfg.UseGPU, _ = cmd.Flags().GetBool("use-gpu")
		}
		if cmd.Flags().Changed("num-threads") {
			netCfg.NumThreads, _ = cmd.Flags().GetInt("num-threads")
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

		outputFile, _ := cmd.Flags().GetString("output")
		overlayDir, _ := cmd.Flags().GetString("overlay-dir")

		net, err := craftnet.NewNetwork(netCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize network: %w", err)
		}
		defer func() { _ = net.Close() }()

		p, err := pipeline.New(net, opts, cfg.Workers)
		if err != nil {
			return fmt.Errorf("failed to build pipeline: %w", err)
		}

		for _, path := range args {
			if !utils.IsSupportedImage(path) {
				slog.Warn("skipping unsupported file", "path", path)
				continue
			}
			if err := detectOne(p, path, outputFile, overlayDir); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	},
}

func detectOne(p *pipeline.Pipeline, path, outputFile, overlayDir string) error {
	img, err := utils.LoadImage(path)
	if err != nil {
		return err
	}

	result, err := p.DetectImage(img)
	if err != nil {
		return err
	}

	data, err := detector.BoxesToJSON(result.Boxes, result.Width, result.Height)
	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0o600); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Println(string(data))
	}

	if overlayDir != "" {
		if err := os.MkdirAll(overlayDir, 0o750); err != nil {
			return fmt.Errorf("failed to create overlay directory: %w", err)
		}
		overlay := detector.Visualize(img, result.Boxes, detector.VisualizeOptions{})
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		overlayPath := filepath.Join(overlayDir, base+"_overlay.png")
		if err := utils.SavePNG(overlayPath, overlay); err != nil {
			return fmt.Errorf("failed to save overlay: %w", err)
		}
		slog.Info("saved overlay", "path", overlayPath)
	}
	return nil
}

func validateThresholds(opts detector.Options) error {
	for _, t := range []struct {
		name  string
		value float32
	}{
		{"detection-threshold", opts.DetectionThreshold},
		{"text-threshold", opts.TextThreshold},
		{"link-threshold", opts.LinkThreshold},
	} {
		if t.value < 0 || t.value > 1 {
			return fmt.Errorf("invalid %s: %.2f (must be between 0.0 and 1.0)", t.name, t.value)
		}
	}
	if opts.SizeThreshold < 0 {
		return fmt.Errorf("invalid size-threshold: %d (must be non-negative)", opts.SizeThreshold)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().String("model", "", "override ONNX model path")
	detectCmd.Flags().Bool("use-gpu", false, "enable CUDA execution provider")
	detectCmd.Flags().Int("num-threads", 0, "intra-op thread count (0 = runtime default)")
	detectCmd.Flags().StringP("output", "o", "", "write detection JSON to file instead of stdout")
	detectCmd.Flags().String("overlay-dir", "", "directory to write overlay images with boxes drawn")
}
