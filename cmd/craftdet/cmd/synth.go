package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/craftdet/internal/heatmap"
	"github.com/MeKo-Tech/craftdet/internal/utils"
)

// annotationFile is the on-disk schema for character-level annotations.
// A quad with an empty or whitespace char marks a word gap.
type annotationFile struct {
	ImageWidth  int            `json:"image_width"`
	ImageHeight int            `json:"image_height"`
	Lines       [][]quadRecord `json:"lines"`
}

type quadRecord struct {
	Points [4][2]float64 `json:"points"`
	Char   string        `json:"char"`
}

// synthCmd represents the synth command.
var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize training target maps from character annotations",
	Long: `Read one or more character-level annotation files and write the
corresponding training target maps as PNG images: text scores in the
red channel, link scores in green.

Annotation files are JSON documents:
  {
    "image_width": 640,
    "image_height": 480,
    "lines": [[{"points": [[x,y],[x,y],[x,y],[x,y]], "char": "a"}, ...]]
  }

Image dimensions must be even; target maps are half resolution.

Examples:
  craftdet synth annotation.json
  craftdet synth a.json b.json --output-dir targets/
  craftdet synth annotation.json --kernel-size 512 --distance-ratio 1.5`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no annotation files provided")
		}

		cfg := GetConfig()

		kernelSize := cfg.Synthesis.KernelSize
		if cmd.Flags().Changed("kernel-size") {
			kernelSize, _ = cmd.Flags().GetInt("kernel-size")
		}
		distanceRatio := cfg.Synthesis.DistanceRatio
		if cmd.Flags().Changed("distance-ratio") {
			distanceRatio, _ = cmd.Flags().GetFloat64("distance-ratio")
		}
		if kernelSize <= 0 {
			return fmt.Errorf("invalid kernel-size: %d (must be positive)", kernelSize)
		}
		if distanceRatio <= 0 {
			return fmt.Errorf("invalid distance-ratio: %f (must be positive)", distanceRatio)
		}

		outputDir, _ := cmd.Flags().GetString("output-dir")
		if outputDir != "" {
			if err := os.MkdirAll(outputDir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		kernel := heatmap.NewGaussianKernel(kernelSize, distanceRatio)

		annotations := make([]heatmap.Annotation, 0, len(args))
		for _, path := range args {
			a, err := loadAnnotation(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			annotations = append(annotations, a)
		}

		pairs, errs := heatmap.SynthesizeBatch(kernel, annotations, cfg.Workers)
		for i, path := range args {
			if errs[i] != nil {
				return fmt.Errorf("%s: %w", path, errs[i])
			}
			outPath := targetPath(path, outputDir)
			if err := utils.SavePNG(outPath, heatmap.RenderRGB(pairs[i])); err != nil {
				return fmt.Errorf("%s: failed to save target map: %w", path, err)
			}
			slog.Info("synthesized target map", "annotation", path, "output", outPath,
				"width", pairs[i].Width, "height", pairs[i].Height)
		}
		return nil
	},
}

func loadAnnotation(path string) (heatmap.Annotation, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided annotation path
	if err != nil {
		return heatmap.Annotation{}, err
	}

	var file annotationFile
	if err := json.Unmarshal(data, &file); err != nil {
		return heatmap.Annotation{}, fmt.Errorf("invalid annotation JSON: %w", err)
	}
	if file.ImageWidth <= 0 || file.ImageHeight <= 0 {
		return heatmap.Annotation{}, errors.New("annotation must set positive image dimensions")
	}

	lines := make([]heatmap.Line, 0, len(file.Lines))
	for _, recs := range file.Lines {
		line := make(heatmap.Line, 0, len(recs))
		for _, rec := range recs {
			if strings.TrimSpace(rec.Char) == "" {
				line = append(line, heatmap.SpaceQuad())
				continue
			}
			line = append(line, heatmap.NewCharacterQuad([8]float64{
				rec.Points[0][0], rec.Points[0][1],
				rec.Points[1][0], rec.Points[1][1],
				rec.Points[2][0], rec.Points[2][1],
				rec.Points[3][0], rec.Points[3][1],
			}, []rune(rec.Char)[0]))
		}
		lines = append(lines, line)
	}

	return heatmap.Annotation{
		ImageHeight: file.ImageHeight,
		ImageWidth:  file.ImageWidth,
		Lines:       lines,
	}, nil
}

func targetPath(annotationPath, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(annotationPath), filepath.Ext(annotationPath))
	name := base + "_target.png"
	if outputDir == "" {
		return filepath.Join(filepath.Dir(annotationPath), name)
	}
	return filepath.Join(outputDir, name)
}

func init() {
	rootCmd.AddCommand(synthCmd)
	synthCmd.Flags().Int("kernel-size", heatmap.DefaultSynthesisKernelSize, "gaussian kernel side length")
	synthCmd.Flags().Float64("distance-ratio", heatmap.DefaultSynthesisRatio, "gaussian falloff ratio")
	synthCmd.Flags().String("output-dir", "", "directory for target map PNGs (default: next to annotations)")
}
