package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/craftdet/internal/heatmap"
	"github.com/MeKo-Tech/craftdet/internal/utils"
)

// kernelCmd represents the kernel command.
var kernelCmd = &cobra.Command{
	Use:   "kernel",
	Short: "Render the gaussian kernel template as a grayscale PNG",
	Long: `Render the isotropic gaussian intensity template used for target
synthesis, mostly useful for inspecting falloff parameters.

Examples:
  craftdet kernel --output kernel.png
  craftdet kernel --size 256 --ratio 1.5 --output kernel.png`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("size")
		ratio, _ := cmd.Flags().GetFloat64("ratio")
		output, _ := cmd.Flags().GetString("output")

		if size <= 0 {
			return fmt.Errorf("invalid size: %d (must be positive)", size)
		}
		if ratio <= 0 {
			return fmt.Errorf("invalid ratio: %f (must be positive)", ratio)
		}

		kernel := heatmap.NewGaussianKernel(size, ratio)
		if err := utils.SavePNG(output, heatmap.RenderKernel(kernel)); err != nil {
			return fmt.Errorf("failed to save kernel image: %w", err)
		}
		slog.Info("rendered kernel", "size", size, "ratio", ratio, "output", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kernelCmd)
	kernelCmd.Flags().Int("size", heatmap.DefaultKernelSize, "kernel side length")
	kernelCmd.Flags().Float64("ratio", heatmap.DefaultKernelRatio, "gaussian falloff ratio")
	kernelCmd.Flags().StringP("output", "o", "kernel.png", "output PNG path")
}
