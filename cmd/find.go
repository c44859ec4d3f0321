package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgocr/internal/locator"
	"imgocr/internal/logger"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "List the files extract would process, in processing order",
	Example: `  imgocr find -e .png -e .jpg
  imgocr find --dir ./scans -e .tif`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("find")

		extensions := appConfig.Extensions
		if cmd.Flags().Changed("ext") {
			extensions, _ = cmd.Flags().GetStringSlice("ext")
		}
		dir, _ := cmd.Flags().GetString("dir")

		names, err := locator.FindByExtension(dir, extensions)
		if err != nil {
			log.Error().Err(err).Str("dir", dir).Msg("Failed to list directory")
			return fmt.Errorf("failed to list directory %s: %w", dir, err)
		}

		log.Debug().Int("count", len(names)).Msg("Files found")
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().StringSliceP("ext", "e", nil, "File name suffixes to match, repeatable (default from OCR_EXTENSIONS)")
	findCmd.Flags().String("dir", ".", "Directory to scan")
}
