package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	compressionDomain "kleinimg/internal/domain/compression"

	"github.com/spf13/cobra"
)

func newCompressCmd() *cobra.Command {
	compressCmd := &cobra.Command{
		Use:   "compress [files...]",
		Short: "Compresses images and writes them to the output directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			purpose, _ := cmd.Flags().GetString("purpose")
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")
			publish, _ := cmd.Flags().GetBool("publish")

			outDir, err := filepath.Abs(out)
			if err != nil {
				return fmt.Errorf("failed to resolve output directory: %w", err)
			}

			a, err := bootstrap(publish)
			if err != nil {
				return err
			}
			defer a.Close()

			resp := a.container.GetCompressionService().CompressImages(cmd.Context(), compressionDomain.CompressionRequest{
				Files: args,
				Options: compressionDomain.Options{
					Purpose:        purpose,
					Format:         format,
					AutoDownload:   true,
					DownloadFolder: outDir,
					Publish:        publish,
				},
			})
			if !resp.Success {
				return fmt.Errorf("compression failed: %s", resp.Error)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tOUTPUT\tPROFILE\tSIZE\tSAVED\tQUALITY\tATTEMPTS")
			failed := 0
			for _, f := range resp.Files {
				if f.Status != compressionDomain.StatusCompleted {
					failed++
					fmt.Fprintf(w, "%s\terror: %s\t\t\t\t\t\n", f.OriginalFilename, f.Error)
					continue
				}
				output := f.SavedPath
				if f.StorageURL != "" {
					output = f.StorageURL
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d -> %d\t%d%%\t%.2f\t%d\n",
					f.OriginalFilename, output, f.Profile, f.OriginalSize, f.CompressedSize,
					f.CompressionRatio, f.Quality, f.Attempts)
			}
			w.Flush()

			fmt.Fprintf(cmd.OutOrStdout(), "%d file(s), %d -> %d bytes (%d%% saved)\n",
				resp.TotalFiles, resp.TotalOriginalSize, resp.TotalCompressedSize, resp.OverallCompressionRatio)

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(resp.Files))
			}
			if resp.Error != "" {
				return fmt.Errorf("%s", resp.Error)
			}
			return nil
		},
	}

	compressCmd.Flags().String("purpose", "", "Image purpose: product, banner, category, general or quick (default from preferences)")
	compressCmd.Flags().String("format", "", "Output format: jpeg or webp (default from preferences)")
	compressCmd.Flags().StringP("out", "o", ".", "Directory compressed images are written to")
	compressCmd.Flags().Bool("publish", false, "Also publish compressed images to object storage")

	return compressCmd
}
