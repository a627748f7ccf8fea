package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/doc-scanner/internal/scanner"
)

// imageExtensions are the file types picked up from directories.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

func newBatchCommand(a *app) *cobra.Command {
	var (
		outDir    string
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "batch <files|dirs...>",
		Short: "Straighten many photographs in parallel",
		Long: `Rectify every given image, and every image inside the given directories,
using a pool of workers. Pages are written to --out-dir (default: next to each
input) with the configured suffix. Failures are reported per file; the command
fails if any file failed.

Examples:
  doc-scanner batch *.jpg
  doc-scanner batch scans/ --recursive --out-dir pages --workers 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := collectImages(args, recursive)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no images found")
			}
			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			jobs := make([]scanner.FileJob, len(inputs))
			for i, in := range inputs {
				jobs[i] = scanner.FileJob{
					Input:  in,
					Output: scanner.OutputPath(in, outDir, a.cfg.Output.Suffix, a.cfg.Output.Format),
				}
			}

			sc, err := a.newScanner()
			if err != nil {
				return err
			}
			results, err := sc.RectifyFiles(cmd.Context(), jobs, scanner.BatchConfig{
				Workers: a.cfg.Workers,
				OnProgress: func(done, total int) {
					a.logger.Debug("batch progress", "done", done, "total", total)
				},
			})

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					_, _ = fmt.Fprintf(out, "FAIL %s: %v\n", r.Input, r.Err)
					continue
				}
				_, _ = fmt.Fprintf(out, "ok   %s -> %s\n", r.Input, r.Output)
			}
			_, _ = fmt.Fprintf(out, "rectified %d of %d files\n", len(results)-failed, len(results))

			if err != nil {
				return fmt.Errorf("%d of %d files failed: %w", failed, len(results), err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory for rectified pages (default: next to each input)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().IntP("workers", "w", 0, "number of parallel workers (default: number of CPUs)")
	a.bind(cmd.Flags().Lookup, map[string]string{"workers": "workers"})
	return cmd
}

// collectImages expands directories into the image files they contain.
// Files named explicitly are kept whatever their extension.
func collectImages(args []string, recursive bool) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && !recursive {
					return filepath.SkipDir
				}
				return nil
			}
			if slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(path))) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
	}
	return files, nil
}
