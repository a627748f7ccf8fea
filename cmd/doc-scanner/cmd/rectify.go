package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/doc-scanner/internal/scanner"
)

func newRectifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rectify <input> [output]",
		Short: "Straighten the document in one photograph",
		Long: `Detect the document in a photograph, correct its perspective and save the
page. Without an output path the page is written next to the input, named
with the configured suffix.

Examples:
  doc-scanner rectify receipt.jpg
  doc-scanner rectify receipt.jpg receipt_page.png`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			out := scanner.OutputPath(in, "", a.cfg.Output.Suffix, a.cfg.Output.Format)
			if len(args) == 2 {
				out = args[1]
			}

			sc, err := a.newScanner()
			if err != nil {
				return err
			}
			det, err := sc.ScanFile(cmd.Context(), in, out)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			if !det.Corners.Valid() {
				a.logger.Warn("page may be distorted", "input", in, "degenerate", det.Corners.Degenerate)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
