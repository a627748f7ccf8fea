package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/doc-scanner/internal/imaging"
	"github.com/ironsheep/doc-scanner/internal/scanner"
)

// detectOutput is the JSON document printed by the detect command.
type detectOutput struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Valid  bool   `json:"valid"`

	*scanner.Detection
}

func newDetectCommand(a *app) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "detect <input>",
		Short: "Print the document corners found in a photograph",
		Long: `Locate the document in a photograph and print the result as JSON: the four
corners in image pixels (top-left, top-right, bottom-left, bottom-right), the
border lines, every detected segment, and how many image borders had to be
substituted for missing edges.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := imaging.Open(args[0])
			if err != nil {
				return err
			}
			sc, err := a.newScanner()
			if err != nil {
				return err
			}
			det, err := sc.Detect(img)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			b := img.Bounds()
			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(detectOutput{
				Path:      args[0],
				Width:     b.Dx(),
				Height:    b.Dy(),
				Valid:     det.Corners.Valid(),
				Detection: det,
			})
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print JSON on a single line")
	return cmd
}
