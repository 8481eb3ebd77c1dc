package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"xcdistill/src/controller"
)

func (h *Handler) testCmd() *cobra.Command {
	var (
		bundlePath string
		inputFile  string
		sourceRoot string
		maxIssues  int
		attempt    int
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Extract test failures from a result bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := controller.RenderOptions{
				JSON:       jsonOut,
				Attempt:    attempt,
				MaxIssues:  maxIssues,
				SourceRoot: sourceRoot,
			}

			ctrl := controller.NewTestController(h.cfg)

			var rendered string
			var err error
			if inputFile != "" {
				// Pre-exported JSON skips the toolchain entirely
				raw, readErr := readInput(inputFile, "")
				if readErr != nil {
					return readErr
				}
				rendered, err = ctrl.DistillExported(raw, opts)
			} else {
				if bundlePath == "" {
					return fmt.Errorf("--path or --input-file is required")
				}
				rendered, err = ctrl.Distill(cmd.Context(), bundlePath, opts)
			}
			if err != nil {
				return err
			}

			fmt.Println(rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&bundlePath, "path", "", "Path to the result bundle")
	cmd.Flags().StringVarP(&inputFile, "input-file", "i", "", "Pre-exported result JSON file")
	cmd.Flags().StringVar(&sourceRoot, "source-root", "", "Project root for relativizing paths")
	cmd.Flags().IntVar(&maxIssues, "max-issues", 0, "Max failures to display (default from config)")
	cmd.Flags().IntVar(&attempt, "attempt", 0, "Remediation attempt number (circuit breaker at 3)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON format")

	return cmd
}
