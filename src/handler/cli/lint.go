package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"xcdistill/src/controller"
)

func (h *Handler) lintCmd() *cobra.Command {
	var (
		inputFile string
		attempt   int
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Scan a unified diff for unsafe concurrency idioms",
		Long: "Reads a unified diff from stdin or a file and flags unsafe concurrency\n" +
			"constructs on added lines. Exits non-zero when the diff violates policy;\n" +
			"the report is printed either way.",
		RunE: func(cmd *cobra.Command, args []string) error {
			diff, err := readInput(inputFile,
				"pipe a diff: git diff main...HEAD | xcdistill lint")
			if err != nil {
				return err
			}

			ctrl := controller.NewLintController(h.cfg)
			rendered, policyErr, err := ctrl.Scan(diff, controller.RenderOptions{
				JSON:    jsonOut,
				Attempt: attempt,
			})
			if err != nil {
				return err
			}

			fmt.Println(rendered)
			if policyErr != nil {
				return policyErr
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input-file", "i", "", "Read the diff from a file instead of stdin")
	cmd.Flags().IntVar(&attempt, "attempt", 0, "Remediation attempt number (circuit breaker at 3)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON format")

	return cmd
}
