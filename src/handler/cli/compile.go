package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"xcdistill/src/controller"
)

func (h *Handler) compileCmd() *cobra.Command {
	var (
		inputFile  string
		scheme     string
		sourceRoot string
		maxIssues  int
		attempt    int
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Distill compiler errors and warnings from piped build output",
		Long:  "Reads raw build output from stdin or a file and renders a deduplicated,\ncapped diagnostic report",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(inputFile,
				"pipe build output: xcodebuild build ... 2>&1 | xcdistill compile")
			if err != nil {
				return err
			}

			ctrl := controller.NewCompileController(h.cfg)
			rendered, err := ctrl.Distill(raw, controller.RenderOptions{
				JSON:       jsonOut,
				Attempt:    attempt,
				MaxIssues:  maxIssues,
				SourceRoot: sourceRoot,
				Scheme:     scheme,
			})
			if err != nil {
				return err
			}

			fmt.Println(rendered)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input-file", "i", "", "Read from file instead of stdin")
	cmd.Flags().StringVar(&scheme, "scheme", "", "Scheme name (report header only)")
	cmd.Flags().StringVar(&sourceRoot, "source-root", "", "Project root for relativizing paths")
	cmd.Flags().IntVar(&maxIssues, "max-issues", 0, "Max issues to display (default from config)")
	cmd.Flags().IntVar(&attempt, "attempt", 0, "Remediation attempt number (circuit breaker at 3)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON format")

	return cmd
}
