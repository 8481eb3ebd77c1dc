package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"xcdistill/src/controller"
	"xcdistill/src/service/toolchain"
)

func (h *Handler) tsanCmd() *cobra.Command {
	var (
		scheme     string
		rawLog     string
		workspace  string
		device     string
		target     string
		testClass  string
		testPlan   string
		sourceRoot string
		maxIssues  int
		attempt    int
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "tsan",
		Short: "Run or parse a thread-sanitizer session into a grouped report",
		Long: "Runs the scheme's tests with the thread sanitizer enabled (or parses an\n" +
			"existing log) and renders grouped, ranked issues with fix hints.\n\n" +
			"Scoping tiers:\n" +
			"  --target + --test-class   single test class (minutes)\n" +
			"  --target                  whole test target\n" +
			"  neither                   full scheme (CI only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := controller.RenderOptions{
				JSON:       jsonOut,
				Attempt:    attempt,
				MaxIssues:  maxIssues,
				SourceRoot: sourceRoot,
			}

			if workspace != "" {
				h.cfg.Toolchain.Workspace = workspace
			}
			if device != "" {
				h.cfg.Toolchain.Device = device
			}

			ctrl := controller.NewRaceController(h.cfg)

			var rendered string
			var err error
			switch {
			case rawLog != "":
				rendered, err = ctrl.DistillLog(rawLog, opts)
			case scheme != "":
				rendered, err = ctrl.Run(cmd.Context(), toolchain.SanitizerScope{
					Scheme:    scheme,
					Target:    target,
					TestClass: testClass,
					TestPlan:  testPlan,
				}, opts)
			default:
				return fmt.Errorf("tsan requires --scheme or --raw-log")
			}
			if err != nil {
				return err
			}

			fmt.Println(rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheme, "scheme", "", "Scheme to test")
	cmd.Flags().StringVar(&rawLog, "raw-log", "", "Parse an existing sanitizer log file")
	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace path (overrides config)")
	cmd.Flags().StringVar(&device, "device", "", "Simulator device name (overrides config)")
	cmd.Flags().StringVar(&target, "target", "", "Test target to scope the run")
	cmd.Flags().StringVar(&testClass, "test-class", "", "Test class to scope the run (requires --target)")
	cmd.Flags().StringVar(&testPlan, "test-plan", "", "Test plan to use")
	cmd.Flags().StringVar(&sourceRoot, "source-root", "", "Project root for relativizing paths")
	cmd.Flags().IntVar(&maxIssues, "max-issues", 0, "Max unique issues to display (default from config)")
	cmd.Flags().IntVar(&attempt, "attempt", 0, "Remediation attempt number (circuit breaker at 3)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON format")

	return cmd
}
