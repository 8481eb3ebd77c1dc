package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"xcdistill/src/service/lint"
)

func (h *Handler) rulesCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the lint rule tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut {
				payload := map[string][]lint.Rule{
					"forbidden":   lint.ForbiddenRules(),
					"conditional": lint.ConditionalRules(),
					"warning":     lint.WarningRules(),
				}
				data, err := json.MarshalIndent(payload, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			var b strings.Builder
			writeRuleTable(&b, "Forbidden (always an error)", lint.ForbiddenRules())
			writeRuleTable(&b, "Conditional (error without a justification comment)", lint.ConditionalRules())
			writeRuleTable(&b, "Warning (advisory)", lint.WarningRules())
			fmt.Print(b.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON format")

	return cmd
}

func writeRuleTable(b *strings.Builder, title string, rules []lint.Rule) {
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, r := range rules {
		fmt.Fprintf(b, "- `%s` (%s): %s\n", r.Pattern, r.Name, r.Message)
	}
	b.WriteString("\n")
}
