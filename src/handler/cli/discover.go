package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"xcdistill/src/controller"
)

func (h *Handler) discoverCmd() *cobra.Command {
	var (
		container string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List the schemes and targets of a workspace or project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := controller.NewDiscoverController(h.cfg)
			rendered, err := ctrl.Discover(cmd.Context(), container, jsonOut)
			if err != nil {
				return err
			}

			fmt.Println(rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&container, "container", "", "Workspace or project path (auto-detected when empty)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON format")

	return cmd
}
