package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckfit/pkg/skin"
)

// skinsCommand lists the registered skins and their solver settings.
func (c *CLI) skinsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "skins",
		Short: "List available skins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			skins, err := c.skins()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, renderTable(skinHeaders, skinRows(skins.List()), -1))
			printNewline()
			printNextStep("Preview a skin", appName+" inspect --skin <name>")
			return nil
		},
	}
}

var skinHeaders = []string{"Skin", "Title width", "Viewport", "Floor", "Step", "Origin", "Description"}

func skinRows(skins []skin.Skin) [][]string {
	rows := make([][]string, 0, len(skins))
	for _, sk := range skins {
		cfg := sk.Config()
		name := sk.Name
		if name == skin.DefaultName {
			name += " *"
		}
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%gpx", cfg.MaxTitleWidthPx),
			fmt.Sprintf("%gpx", cfg.ViewportMaxHeightPx),
			fmt.Sprintf("%g", cfg.ViewportFloorScale),
			fmt.Sprintf("%gpx", cfg.DecrementStepPx),
			cfg.TransformOrigin,
			sk.Description,
		})
	}
	return rows
}
