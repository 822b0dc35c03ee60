package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckfit/pkg/errors"
	"github.com/matzehuels/deckfit/pkg/pipeline"
)

// scriptCommand creates the script command that emits the standalone fit
// script for a skin and card count.
func (c *CLI) scriptCommand() *cobra.Command {
	var (
		skinName string
		cards    int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Emit the standalone fitting script for a skin",
		Long: `Emit the standalone JavaScript that fits a slide in the browser.

The script waits for the document and its fonts (or a timeout), then shrinks
the main title and card titles and scales the content to the viewport. The
main-title font range depends on the card count, so pass the deck's count
with --cards.`,
		Example: `  deckfit script --skin slate --cards 4 > fit.js`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScript(cmd.Context(), skinName, cards, output)
		},
	}

	cmd.Flags().StringVarP(&skinName, "skin", "s", "", "skin name (default: paper)")
	c.registerSkinCompletion(cmd)
	cmd.Flags().IntVarP(&cards, "cards", "n", 1, "number of cards on the slide")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")

	return cmd
}

func (c *CLI) runScript(ctx context.Context, skinName string, cards int, output string) error {
	if cards < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--cards must be >= 0, got %d", cards)
	}
	skins, err := c.skins()
	if err != nil {
		return err
	}
	sk, err := skins.Get(skinName)
	if err != nil {
		return err
	}
	data := pipeline.Script(sk, pipeline.Layout(sk, cards))
	if err := writeOutput(output, data); err != nil {
		return err
	}
	if output != "-" {
		printSuccess("Wrote %s script for %d cards", sk.Name, cards)
		printFile(output)
	}
	return nil
}
