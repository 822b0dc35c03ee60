package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckfit/pkg/errors"
	"github.com/matzehuels/deckfit/pkg/pipeline"
)

// layoutCommand creates the layout command for inspecting grid descriptors.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		skinName string
		asJSON   bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "layout <cards>",
		Short: "Show the grid and title range for a card count",
		Long: `Show the layout descriptor picked for a number of cards: bucket, columns,
rows, gaps, paddings, font tiers and the main-title font range.

Any count is accepted; counts below one use the single-card rule and large
counts use the open-ended rule.`,
		Example: `  deckfit layout 5
  deckfit layout 4 --skin slate --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "card count must be an integer, got %q", args[0])
			}
			return c.runLayout(cmd.Context(), n, skinName, asJSON, noCache)
		},
	}

	cmd.Flags().StringVarP(&skinName, "skin", "s", "", "skin name (default: paper)")
	c.registerSkinCompletion(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the descriptor as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout computes and prints the layout stage result.
func (c *CLI) runLayout(ctx context.Context, n int, skinName string, asJSON, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	sk, err := runner.Skins.Get(skinName)
	if err != nil {
		return err
	}
	lr, cached := runner.LayoutWithCacheInfo(ctx, sk, n)

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Skin string `json:"skin"`
			pipeline.LayoutResult
			CardWidthCSS string `json:"card_width_css"`
		}{sk.Name, lr, lr.Descriptor.CardWidthCSS()})
	}

	d := lr.Descriptor
	printSuccess("Layout for %s", StyleNumber.Render(fmt.Sprintf("%d cards", d.CardCount)))
	printKeyValue("skin", sk.Name)
	printKeyValue("bucket", string(d.Bucket))
	printKeyValue("grid", fmt.Sprintf("%d × %d (%s)", d.Columns, d.Rows, d.CardWidthClass))
	printKeyValue("card width", d.CardWidthCSS())
	printKeyValue("gaps", fmt.Sprintf("container %gpx, wrapper %gpx", d.ContainerGap, d.WrapperGap))
	printKeyValue("padding", fmt.Sprintf("wrapper %gpx, card %gpx", d.WrapperPaddingX, d.CardPadding))
	printKeyValue("icon", fmt.Sprintf("%gpx", d.IconSize))
	printKeyValue("fonts", fmt.Sprintf("title %s, desc %s", d.TitleSize, d.DescSize))
	printKeyValue("main title", fmt.Sprintf("%gpx → %gpx", lr.Title.InitialFontSize, lr.Title.MinFontSize))
	printStats(nil, cached)
	return nil
}
