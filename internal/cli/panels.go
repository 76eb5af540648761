package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cartpile/pkg/errors"
	"github.com/matzehuels/cartpile/pkg/render"
	"github.com/matzehuels/cartpile/pkg/ui"
)

// stepBack is the navigation step that returns to the previous panel.
const stepBack = "back"

// defaultPanelSteps walks the stock pause menu.
var defaultPanelSteps = []string{ui.PanelSettings, ui.PanelAudio, stepBack, ui.PanelDisplay, stepBack, stepBack}

func (c *CLI) panelsCommand() *cobra.Command {
	var format, output string
	var counts bool

	cmd := &cobra.Command{
		Use:   "panels [step...]",
		Short: "Draw a panel navigation flow",
		Long: `Draw a panel navigation flow.

Navigation starts on the pause panel. Each step opens the named panel on top
of the current one, or goes back with "back". Going back with no history
returns to the pause panel. Without steps a walk through the stock pause
menu is drawn.`,
		Example: `  cartpile panels settings audio back back -f svg -o flow.svg
  cartpile panels --counts | dot -Tpng > flow.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "dot" && format != formatSVG {
				return errors.New(errors.ErrCodeUnsupported, "invalid format %q (must be dot or svg)", format)
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = defaultPanelSteps
			}
			panels, current := walkPanels(cfg.UI.PausePanel, args)
			dot := render.FlowDOT(panels.Edges(), render.FlowOptions{
				Current:  current,
				Fallback: panels.Fallback(),
				Counts:   counts,
			})
			loggerFromContext(cmd.Context()).Debug("panel walk", "steps", len(args), "current", current,
				"history", strings.Join(panels.History(), " > "))
			return writeFlow(cmd.Context(), cmd.OutOrStdout(), dot, format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&counts, "counts", false, "label edges with how often they were taken")

	return cmd
}

// walkPanels replays steps starting from the start panel and returns the
// panels and the panel shown at the end.
func walkPanels(start string, steps []string) (*ui.Panels, string) {
	p := ui.NewPanels(start)
	p.Open(start, "")
	current := start
	for _, step := range steps {
		if step == stepBack {
			current = p.Back(current)
			continue
		}
		p.Open(step, current)
		current = step
	}
	return p, current
}

func writeFlow(ctx context.Context, w io.Writer, dot, format, output string) error {
	data := []byte(dot)
	if format == formatSVG {
		var err error
		if data, err = render.RenderFlowSVG(ctx, dot); err != nil {
			return err
		}
	}
	if output == "" {
		_, err := w.Write(data)
		return err
	}
	return writeOutput(w, output, format, data)
}

// describeWalk summarises where a walk ended, used by play's pause menu.
func describeWalk(p *ui.Panels, current string) string {
	if h := p.History(); len(h) > 0 {
		return fmt.Sprintf("%s (back: %s)", current, h[len(h)-1])
	}
	return current
}
