package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cartpile/pkg/cart"
	"github.com/matzehuels/cartpile/pkg/config"
	"github.com/matzehuels/cartpile/pkg/errors"
	cartio "github.com/matzehuels/cartpile/pkg/io"
	"github.com/matzehuels/cartpile/pkg/render"
	"github.com/matzehuels/cartpile/pkg/store"
	"github.com/matzehuels/cartpile/pkg/survival"
)

const (
	formatTable = "table"
	formatSVG   = "svg"
	formatJSON  = "json"
	formatXLSX  = "xlsx"
	formatHTML  = "html"
)

// placeFormats lists the output formats accepted by place.
var placeFormats = []string{formatTable, formatSVG, formatJSON, formatXLSX, formatHTML}

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	items    string // item list file (.json or .xlsx)
	format   string
	output   string
	capacity int    // 0 fits every item
	seed     uint64 // 0 picks a random seed
	noJitter bool
	labels   bool
	save     string // cart ID to save the result under

	left, right, bottom, rowHeight float64
}

func (c *CLI) placeCommand() *cobra.Command {
	opts := placeOpts{format: formatTable, labels: true}

	cmd := &cobra.Command{
		Use:   "place [width...]",
		Short: "Drop items into a cart and show where they land",
		Long: `Drop items into a cart and show where they land.

Items come from widths on the command line (named "item 1", "item 2", ...),
from an item list (--items list.json or list.xlsx), or both. Items are
dropped in order; the pile fills left to right and wraps into new rows.`,
		Example: `  cartpile place 40 60 80 120
  cartpile place --items groceries.xlsx -f svg -o cart.svg
  cartpile place --seed 7 --capacity 5 --save demo 50 50 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(placeFormats, opts.format) {
				return errors.New(errors.ErrCodeUnsupported, "invalid format %q (must be one of %s)",
					opts.format, strings.Join(placeFormats, ", "))
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyPlaceFlags(cmd, &cfg, opts)
			return c.runPlace(cmd.Context(), cfg, opts, args, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.items, "items", "i", "", "item list file (.json or .xlsx)")
	f.StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(placeFormats, ", "))
	f.StringVarP(&opts.output, "output", "o", "", "output file (default stdout for table, svg and json)")
	f.IntVar(&opts.capacity, "capacity", 0, "cart capacity (default fits every item)")
	f.Uint64Var(&opts.seed, "seed", 0, "jitter seed for reproducible piles (0 = random)")
	f.BoolVar(&opts.noJitter, "no-jitter", false, "disable position and rotation jitter")
	f.BoolVar(&opts.labels, "labels", opts.labels, "label items in SVG output")
	f.StringVar(&opts.save, "save", "", "save the cart to the local store under this ID")
	f.Float64Var(&opts.left, "left", 0, "left edge of the pile region")
	f.Float64Var(&opts.right, "right", 0, "right edge of the pile region")
	f.Float64Var(&opts.bottom, "bottom", 0, "bottom edge of the pile region")
	f.Float64Var(&opts.rowHeight, "row-height", 0, "row height")

	return cmd
}

// applyPlaceFlags overlays explicitly set flags on cfg.
func applyPlaceFlags(cmd *cobra.Command, cfg *config.Config, opts placeOpts) {
	f := cmd.Flags()
	region := &cfg.Cart.Pile.Region
	if f.Changed("left") {
		region.Left = opts.left
	}
	if f.Changed("right") {
		region.Right = opts.right
	}
	if f.Changed("bottom") {
		region.Bottom = opts.bottom
	}
	if f.Changed("row-height") {
		region.RowHeight = opts.rowHeight
	}
	if f.Changed("seed") {
		cfg.Cart.Pile.Seed = opts.seed
	}
	if opts.noJitter {
		cfg.Cart.Pile.Jitter.PositionX = 0
		cfg.Cart.Pile.Jitter.PositionY = 0
		cfg.Cart.Pile.Jitter.RotationDegrees = 0
	}
}

func (c *CLI) runPlace(ctx context.Context, cfg config.Config, opts placeOpts, args []string, w io.Writer) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	items, err := placeItems(opts.items, args)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no items to place (pass widths or --items)")
	}

	cfg.Cart.Capacity = opts.capacity
	if opts.capacity == 0 {
		cfg.Cart.Capacity = len(items)
	}
	meter, err := survival.NewMeter(cfg.Meter)
	if err != nil {
		return err
	}
	cartOpts := []cart.Option{cart.WithEffect(meter), cart.WithLogger(logger)}
	if opts.save != "" {
		cartOpts = append(cartOpts, cart.WithID(opts.save))
	}
	ct, err := cart.New(cfg.Cart, cartOpts...)
	if err != nil {
		return err
	}

	rejected := 0
	for _, it := range items {
		if _, err := ct.Drop(ctx, it); err != nil {
			if !stderrors.Is(err, cart.ErrCartFull) {
				return err
			}
			rejected++
		}
	}
	prog.done(fmt.Sprintf("Placed %d items", ct.Len()))
	if rejected > 0 {
		logger.Warn("cart full, items rejected", "rejected", rejected, "capacity", ct.Capacity())
	}

	if opts.save != "" {
		if err := saveCart(ctx, cfg, ct, meter); err != nil {
			return err
		}
		logger.Info("cart saved", "id", ct.ID())
	}

	l := render.NewLayout(ct, meter)
	if opts.format == formatTable {
		writePlacementTable(w, l)
		fmt.Fprintln(w, cartStats(len(l.Entries), l.Capacity, rowCount(l), meter.String()))
		return nil
	}
	data, err := renderLayout(l, opts.format, opts.labels)
	if err != nil {
		return err
	}
	return writeOutput(w, opts.output, opts.format, data)
}

// placeItems loads the item list file and appends one item per width.
func placeItems(path string, widths []string) ([]cart.Item, error) {
	var items []cart.Item
	if path != "" {
		loaded, err := cartio.Import(path)
		if err != nil {
			return nil, err
		}
		items = loaded
	}
	for i, s := range widths {
		width, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "width %q is not a number", s)
		}
		it := cart.NewItem(fmt.Sprintf("item %d", len(items)+1), "", width)
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// saveCart writes the cart to the local file store.
func saveCart(ctx context.Context, cfg config.Config, ct *cart.Cart, m *survival.Meter) error {
	st, err := openFileStore(cfg, "")
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Set(ctx, store.NewSnapshot(ct, m))
}

// renderLayout renders l in one of the file formats.
func renderLayout(l render.Layout, format string, labels bool) ([]byte, error) {
	switch format {
	case formatSVG:
		opts := []render.SVGOption{render.WithMeter()}
		if labels {
			opts = append(opts, render.WithLabels())
		}
		return render.RenderSVG(l, opts...), nil
	case formatJSON:
		return render.RenderJSON(l)
	case formatXLSX:
		return render.RenderXLSX(l)
	case formatHTML:
		return render.RenderChart(l)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
}

// writeOutput writes data to path, or to w for text formats without a path.
// Binary and HTML output without a path goes to "pile.<format>".
func writeOutput(w io.Writer, path, format string, data []byte) error {
	if path == "" {
		if format == formatSVG || format == formatJSON {
			_, err := w.Write(data)
			return err
		}
		path = "pile." + format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

// writePlacementTable prints one row per placed item.
func writePlacementTable(w io.Writer, l render.Layout) {
	rows := make([][]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		pl := e.Placement
		rows = append(rows, []string{
			strconv.Itoa(pl.Seq),
			e.Item.Name,
			string(e.Item.Tag),
			strconv.Itoa(pl.Row),
			fmt.Sprintf("%.1f", pl.Width),
			fmt.Sprintf("%.1f", pl.X),
			fmt.Sprintf("%.1f", pl.Y),
			fmt.Sprintf("%+.1f°", pl.Rotation),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("#", "Item", "Tag", "Row", "Width", "X", "Y", "Rotation").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 2 && row >= 0 && row < len(l.Entries) {
				return tagStyle(l.Entries[row].Item.Tag)
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
}

func rowCount(l render.Layout) int {
	if len(l.Entries) == 0 {
		return 0
	}
	return l.Entries[len(l.Entries)-1].Placement.Row + 1
}
