package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cartpile/pkg/cart"
	"github.com/matzehuels/cartpile/pkg/errors"
	cartio "github.com/matzehuels/cartpile/pkg/io"
	"github.com/matzehuels/cartpile/pkg/render"
	"github.com/matzehuels/cartpile/pkg/store"
)

// cartsCommand manages carts saved in the local file store.
func (c *CLI) cartsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "carts",
		Short: "Manage saved carts",
		Long: `Manage carts saved by "place --save" and the play command.

Carts live in the file store ($XDG_DATA_HOME/cartpile/carts unless
store.dir or --dir says otherwise).`,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "store directory")

	open := func() (*store.FileStore, error) {
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, err
		}
		return openFileStore(cfg, dir)
	}

	cmd.AddCommand(c.cartsListCommand(open))
	cmd.AddCommand(c.cartsShowCommand(open))
	cmd.AddCommand(c.cartsRemoveCommand(open))
	cmd.AddCommand(c.cartsCleanupCommand(open))
	cmd.AddCommand(c.cartsPathCommand(open))

	return cmd
}

type openStoreFunc func() (*store.FileStore, error)

func (c *CLI) cartsListCommand(open openStoreFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved carts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open()
			if err != nil {
				return err
			}
			defer st.Close()

			snaps, err := loadSnapshots(cmd.Context(), st)
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				printInfo("No saved carts")
				printNextStep("Save one with", appName+" place --save demo 40 60 80")
				return nil
			}
			writeCartTable(cmd.OutOrStdout(), snaps)
			return nil
		},
	}
}

func (c *CLI) cartsShowCommand(open openStoreFunc) *cobra.Command {
	var format, output, exportItems string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved cart's pile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(placeFormats, format) {
				return errors.New(errors.ErrCodeUnsupported, "invalid format %q (must be one of %s)",
					format, strings.Join(placeFormats, ", "))
			}
			st, err := open()
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ct, m, err := snap.Restore(cart.WithLogger(loggerFromContext(cmd.Context())))
			if err != nil {
				return err
			}
			l := render.NewLayout(ct, m)

			if exportItems != "" {
				items := make([]cart.Item, len(l.Entries))
				for i, e := range l.Entries {
					items[i] = e.Item
				}
				if err := cartio.ExportJSON(items, exportItems); err != nil {
					return err
				}
				printFile(exportItems)
			}

			w := cmd.OutOrStdout()
			if format != formatTable {
				data, err := renderLayout(l, format, true)
				if err != nil {
					return err
				}
				return writeOutput(w, output, format, data)
			}
			printKeyValue("cart", snap.ID)
			printKeyValue("hp", m.String()+" "+meterBar(m.Fraction(), 20))
			printKeyValue("updated", snap.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			writePlacementTable(w, l)
			fmt.Fprintln(w, cartStats(len(l.Entries), l.Capacity, rowCount(l), ""))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: "+strings.Join(placeFormats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&exportItems, "export-items", "", "also write the cart's items as a JSON item list")
	return cmd
}

func (c *CLI) cartsRemoveCommand(open openStoreFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete saved carts",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			for _, id := range args {
				if _, err := st.Get(ctx, id); err != nil {
					return err
				}
				if err := st.Delete(ctx, id); err != nil {
					return err
				}
				printSuccess("Deleted %s", id)
			}
			return nil
		},
	}
}

func (c *CLI) cartsCleanupCommand(open openStoreFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired and unreadable cart files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open()
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Cleanup(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Removed %d cart files", n)
			printDetail("Directory: %s", st.Dir())
			return nil
		},
	}
}

func (c *CLI) cartsPathCommand(open openStoreFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the store directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open()
			if err != nil {
				return err
			}
			defer st.Close()
			fmt.Fprintln(cmd.OutOrStdout(), st.Dir())
			return nil
		},
	}
}

// loadSnapshots reads every live snapshot in ID order.
func loadSnapshots(ctx context.Context, st store.Store) ([]*store.Snapshot, error) {
	ids, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	snaps := make([]*store.Snapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := st.Get(ctx, id)
		if err != nil {
			if errors.Is(err, errors.ErrCodeNotFound) {
				continue // expired between List and Get
			}
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func writeCartTable(w io.Writer, snaps []*store.Snapshot) {
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			s.ID,
			fmt.Sprintf("%d/%d", s.Len(), s.Config.Capacity),
			strconv.Itoa(s.HP),
			s.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Cart", "Items", "HP", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
}
