package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cartpile/pkg/dialogue"
)

func (c *CLI) dialogueCommand() *cobra.Command {
	var path string
	var list bool

	cmd := &cobra.Command{
		Use:   "dialogue [item...]",
		Short: "Look up the dialogue line for items",
		Long: `Look up the dialogue line for items.

Names are matched exactly, then ignoring case, then by the closest spelling.
Items without a line get the catalog's fallback.`,
		Example: `  cartpile dialogue --file lines.toml apple "Rotten Egg"
  cartpile dialogue --file lines.toml --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				path = cfg.Dialogue.Path
			}
			cat, err := loadCatalog(path)
			if err != nil {
				return err
			}
			if list {
				for _, name := range cat.Names() {
					printKeyValue(name, cat.Line(name))
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("pass at least one item name, or --list")
			}
			for _, name := range args {
				printMatch(name, cat.Lookup(name))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "dialogue catalog (default from config)")
	cmd.Flags().BoolVar(&list, "list", false, "list every line in the catalog")

	return cmd
}

// loadCatalog loads a catalog, or returns an empty one for an empty path.
func loadCatalog(path string) (*dialogue.Catalog, error) {
	if path == "" {
		return dialogue.New(), nil
	}
	return dialogue.Load(path)
}

func printMatch(name string, m dialogue.Match) {
	printKeyValue(name, m.Text)
	switch m.Source {
	case dialogue.SourceExact:
	case dialogue.SourceFuzzy:
		printDetail("matched %q (distance %d)", m.Key, m.Distance)
	case dialogue.SourceFallback:
		printDetail("no line, using fallback")
	default:
		printDetail("matched %q", m.Key)
	}
}
