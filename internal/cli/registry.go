package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// registryCommand creates the registry command.
func (c *CLI) registryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect configured registries",
	}
	cmd.AddCommand(c.registryListCommand())
	return cmd
}

func (c *CLI) registryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registries in resolution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := c.registries(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			def := ""
			if r, ok := mgr.Default(); ok {
				def = r.Name()
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(StyleDim).
				Headers("NAME", "TYPE", "PRIORITY", "ENABLED", "LOCATION")
			for _, cfg := range mgr.Configs() {
				name := cfg.Name
				if name == def {
					name += " *"
				}
				location := cfg.URL
				if location == "" {
					location = cfg.Root
				}
				t.Row(name, string(cfg.Type), strconv.Itoa(cfg.Priority), strconv.FormatBool(cfg.IsEnabled()), location)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
}
