package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/home-lang/pantry-sub014/pkg/lockfile"
)

// lockCommand creates the lock command.
func (c *CLI) lockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Inspect " + lockfile.FileName,
	}
	cmd.AddCommand(c.lockShowCommand())
	return cmd
}

func (c *CLI) lockShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [lockfile|dir]",
		Short: "Print the locked packages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := firstArg(args)
			if path == "" {
				path = "."
			}
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, lockfile.FileName)
			}

			lf, err := lockfile.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(lf)
			}
			for _, key := range lf.Keys() {
				e := lf.Packages[key]
				line := key
				if e.Origin != "" {
					line += "  " + e.Origin
				}
				if e.Dev {
					line += "  dev"
				}
				if e.Optional {
					line += "  optional"
				}
				fmt.Fprintln(out, line)
			}
			loggerFromContext(cmd.Context()).Debug("lock file", "path", path, "entries", lf.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw record")

	return cmd
}
