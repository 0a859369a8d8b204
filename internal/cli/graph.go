package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/home-lang/pantry-sub014/pkg/dag"
	"github.com/home-lang/pantry-sub014/pkg/deps"
	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/render/nodelink"
)

const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags    resolveFlags
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph [manifest|dir]",
		Short: "Render the resolved dependency graph as DOT, SVG or JSON",
		Example: `  pantry graph > deps.dot
  pantry graph --format svg -o deps.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatDOT, formatSVG, formatJSON:
			default:
				return perrors.New(perrors.ErrCodeInvalidInput, "unknown format %q (want dot, svg or json)", format)
			}

			ctx := cmd.Context()
			r, closeFn, err := c.resolve(ctx, firstArg(args), flags)
			if err != nil {
				return err
			}
			defer closeFn()

			g := deps.Graph(r.result)
			var data []byte
			switch format {
			case formatJSON:
				var buf bytes.Buffer
				if err := dag.WriteJSON(g, &buf); err != nil {
					return err
				}
				data = buf.Bytes()
			case formatSVG:
				dot := nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})
				if data, err = nodelink.RenderSVG(ctx, dot); err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
			default:
				data = []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: detailed}))
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered %d packages, %d edges", g.NodeCount(), g.EdgeCount())
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot, svg or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with their origin registry")

	return cmd
}
