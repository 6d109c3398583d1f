package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/quadmesh/builder"
)

// demoShapes maps demo names to their polygon constructors.
func demoShapes(ni, nj int) map[string]builder.Constructor {
	return map[string]builder.Constructor{
		"rectangle": builder.Rectangle(ni, nj),
		"trapezoid": builder.Trapezoid(ni, nj, float64(ni)/4),
		"lshape":    builder.LShape(ni, (ni+1)/2),
		"strip":     builder.Strip(2, ni, nj),
	}
}

func demoNames() []string {
	names := make([]string, 0, 4)
	for name := range demoShapes(1, 1) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newDemoCmd() *cobra.Command {
	var (
		flags       generatorFlags
		ni, nj      int
		output      string
		savePolygon string
	)

	cmd := &cobra.Command{
		Use:   "demo [" + strings.Join(demoNames(), "|") + "]",
		Short: "Run the generator on a built-in polygon",
		Long: `Run the generator on a built-in polygon.

--ni and --nj set the logical size of the polygon. The polygon and the grid can be saved for use with 'generate'.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: demoNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cons, ok := demoShapes(ni, nj)[args[0]]
			if !ok {
				return fmt.Errorf("unknown demo %q (want one of %s)", args[0], strings.Join(demoNames(), ", "))
			}
			g, err := builder.BuildPolygon(nil, cons)
			if err != nil {
				return err
			}
			if savePolygon != "" {
				if err = writeFile(savePolygon, func(w io.Writer) error { return WritePolygon(w, g) }); err != nil {
					return fmt.Errorf("write polygon %s: %w", savePolygon, err)
				}
			}

			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			res, err := generate(cmd.Context(), g, opts, flags.check)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Demo %s generated", args[0])
			if savePolygon != "" {
				printFile(out, savePolygon)
			}
			if output != "" {
				if err = writeFile(output, func(w io.Writer) error { return WriteResult(w, res) }); err != nil {
					return fmt.Errorf("write output %s: %w", output, err)
				}
				printFile(out, output)
			}
			printSummary(out, res)

			return nil
		},
	}

	cmd.Flags().IntVar(&ni, "ni", 8, "logical width")
	cmd.Flags().IntVar(&nj, "nj", 4, "logical height")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the grid to this file")
	cmd.Flags().StringVar(&savePolygon, "save-polygon", "", "write the demo polygon to this file")
	flags.register(cmd)

	return cmd
}
