package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/quadmesh/mesh"
	"github.com/katalvlaran/quadmesh/quadgen"
)

// generatorFlags are the generator settings shared by generate and demo.
// Explicit flags override the configuration file.
type generatorFlags struct {
	config     string
	resolution float64
	isotropic  bool
	strict     bool
	check      bool
}

func (f *generatorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "generator configuration (TOML)")
	cmd.Flags().Float64VarP(&f.resolution, "resolution", "r", quadgen.DefaultNominalResolution, "nominal physical cell size")
	cmd.Flags().BoolVar(&f.isotropic, "isotropic", false, "keep the smoothed nominal grid instead of an exact-scale grid")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on non-Cartesian boundary edges")
	cmd.Flags().BoolVar(&f.check, "check", false, "verify cell orientation and field monotonicity")
}

// options resolves the configuration file and the explicitly set flags.
func (f *generatorFlags) options(cmd *cobra.Command) ([]quadgen.Option, error) {
	var opts []quadgen.Option
	if f.config != "" {
		cfg, err := quadgen.LoadConfig(f.config)
		if err != nil {
			return nil, err
		}
		opts = cfg.Options()
	}
	if cmd.Flags().Changed("resolution") {
		if !(f.resolution > 0) {
			return nil, fmt.Errorf("--resolution %g: %w", f.resolution, quadgen.ErrInvalidConfig)
		}
		opts = append(opts, quadgen.WithNominalResolution(f.resolution))
	}
	if cmd.Flags().Changed("isotropic") {
		opts = append(opts, quadgen.WithAnisotropic(!f.isotropic))
	}
	if f.strict {
		opts = append(opts, quadgen.WithStrictCartesian(true))
	}

	return opts, nil
}

func newGenerateCmd() *cobra.Command {
	var (
		flags  generatorFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate [polygon.toml]",
		Short: "Fill a polygon with an orthogonal quad grid",
		Long: `Fill a generating polygon with an orthogonal quad grid.

The polygon file lists nodes with physical (x, y) positions and optional
fixed logical (i, j) coordinates, and counter-clockwise cells over them.
Polygons with several cells are filled cell by cell and stitched.

The output is a TOML grid (default: <input>.grid.toml).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], output, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.grid.toml)")
	flags.register(cmd)

	return cmd
}

func runGenerate(cmd *cobra.Command, input, output string, flags *generatorFlags) error {
	g, err := ReadPolygonFile(input)
	if err != nil {
		return fmt.Errorf("load polygon %s: %w", input, err)
	}
	opts, err := flags.options(cmd)
	if err != nil {
		return err
	}

	res, err := generate(cmd.Context(), g, opts, flags.check)
	if err != nil {
		return err
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".grid.toml"
	}
	if err = writeFile(output, func(w io.Writer) error { return WriteResult(w, res) }); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Grid generated")
	printFile(out, output)
	printSummary(out, res)

	return nil
}

// generate runs the single-cell or the multi-cell pipeline on g, then the
// optional post-condition checks.
func generate(ctx context.Context, g *mesh.Grid, opts []quadgen.Option, check bool) (*quadgen.Result, error) {
	logger := loggerFromContext(ctx)
	opts = append(opts, quadgen.WithLogger(logger))
	p := newProgress(logger)

	var res *quadgen.Result
	var err error
	if len(g.CellIDs()) > 1 {
		res, err = quadgen.GenerateCells(ctx, g, opts...)
	} else {
		res, err = quadgen.Generate(ctx, g, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("generate grid: %w", err)
	}
	p.done(fmt.Sprintf("Generated %d nodes", res.Final.NumNodes()))

	if check {
		if err = res.Validate(); err != nil {
			return nil, err
		}
		if res.Intermediate != nil {
			if err = res.CheckFields(); err != nil {
				return nil, err
			}
		}
	}

	return res, nil
}
