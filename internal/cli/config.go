package cli

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/quadmesh/quadgen"
)

func newConfigCmd() *cobra.Command {
	var flags generatorFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective generator configuration",
		Long: `Print the generator configuration as TOML: the defaults, overridden by
--config and explicit flags. The output is a valid --config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			o := quadgen.DefaultOptions()
			for _, set := range opts {
				set(&o)
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(quadgen.ConfigOf(o))
		},
	}
	flags.register(cmd)

	return cmd
}
