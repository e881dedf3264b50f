package cli

import (
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/drivetrain/pkg/io"
	"github.com/matzehuels/drivetrain/pkg/pipeline"
)

// configCommand groups the tuning file helpers.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate tuning files",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configValidateCommand())

	return cmd
}

// configShowCommand prints the effective tuning as TOML. Without --config
// it prints the defaults, which makes a starting point for a new file.
func (c *CLI) configShowCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective layout and callout tuning",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := pkgio.LoadOptions(path)
			if err != nil {
				return err
			}
			return pkgio.WriteOptions(stdout, opts)
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "tuning file (TOML)")
	return cmd
}

func (c *CLI) configValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a tuning file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := pkgio.LoadOptions(args[0])
			if err != nil {
				return err
			}
			if err := pipeline.ValidateSchemeOptions(opts); err != nil {
				return err
			}
			printSuccess("%s is valid", args[0])
			return nil
		},
	}
}
