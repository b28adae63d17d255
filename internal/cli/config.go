package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/fleetdesk/pkg/config"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

func NewConfigCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the fleetdesk configuration",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(
		newConfigWriteCmd(ra),
		newConfigShowCmd(ra),
		newConfigSchemaCmd(),
	)

	return cmd
}

func newConfigWriteCmd(ra *RootArgs) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write the default configuration file",
		Long: `Write the default configuration file. An existing file is left alone
unless --force is given, in which case it is backed up first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := ra.configPath()

			err := config.WriteDefault(path, force)
			if err != nil {
				return err //nolint:wrapcheck // Already descriptive.
			}

			printf(cmd, "wrote %s", path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing configuration file")

	return cmd
}

func newConfigShowCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ra.Config()
			if err != nil {
				return err
			}

			out, err := cfg.MarshalYAML()
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}

			return printYAML(cmd.OutOrStdout(), theme.New(cfg.UI.Theme), out)
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := config.Schema()
			if err != nil {
				return err //nolint:wrapcheck // Already descriptive.
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), string(schema)))

			return nil
		},
	}
}
