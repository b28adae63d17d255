package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

var (
	ErrNotConfirmed = errors.New("not confirmed")
	ErrNeedsConfirm = errors.New("refusing to delete without --yes when stdin is not a terminal")
)

type DeleteArgs struct {
	*RootArgs

	Yes bool
}

func NewDeleteCmd(ra *RootArgs) *cobra.Command {
	da := &DeleteArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:               "delete <kind> <id>",
		Aliases:           []string{"rm"},
		Short:             "Delete a resource",
		Example:           `  fleetdesk delete van 4 --yes`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return da.run(cmd, args[0], args[1])
		},
	}

	cmd.Flags().BoolVarP(&da.Yes, "yes", "y", false, "Delete without asking for confirmation")

	return cmd
}

func (da *DeleteArgs) run(cmd *cobra.Command, kind, rawID string) error {
	cfg, err := da.Config()
	if err != nil {
		return err
	}

	_, col, id, err := resolve(da.RootArgs, kind, rawID)
	if err != nil {
		return err
	}

	singular := col.Kind().Singular()

	e, err := getEntity(cmd.Context(), col, id)
	if err != nil {
		return err
	}

	if !da.Yes {
		if !isTerminal(cmd.InOrStdin()) {
			return ErrNeedsConfirm
		}

		confirmed := false

		confirm := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s %s?", singular, e.Label())).
			Description("This cannot be undone.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed)

		err = huh.NewForm(huh.NewGroup(confirm)).
			WithTheme(theme.HuhTheme(theme.New(cfg.UI.Theme))).
			RunWithContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("confirm: %w", err)
		}

		if !confirmed {
			return ErrNotConfirmed
		}
	}

	err = col.Delete(cmd.Context(), id)
	if errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("delete %s %d: not found", singular, id)
	}

	if err != nil {
		return fmt.Errorf("delete %s %d: %w", singular, id, err)
	}

	printf(cmd, "deleted %s %s", singular, e.Label())

	return nil
}
