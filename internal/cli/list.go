package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

type ListArgs struct {
	*RootArgs

	Sort   string
	Search string
	Page   int
	Size   int
}

func NewListCmd(ra *RootArgs) *cobra.Command {
	la := &ListArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:     "list <kind>",
		Aliases: []string{"ls"},
		Short:   "Print one page of buses, vans or accessibility features",
		Example: `  fleetdesk list buses
  fleetdesk list vans --page 2 --size 20
  fleetdesk list features --search ramp --sort name,desc`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return la.run(cmd, args[0])
		},
	}

	cmd.Flags().IntVar(&la.Page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&la.Size, "size", 0, "Page size, defaults to the configured page size")
	cmd.Flags().StringVar(&la.Sort, "sort", "", `Sort as "field" or "field,order"`)
	cmd.Flags().StringVar(&la.Search, "search", "", "Only show resources matching the term")

	return cmd
}

func (la *ListArgs) run(cmd *cobra.Command, kind string) error {
	cfg, err := la.Config()
	if err != nil {
		return err
	}

	col, err := la.Collection(kind)
	if err != nil {
		return err
	}

	k := col.Kind()

	size := la.Size
	if size == 0 {
		size = *cfg.UI.PageSize
	}

	srt, err := fleet.ParseSort(k, la.Sort)
	if err != nil {
		return fmt.Errorf("invalid argument %q for \"--sort\" flag: %w", la.Sort, err)
	}

	q := api.ListQuery{
		Search: la.Search,
		Sort:   srt,
		Page:   la.Page - 1,
		Size:   size,
	}

	err = q.Validate(k)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	page, err := listPage(cmd.Context(), col, q)
	if err != nil {
		return err
	}

	return printPage(cmd.OutOrStdout(), theme.New(cfg.UI.Theme), k, page)
}
