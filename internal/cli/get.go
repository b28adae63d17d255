package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/manifest"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

func NewGetCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Print a resource as a YAML manifest",
		Long: `Print a resource as a YAML manifest that can be changed and passed to
"fleetdesk apply". Vehicles are followed by a comment naming their
accessibility features.`,
		Example:           `  fleetdesk get bus 3 > bus.yaml`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, ra, args[0], args[1])
		},
	}
}

func runGet(cmd *cobra.Command, ra *RootArgs, kind, rawID string) error {
	cfg, err := ra.Config()
	if err != nil {
		return err
	}

	client, col, id, err := resolve(ra, kind, rawID)
	if err != nil {
		return err
	}

	e, err := getEntity(cmd.Context(), col, id)
	if err != nil {
		return err
	}

	doc, err := manifest.Marshal(col.Kind(), e)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	if refs := featureRefs(e); refs != nil {
		doc = append(doc, describeFeatures(cmd.Context(), client, refs)...)
	}

	return printYAML(cmd.OutOrStdout(), theme.New(cfg.UI.Theme), doc)
}

// resolve parses the kind and id arguments shared by the item commands.
func resolve(ra *RootArgs, kind, rawID string) (*api.Client, api.Collection, int64, error) {
	k, err := fleet.ParseKind(kind)
	if err != nil {
		return nil, nil, 0, err //nolint:wrapcheck // Already descriptive.
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return nil, nil, 0, fmt.Errorf("invalid argument %q: id must be a positive number", rawID)
	}

	client, err := ra.Client()
	if err != nil {
		return nil, nil, 0, err
	}

	col, err := client.Collection(k)
	if err != nil {
		return nil, nil, 0, err //nolint:wrapcheck // Already descriptive.
	}

	return client, col, id, nil
}

//nolint:ireturn // One of the fleet entity types.
func getEntity(ctx context.Context, col api.Collection, id int64) (fleet.Entity, error) {
	e, err := col.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", col.Kind().Singular(), id, err)
	}

	return e, nil
}

// featureRefs returns the accessibility features of vehicles, and nil for
// other entities.
func featureRefs(e fleet.Entity) []fleet.FeatureRef {
	switch v := e.(type) {
	case fleet.Bus:
		return nonNil(v.AccessibilityFeatures)
	case fleet.Van:
		return nonNil(v.AccessibilityFeatures)
	}

	return nil
}

func nonNil(refs []fleet.FeatureRef) []fleet.FeatureRef {
	if refs == nil {
		return []fleet.FeatureRef{}
	}

	return refs
}

func describeFeatures(ctx context.Context, client *api.Client, refs []fleet.FeatureRef) string {
	var known []fleet.AccessibilityFeature

	if len(refs) > 0 {
		var err error

		known, err = client.Features().All(ctx)
		if err != nil {
			slog.Warn("could not load accessibility features", slog.Any("err", err))
		}
	}

	return "# accessibility features: " + fleet.DescribeFeatures(refs, known) + "\n"
}
