package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/config"
	"github.com/macropower/fleetdesk/pkg/debounce"
	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/manifest"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
	"github.com/macropower/fleetdesk/pkg/ui/yamls"
)

var ErrNoFile = errors.New("no file given, use -f")

type ApplyArgs struct {
	*RootArgs

	File   string
	Diff   bool
	DryRun bool
	Watch  bool
}

func NewApplyCmd(ra *RootArgs) *cobra.Command {
	aa := &ApplyArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "apply -f <file>",
		Short: "Create or update resources from YAML manifests",
		Long: `Create or update resources from YAML manifests. Manifests without a
spec.id are created, and the others are updated.`,
		Example: `  fleetdesk apply -f bus.yaml --diff
  fleetdesk get van 4 | sed 's/blue/red/' | fleetdesk apply -f -
  fleetdesk apply -f fleet.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return aa.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&aa.File, "file", "f", "", `Manifest file, or "-" for stdin`)
	cmd.Flags().BoolVar(&aa.Diff, "diff", false, "Show the changes against the backend before saving")
	cmd.Flags().BoolVar(&aa.DryRun, "dry-run", false, "Validate and diff without saving")
	cmd.Flags().BoolVarP(&aa.Watch, "watch", "w", false, "Apply again whenever the file changes")

	must(cmd.MarkFlagFilename("file", "yaml", "yml"))

	return cmd
}

func (aa *ApplyArgs) run(cmd *cobra.Command) error {
	if aa.File == "" {
		return ErrNoFile
	}

	if aa.Watch && aa.File == "-" {
		return errors.New("--watch cannot be used with stdin")
	}

	cfg, err := aa.Config()
	if err != nil {
		return err
	}

	client, err := aa.Client()
	if err != nil {
		return err
	}

	a := &applier{
		client: client,
		theme:  theme.New(cfg.UI.Theme),
		out:    cmd.OutOrStdout(),
		diff:   aa.Diff || aa.DryRun,
		dryRun: aa.DryRun,
	}

	data, err := aa.read(cmd)
	if err != nil {
		return err
	}

	err = a.apply(cmd.Context(), data)
	if !aa.Watch {
		return err
	}

	if err != nil {
		slog.Error("apply", slog.String("file", aa.File), slog.Any("err", err))
	}

	return aa.watch(cmd, a, cfg)
}

func (aa *ApplyArgs) read(cmd *cobra.Command) ([]byte, error) {
	if aa.File == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	return config.ReadFile(aa.File) //nolint:wrapcheck // Already descriptive.
}

// watch applies the file again after each change until the context ends.
// Changes within the search delay of each other are applied once.
func (aa *ApplyArgs) watch(cmd *cobra.Command, a *applier, cfg *config.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() {
		err := watcher.Close()
		if err != nil {
			slog.Error("close watcher", slog.Any("err", err))
		}
	}()

	path, err := filepath.Abs(aa.File)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	// Editors often replace the file, so the directory is watched.
	err = watcher.Add(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("watch %s: %w", aa.File, err)
	}

	ctx := cmd.Context()
	deb := debounce.New(*cfg.UI.SearchDelay)
	defer deb.Stop()

	slog.Info("watching for changes", slog.String("file", aa.File))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}

			deb.Call(func() {
				data, err := aa.read(cmd)
				if err == nil {
					err = a.apply(ctx, data)
				}

				if err != nil {
					slog.Error("apply", slog.String("file", aa.File), slog.Any("err", err))
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Error("watch", slog.Any("err", err))
		}
	}
}

// applier saves manifests, one file at a time.
type applier struct {
	mu     sync.Mutex
	client *api.Client
	theme  *theme.Theme
	out    io.Writer
	diff   bool
	dryRun bool
}

func (a *applier) apply(ctx context.Context, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	docs, err := manifest.Parse(data)
	if err != nil {
		return err //nolint:wrapcheck // Annotated with the source.
	}

	for _, doc := range docs {
		err := a.applyDocument(ctx, doc)
		if err != nil {
			return fmt.Errorf("document %d: %w", doc.Index+1, err)
		}
	}

	return nil
}

func (a *applier) applyDocument(ctx context.Context, doc manifest.Document) error {
	col, err := a.client.Collection(doc.Kind)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	e, err := doc.Decode(col)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	err = fleet.Validate(e)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	if a.diff {
		err = a.showDiff(ctx, col, e)
		if err != nil {
			return err
		}
	}

	if a.dryRun {
		return nil
	}

	return save(ctx, a.out, col, e)
}

func (a *applier) showDiff(ctx context.Context, col api.Collection, e fleet.Entity) error {
	var live []byte

	if id := e.EntityID(); id != 0 {
		current, err := getEntity(ctx, col, id)
		if err != nil {
			return err
		}

		live, err = manifest.Marshal(col.Kind(), current)
		if err != nil {
			return err //nolint:wrapcheck // Already descriptive.
		}
	}

	local, err := manifest.Marshal(col.Kind(), e)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	diff := yamls.Diff("live", "local", string(live), string(local))
	if diff == "" {
		mustN(fmt.Fprintf(a.out, "%s %s: no changes\n", col.Kind().Singular(), e.Label()))

		return nil
	}

	err = printDiff(a.out, a.theme, diff)
	if err != nil {
		return err
	}

	mustN(fmt.Fprintln(a.out, yamls.Stat(diff)))

	return nil
}

// save creates or updates e and reports the result.
func save(ctx context.Context, w io.Writer, col api.Collection, e fleet.Entity) error {
	singular := col.Kind().Singular()

	saved, err := col.Save(ctx, e)
	if err != nil {
		return fmt.Errorf("save %s: %w", singular, err)
	}

	verb := "updated"
	if e.EntityID() == 0 {
		verb = "created"
	}

	mustN(fmt.Fprintf(w, "%s %s %s (id %d)\n", verb, singular, saved.Label(), saved.EntityID()))

	return nil
}
