package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/fleetdesk/pkg/manifest"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
	"github.com/macropower/fleetdesk/pkg/ui/yamls"
)

const defaultEditor = "vi"

var (
	ErrEditorNotSet   = errors.New("no editor configured")
	ErrEditedManifest = errors.New("edited manifest must describe the same resource")
)

// EditorFunc opens the file at path for editing and returns once the
// user is done with it.
type EditorFunc func(ctx context.Context, path string) error

// RunEditor opens path with $VISUAL or $EDITOR, falling back to vi.
func RunEditor(ctx context.Context, path string) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	args, err := shellwords.Parse(editor)
	if err != nil {
		return fmt.Errorf("parse editor %q: %w", editor, err)
	}

	if len(args) == 0 {
		return ErrEditorNotSet
	}

	ctx, span := otel.Tracer("editor").Start(ctx, "edit", trace.WithAttributes(
		attribute.String("editor", args[0]),
	))
	defer span.End()

	//nolint:gosec // The editor is chosen by the user.
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return fmt.Errorf("run %s: %w", args[0], err)
	}

	return nil
}

func NewEditCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <kind> <id>",
		Short: "Edit a resource in your editor",
		Long: `Open a resource as a YAML manifest in $VISUAL or $EDITOR. The resource
is saved when the editor exits, unless the manifest was left unchanged.`,
		Example:           `  EDITOR="code --wait" fleetdesk edit bus 3`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: kindCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, ra, args[0], args[1])
		},
	}
}

func runEdit(cmd *cobra.Command, ra *RootArgs, kind, rawID string) error {
	cfg, err := ra.Config()
	if err != nil {
		return err
	}

	_, col, id, err := resolve(ra, kind, rawID)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	e, err := getEntity(ctx, col, id)
	if err != nil {
		return err
	}

	before, err := manifest.Marshal(col.Kind(), e)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	after, err := editTemp(ctx, ra.editor, before)
	if err != nil {
		return err
	}

	if bytes.Equal(bytes.TrimSpace(before), bytes.TrimSpace(after)) {
		printf(cmd, "edit cancelled, no changes")

		return nil
	}

	docs, err := manifest.Parse(after)
	if err != nil {
		return err //nolint:wrapcheck // Annotated with the source.
	}

	if len(docs) != 1 || docs[0].Kind != col.Kind() {
		return fmt.Errorf("%w: expected one %s manifest", ErrEditedManifest, col.Kind().Singular())
	}

	edited, err := docs[0].Decode(col)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	if edited.EntityID() != id {
		return fmt.Errorf("%w: id changed from %d to %d", ErrEditedManifest, id, edited.EntityID())
	}

	normalized, err := manifest.Marshal(col.Kind(), edited)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	w := cmd.OutOrStdout()

	diff := yamls.Diff("live", "edited", string(before), string(normalized))
	if diff == "" {
		printf(cmd, "edit cancelled, no changes")

		return nil
	}

	err = printDiff(w, theme.New(cfg.UI.Theme), diff)
	if err != nil {
		return err
	}

	printf(cmd, "%s", yamls.Stat(diff))

	return save(ctx, w, col, edited)
}

// editTemp writes data to a temporary file, runs the editor on it and
// returns the result.
func editTemp(ctx context.Context, editor EditorFunc, data []byte) ([]byte, error) {
	f, err := os.CreateTemp("", "fleetdesk-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	path := f.Name()
	defer os.Remove(path) //nolint:errcheck // Best effort.

	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	err = editor(ctx, path)
	if err != nil {
		return nil, err
	}

	out, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read temp file: %w", err)
	}

	return out, nil
}
