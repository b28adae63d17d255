package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/config"
	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/log"
	"github.com/macropower/fleetdesk/pkg/ui"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
)

// runUI starts the TUI on the buses view. When stdout is not a terminal the
// first page of buses is printed instead.
func runUI(cmd *cobra.Command, ra *RootArgs) error {
	path := ra.configPath()

	err := config.WriteDefault(path, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}

	cfg, err := ra.Config()
	if err != nil {
		return err
	}

	if !isTerminal(cmd.OutOrStdout()) {
		return printFirstPage(cmd, ra, cfg, fleet.KindBus)
	}

	logBuf := log.NewCircularBuffer(log.DefaultBufferCapacity)

	logHandler, err := log.CreateHandlerWithStrings(logBuf, ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	prevLogger := slog.Default()
	slog.SetDefault(slog.New(logHandler))

	defer func() {
		slog.SetDefault(prevLogger)
		flushLogs(cmd.ErrOrStderr(), logBuf)
	}()

	client, err := ra.Client()
	if err != nil {
		return err
	}

	p, err := ui.NewProgram(cfg.UI, ui.NewBackend(client), tea.WithContext(cmd.Context()))
	if err != nil {
		return fmt.Errorf("create ui: %w", err)
	}

	_, err = p.Run()
	if err != nil {
		slog.Error("run UI", slog.Any("err", err))

		return fmt.Errorf("ui program failure: %w", err)
	}

	return nil
}

func printFirstPage(cmd *cobra.Command, ra *RootArgs, cfg *config.Config, kind fleet.Kind) error {
	client, err := ra.Client()
	if err != nil {
		return err
	}

	col, err := client.Collection(kind)
	if err != nil {
		return err //nolint:wrapcheck // Already descriptive.
	}

	page, err := listPage(cmd.Context(), col, api.NewListQuery(kind, *cfg.UI.PageSize))
	if err != nil {
		return err
	}

	return printPage(cmd.OutOrStdout(), theme.New(cfg.UI.Theme), kind, page)
}

func listPage(ctx context.Context, col api.Collection, q api.ListQuery) (*api.Page[fleet.Entity], error) {
	page, err := col.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", col.Kind(), err)
	}

	return page, nil
}

func flushLogs(w io.Writer, buf *log.CircularBuffer) {
	if buf.Dropped() > 0 {
		slog.Debug("flush logs to console",
			slog.Int("count", buf.Size()),
			slog.Int("dropped", buf.Dropped()),
		)
	}

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}
