package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/ui/pagination"
	"github.com/macropower/fleetdesk/pkg/ui/table"
	"github.com/macropower/fleetdesk/pkg/ui/theme"
	"github.com/macropower/fleetdesk/pkg/ui/yamls"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 100

// isTerminal reports whether w is a terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

func outputWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}

	return defaultWidth
}

// printPage writes a table of the page followed by its pagination footer.
// Styles are only applied on terminals.
func printPage(w io.Writer, t *theme.Theme, kind fleet.Kind, page *api.Page[fleet.Entity]) error {
	var (
		tableOpts []table.RendererOpt
		pageOpts  []pagination.RendererOpt
	)

	if !isTerminal(w) {
		tableOpts = append(tableOpts, table.WithPlain())
		pageOpts = append(pageOpts, pagination.WithPlain())
	}

	width := outputWidth(w)

	rows := make([][]string, 0, len(page.Content))
	for _, e := range page.Content {
		rows = append(rows, e.Cells())
	}

	var b strings.Builder

	if len(rows) > 0 {
		b.WriteString(table.New(t, tableOpts...).Render(kind.Columns(), rows, table.NoCursor, width))
		b.WriteString("\n\n")
	}

	b.WriteString(strings.TrimRight(pagination.New(t, pageOpts...).Render(page.State(), width), " "))

	_, err := fmt.Fprintln(w, b.String())
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// printYAML writes a YAML document, highlighted on terminals.
func printYAML(w io.Writer, t *theme.Theme, doc []byte) error {
	return printHighlighted(w, t, yamls.LanguageYAML, string(doc))
}

func printDiff(w io.Writer, t *theme.Theme, diff string) error {
	return printHighlighted(w, t, yamls.LanguageDiff, diff)
}

func printHighlighted(w io.Writer, t *theme.Theme, lang yamls.Language, src string) error {
	out := strings.TrimRight(src, "\n")

	if isTerminal(w) {
		rendered, err := yamls.NewHighlighter(t, lang).Render(src, 0)
		if err == nil {
			out = rendered
		}
	}

	_, err := fmt.Fprintln(w, out)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// printf writes a status line to the command's output.
func printf(cmd *cobra.Command, format string, a ...any) {
	mustN(fmt.Fprintf(cmd.OutOrStdout(), format+"\n", a...))
}
