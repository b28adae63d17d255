package uitest

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// WaitTimeout bounds how long [WaitForText] waits for output.
	WaitTimeout = 3 * time.Second
	// FinishTimeout bounds how long [Quit] waits for the program to exit.
	FinishTimeout = time.Second
)

// BubbleModel is a constraint for Bubble Tea model types that return their
// concrete type from Update instead of [tea.Model].
type BubbleModel[T any] interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (T, tea.Cmd)
	View() string
}

// adapter wraps a concrete model type to satisfy [tea.Model].
type adapter[T BubbleModel[T]] struct {
	model T
}

func (a adapter[T]) Init() tea.Cmd {
	return a.model.Init()
}

//nolint:ireturn // Must satisfy [tea.Model].
func (a adapter[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.model.Update(msg)

	return adapter[T]{model: m}, cmd
}

func (a adapter[T]) View() string {
	return a.model.View()
}

// NewTestModel starts m in a test program with the given terminal size.
func NewTestModel[T BubbleModel[T]](tb testing.TB, m T, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(
		tb, adapter[T]{model: m},
		teatest.WithInitialTermSize(size.Width, size.Height),
	)
}

// WaitForText waits until the plain output contains every text.
//
// Output consumed by one call is not seen by the next, and the renderer only
// repaints lines that changed, so texts expected in the same frame must be
// passed to a single call.
func WaitForText(tb testing.TB, tm *teatest.TestModel, texts ...string) {
	tb.Helper()

	teatest.WaitFor(tb, tm.Output(), func(b []byte) bool {
		return ContainsAll(Plain(string(b)), texts...)
	}, teatest.WithDuration(WaitTimeout))
}

// Quit stops the program and waits for it to finish.
func Quit(tb testing.TB, tm *teatest.TestModel) {
	tb.Helper()

	tm.Send(tea.QuitMsg{})
	tm.WaitFinished(tb, teatest.WithFinalTimeout(FinishTimeout))
}

// Plain removes ANSI sequences and trailing spaces from every line of s.
func Plain(s string) string {
	lines := strings.Split(ansi.Strip(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}

	return strings.Join(lines, "\n")
}

// ContainsAll reports whether s contains every one of texts.
func ContainsAll(s string, texts ...string) bool {
	for _, text := range texts {
		if !strings.Contains(s, text) {
			return false
		}
	}

	return true
}
