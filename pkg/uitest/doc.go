// Package uitest provides helpers for testing Bubble Tea models with
// [github.com/charmbracelet/x/exp/teatest].
//
// [NewTestModel] accepts models whose Update method returns the concrete
// model type, and [WaitForText] matches rendered output with ANSI sequences
// removed:
//
//	func TestListView(t *testing.T) {
//	    t.Parallel()
//
//	    tm := uitest.NewTestModel(t, list.NewModel(cfg), uitest.Compact)
//	    uitest.WaitForText(t, tm, "Showing 1 to 10 of 25 results")
//
//	    tm.Type("l")
//	    uitest.WaitForText(t, tm, "Showing 11 to 20 of 25 results")
//
//	    uitest.Quit(t, tm)
//	}
package uitest
