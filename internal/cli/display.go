package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	successColorFG = pterm.FgLightGreen
	successStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	errorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

// display drives the terminal output for one run. With quiet set every
// method is a no-op, so callers never branch on it.
type display struct {
	quiet   bool
	spinner *pterm.SpinnerPrinter
	start   time.Time
}

// header names the run's seed so it can be replayed with --seed.
func (d *display) header(seed int64) {
	if d.quiet {
		return
	}
	fmt.Print("benchgen -- seed: ")
	successColorFG.Println(seed)
}

// begin starts the spinner for one program.
func (d *display) begin(prefix string) {
	if d.quiet {
		return
	}
	d.start = time.Now()

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(successColorFG))
	spinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: successStyleBG,
			Text:  "Done",
		},
	}
	spinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: errorStyleBG,
			Text:  "Fail",
		},
	}
	d.spinner, _ = spinner.Start("Generating " + prefix + "...")
}

// done closes the spinner, naming the files written and the attempts the
// accept loop needed.
func (d *display) done(prefix string, attempts int, paths []string) {
	if d.spinner == nil {
		return
	}
	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = filepath.Base(path)
	}
	d.spinner.Success(
		prefix+": "+strings.Join(names, " ")+" ",
		fmt.Sprintf("(%d attempt(s), %.3fs)", attempts, time.Since(d.start).Seconds()),
	)
	d.spinner = nil
}

// fail closes the spinner; the error itself is reported by the caller.
func (d *display) fail(prefix string) {
	if d.spinner == nil {
		return
	}
	d.spinner.Fail("Generating " + prefix)
	d.spinner = nil
}

// summary prints the closing line for the whole run.
func (d *display) summary(produced int, dir string) {
	if d.quiet {
		return
	}
	fmt.Print("\n")
	successColorFG.Print("All done! ")
	fmt.Printf("%d program(s) in %s\n", produced, dir)
}
