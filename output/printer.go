// Package output renders command results to the terminal.
package output

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ryclarke/git-req/config"
	"github.com/ryclarke/git-req/scm"
)

// minimum number of spaces between listing columns
const columnPadding = 4

// Printer writes listings to stdout and status messages to stderr.
type Printer struct {
	out io.Writer
	err io.Writer

	outStyles styles
	errStyles styles
}

// New creates a Printer bound to the command's output streams and color setting.
func New(cmd *cobra.Command) *Printer {
	mode := config.Viper(cmd.Context()).GetString(config.Color)

	return &Printer{
		out:       cmd.OutOrStdout(),
		err:       cmd.ErrOrStderr(),
		outStyles: newStyles(newRenderer(cmd.OutOrStdout(), mode)),
		errStyles: newStyles(newRenderer(cmd.ErrOrStderr(), mode)),
	}
}

// Success prints a confirmation message in green.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.err, p.errStyles.success.Render(msg))
}

// Error prints a failure message in red, e.g. "There was a problem finding the remote Git repo: <err>".
func (p *Printer) Error(prefix string, err error) {
	msg := err.Error()
	if prefix != "" {
		msg = prefix + ": " + msg
	}

	fmt.Fprintln(p.err, p.errStyles.failure.Render(msg))
}

// Requests prints one tab-aligned line per request. The branch column is only shown
// when the provider's branch names are meaningful.
func (p *Printer) Requests(requests []scm.Request, withBranch bool) error {
	tw := tabwriter.NewWriter(p.out, 0, 0, columnPadding, ' ', 0)

	for _, req := range requests {
		id := p.outStyles.id.Render(strconv.Itoa(req.ID))

		if withBranch {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", id, p.outStyles.branch.Render(req.SourceBranch), req.Title)
		} else {
			fmt.Fprintf(tw, "%s\t%s\n", id, req.Title)
		}
	}

	return tw.Flush()
}
