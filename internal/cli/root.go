package cli

import (
	"errors"
	"io"

	"github.com/alexanderramin/aiscribe/internal/service"
	"github.com/spf13/cobra"
)

// errHistoryDisabled is returned by history commands when archiving is off.
var errHistoryDisabled = errors.New("history is disabled (AISCRIBE_NO_ARCHIVE is set)")

// App holds references to the services used by CLI commands.
type App struct {
	Refine  service.RefinementService
	History service.HistoryService // nil when archiving is disabled
	Version string

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "aiscribe" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "aiscribe",
		Short:         "Turn a rough image idea into a detailed text-to-image prompt",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRefineCmd(app),
		newAnalyzeCmd(app),
		newHistoryCmd(app),
		newVersionCmd(app),
	)

	return root
}

// streams bundles a command's input and output writers.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func streamsOf(cmd *cobra.Command) streams {
	return streams{in: cmd.InOrStdin(), out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
}
