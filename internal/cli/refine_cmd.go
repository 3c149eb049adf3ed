package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/cli/formatter"
	"github.com/alexanderramin/aiscribe/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type refineOptions struct {
	plain        bool
	maxQuestions int
}

func (o *refineOptions) register(fs *pflag.FlagSet) {
	fs.BoolVar(&o.plain, "plain", false, "Use numbered line prompts instead of interactive forms")
	fs.IntVar(&o.maxQuestions, "max-questions", 0, "Number of questions before the prompt is composed (default from AISCRIBE_MAX_QUESTIONS)")
}

func newRefineCmd(app *App) *cobra.Command {
	var opts refineOptions

	cmd := &cobra.Command{
		Use:   "refine [idea...]",
		Short: "Refine an image idea through a few guided questions",
		Long: `Refine asks a handful of questions about the character, setting,
atmosphere and action of your idea, then composes a detailed prompt.

In line mode, answer with an option number or your own words. Type 'done'
to compose the prompt early.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.maxQuestions < 0 {
				return fmt.Errorf("--max-questions must be positive")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s := streamsOf(cmd)
			interactive := !opts.plain && app.interactive()
			var a asker = newLineAsker(s.in, s.out)
			if interactive {
				a = huhAsker{}
			}
			return runRefine(ctx, app, a, s, interactive, strings.Join(args, " "), opts.maxQuestions)
		},
	}
	opts.register(cmd.Flags())
	return cmd
}

// runRefine drives one refinement from idea to final prompt.
func runRefine(ctx context.Context, app *App, a asker, s streams, spin bool, idea string, maxQuestions int) error {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		var err error
		if idea, err = a.Idea(ctx); err != nil {
			return err
		}
	}

	spinner := func(msg string) func() {
		if !spin {
			return func() {}
		}
		return formatter.StartSpinner(s.errOut, msg)
	}

	done := spinner("Analyzing your idea...")
	r, err := app.Refine.Start(ctx, idea)
	done()
	if err != nil {
		return err
	}
	if maxQuestions > 0 {
		r.MaxQuestions = maxQuestions
	}

	for !r.Done && r.Current != nil {
		answer, finish, err := a.Ask(ctx, *r.Current, r.QuestionNumber(), r.MaxQuestions)
		if err != nil {
			return err
		}
		if finish {
			break
		}
		done = spinner("Thinking about your answer...")
		err = app.Refine.Answer(ctx, r, answer)
		done()
		if errors.Is(err, service.ErrEmptyAnswer) {
			continue
		}
		if err != nil {
			return err
		}
	}

	done = spinner("Composing your prompt...")
	result, err := app.Refine.Finish(ctx, r)
	done()
	if err != nil && !errors.Is(err, service.ErrArchiveFailed) {
		return err
	}

	fmt.Fprintln(s.out)
	fmt.Fprint(s.out, formatter.FormatFinalPrompt(result))
	if err != nil {
		fmt.Fprintln(s.errOut, formatter.Warn(err.Error()))
	}
	return nil
}
