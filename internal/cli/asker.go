package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/cli/formatter"
	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/charmbracelet/huh"
)

// errNoInput is returned when the input closes before an idea was entered.
var errNoInput = errors.New("no idea given")

// asker collects input from the user during a refinement.
type asker interface {
	// Idea asks for the initial image idea.
	Idea(ctx context.Context) (string, error)
	// Ask presents q. finish is true when the user wants to stop answering.
	Ask(ctx context.Context, q domain.Question, number, total int) (answer string, finish bool, err error)
	Confirm(ctx context.Context, title string) (bool, error)
}

// resolveAnswer maps one line of input onto an answer. A number picks the
// matching option, "done" finishes, anything else is a free-text answer.
func resolveAnswer(input string, options []string) (answer string, finish bool) {
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, "done") {
		return "", true
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], false
	}
	return input, false
}

// lineAsker prompts on plain text streams. It is used when stdin is not a
// terminal or --plain is set.
type lineAsker struct {
	in  *bufio.Reader
	out io.Writer
}

func newLineAsker(in io.Reader, out io.Writer) *lineAsker {
	return &lineAsker{in: bufio.NewReader(in), out: out}
}

// readLine returns io.EOF only when nothing was read.
func (a *lineAsker) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *lineAsker) Idea(ctx context.Context) (string, error) {
	for {
		fmt.Fprint(a.out, formatter.Bold("Describe the image you have in mind: "))
		line, err := a.readLine()
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
}

func (a *lineAsker) Ask(ctx context.Context, q domain.Question, number, total int) (string, bool, error) {
	fmt.Fprintln(a.out)
	fmt.Fprint(a.out, formatter.FormatQuestion(q, number, total))
	fmt.Fprintln(a.out, formatter.AnswerHint(len(q.Options)))
	for {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		fmt.Fprint(a.out, formatter.StyleHeader.Render("> "))
		line, err := a.readLine()
		if errors.Is(err, io.EOF) {
			return "", true, nil
		}
		if err != nil {
			return "", false, err
		}
		if line == "" {
			continue
		}
		answer, finish := resolveAnswer(line, q.Options)
		return answer, finish, nil
	}
}

func (a *lineAsker) Confirm(_ context.Context, title string) (bool, error) {
	fmt.Fprintf(a.out, "%s [y/N]: ", title)
	line, err := a.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

const (
	optionOwnAnswer = "\x00own"
	optionFinish    = "\x00finish"
)

// huhAsker prompts with huh forms on a terminal.
type huhAsker struct{}

func (huhAsker) form(fields ...huh.Field) *huh.Form {
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(aiscribeHuhTheme()).WithShowHelp(false)
}

func (a huhAsker) Idea(ctx context.Context) (string, error) {
	var idea string
	err := a.form(
		huh.NewInput().
			Title("Describe the image you have in mind").
			Placeholder("Little Red Riding Hood walking through the forest").
			Value(&idea).
			Validate(requireText),
	).RunWithContext(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(idea), nil
}

func (a huhAsker) Ask(ctx context.Context, q domain.Question, number, total int) (string, bool, error) {
	opts := make([]huh.Option[string], 0, len(q.Options)+2)
	for _, o := range q.Options {
		opts = append(opts, huh.NewOption(o, o))
	}
	opts = append(opts,
		huh.NewOption("✎ Write my own answer", optionOwnAnswer),
		huh.NewOption("✔ Finish now", optionFinish),
	)

	desc := fmt.Sprintf("Question %d of %d · %s", number, total, q.Module.Title())
	if ex := q.FirstExample(); ex != "" {
		desc += "\ne.g. " + ex
	}

	var choice string
	err := a.form(
		huh.NewSelect[string]().
			Title(q.Question).
			Description(desc).
			Options(opts...).
			Value(&choice),
	).RunWithContext(ctx)
	if err != nil {
		return "", false, err
	}

	switch choice {
	case optionFinish:
		return "", true, nil
	case optionOwnAnswer:
		var own string
		err := a.form(
			huh.NewText().
				Title(q.Question).
				Value(&own).
				Validate(requireText),
		).RunWithContext(ctx)
		if err != nil {
			return "", false, err
		}
		return strings.TrimSpace(own), false, nil
	default:
		return choice, false, nil
	}
}

func (a huhAsker) Confirm(ctx context.Context, title string) (bool, error) {
	var ok bool
	err := a.form(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	).RunWithContext(ctx)
	return ok, err
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("please enter something")
	}
	return nil
}
