// Package catalog holds the static question catalogue: per-module template
// questions used by the fallback question path, and the standard question
// lists that size each module's progress budget.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/aiscribe/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Template is one catalogue question. FollowUp templates are asked after
// their parent, in declaration order.
type Template struct {
	Key      string     `yaml:"key"`
	Question string     `yaml:"question"`
	Options  []string   `yaml:"options"`
	Examples string     `yaml:"examples"`
	FollowUp []Template `yaml:"follow_up,omitempty"`
}

// ToQuestion renders the template as an issued question for module m.
func (t Template) ToQuestion(id string, m domain.Module) domain.Question {
	q := domain.Question{
		ID:       id,
		Module:   m,
		Category: t.Key,
		Question: t.Question,
		Options:  append([]string(nil), t.Options...),
	}
	if t.Examples != "" {
		q.Examples = []string{t.Examples}
	}
	return q
}

// ModuleEntry is the catalogue section for one elaboration module.
type ModuleEntry struct {
	Module            domain.Module `yaml:"module"`
	Name              string        `yaml:"name"`
	StandardQuestions []string      `yaml:"standard_questions"`
	Categories        []Template    `yaml:"categories"`
}

// Catalog is the parsed catalogue document.
type Catalog struct {
	Modules []ModuleEntry `yaml:"modules"`
	Closing Template      `yaml:"closing"`
}

// Load parses and validates a catalogue document.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing catalog: empty document")
		}
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if errs := Validate(&c); len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return &c, nil
}

// LoadFile reads a catalogue from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalogue compiled into the binary.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Entry returns the section for m, if the catalogue has one.
func (c *Catalog) Entry(m domain.Module) (ModuleEntry, bool) {
	if c == nil {
		return ModuleEntry{}, false
	}
	for _, e := range c.Modules {
		if e.Module == m {
			return e, true
		}
	}
	return ModuleEntry{}, false
}

// StandardQuestions returns a copy of the standard question list for m.
func (c *Catalog) StandardQuestions(m domain.Module) []string {
	e, ok := c.Entry(m)
	if !ok {
		return nil
	}
	return append([]string(nil), e.StandardQuestions...)
}

// StandardQuestionMap returns standard questions for each of the given modules.
// Modules without an entry map to an empty list.
func (c *Catalog) StandardQuestionMap(modules []domain.Module) map[domain.Module][]string {
	out := make(map[domain.Module][]string, len(modules))
	for _, m := range modules {
		qs := c.StandardQuestions(m)
		if qs == nil {
			qs = []string{}
		}
		out[m] = qs
	}
	return out
}

// Templates returns every template for m, parents first and each parent's
// follow-ups directly after it.
func (c *Catalog) Templates(m domain.Module) []Template {
	e, ok := c.Entry(m)
	if !ok {
		return nil
	}
	var out []Template
	var walk func([]Template)
	walk = func(ts []Template) {
		for _, t := range ts {
			out = append(out, t)
			walk(t.FollowUp)
		}
	}
	walk(e.Categories)
	return out
}

// ClosingQuestion renders the generic closing question.
func (c *Catalog) ClosingQuestion(id string) domain.Question {
	q := c.Closing.ToQuestion(id, domain.ModuleGeneral)
	q.AdaptationReason = "All modules are complete"
	return q
}
