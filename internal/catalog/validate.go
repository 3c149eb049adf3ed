package catalog

import "fmt"

// Validate checks a Catalog for structural errors.
// Returns a slice of errors (empty if valid).
func Validate(c *Catalog) []error {
	var errs []error

	seen := map[string]bool{}
	for i, e := range c.Modules {
		if !e.Module.IsElaboration() {
			errs = append(errs, fmt.Errorf("modules[%d]: unknown module %q", i, e.Module))
		}
		if seen[string(e.Module)] {
			errs = append(errs, fmt.Errorf("modules[%d]: duplicate module %q", i, e.Module))
		}
		seen[string(e.Module)] = true

		keys := map[string]bool{}
		errs = append(errs, validateTemplates(fmt.Sprintf("modules[%d]", i), e.Categories, keys)...)
	}

	if c.Closing.Question == "" {
		errs = append(errs, fmt.Errorf("closing: question is required"))
	}

	return errs
}

func validateTemplates(path string, ts []Template, keys map[string]bool) []error {
	var errs []error
	for i, t := range ts {
		at := fmt.Sprintf("%s.categories[%d]", path, i)
		if t.Key == "" {
			errs = append(errs, fmt.Errorf("%s: key is required", at))
		} else if keys[t.Key] {
			errs = append(errs, fmt.Errorf("%s: duplicate key %q", at, t.Key))
		}
		keys[t.Key] = true
		if t.Question == "" {
			errs = append(errs, fmt.Errorf("%s: question is required", at))
		}
		if len(t.Options) == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one option is required", at))
		}
		errs = append(errs, validateTemplates(at, t.FollowUp, keys)...)
	}
	return errs
}
