package prompt

import (
	"fmt"
	"strings"
)

// Template is a versioned prompt with named {placeholder} slots. Literal
// substitution only; the evaluation rubric embeds raw JSON braces, so a
// real templating engine would need escaping everywhere for no benefit.
type Template struct {
	Name         string
	Version      int
	Text         string
	Placeholders []string
}

// Validate reports the first placeholder missing from the template text.
func (t Template) Validate() error {
	for _, name := range t.Placeholders {
		if !strings.Contains(t.Text, "{"+name+"}") {
			return fmt.Errorf("template %s v%d: placeholder {%s} missing", t.Name, t.Version, name)
		}
	}
	return nil
}

// Render substitutes every placeholder. Unknown keys in vars are ignored;
// declared placeholders absent from vars render as empty strings.
func (t Template) Render(vars map[string]string) string {
	out := t.Text
	for _, name := range t.Placeholders {
		out = strings.ReplaceAll(out, "{"+name+"}", vars[name])
	}
	return out
}

func mustTemplate(name string, version int, text string, placeholders ...string) Template {
	t := Template{
		Name:         name,
		Version:      version,
		Text:         text,
		Placeholders: placeholders,
	}
	if err := t.Validate(); err != nil {
		panic(err)
	}
	return t
}
