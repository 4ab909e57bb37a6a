package prompt

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrMissingInput is returned when a template is formatted without one of its
// declared input variables.
var ErrMissingInput = errors.New("missing template input")

// Prompt is a rendered template split into the system instructions and the
// user turn.
type Prompt struct {
	System string
	User   string
}

// String joins both parts the way a single-message backend would see them
func (p Prompt) String() string {
	if p.System == "" {
		return p.User
	}
	return p.System + "\n\n" + p.User
}

// Template is a fixed prompt text with named placeholders.
type Template struct {
	name   string
	inputs []string
	system *template.Template
	user   *template.Template
}

// New parses a single-part template. Placeholders are written as {{.name}}
// and every placeholder must be listed in inputs. It panics on a malformed
// template, since templates are package-level constants.
func New(name, text string, inputs ...string) *Template {
	return &Template{
		name:   name,
		inputs: inputs,
		user:   parse(name, text),
	}
}

// NewChat parses a template with separate system and user parts. inputs
// covers the placeholders of both.
func NewChat(name, system, user string, inputs ...string) *Template {
	return &Template{
		name:   name,
		inputs: inputs,
		system: parse(name+".system", system),
		user:   parse(name+".user", user),
	}
}

func parse(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

// Name returns the template name
func (t *Template) Name() string {
	return t.name
}

// InputVariables returns the declared input variable names
func (t *Template) InputVariables() []string {
	out := make([]string, len(t.inputs))
	copy(out, t.inputs)
	return out
}

// Render substitutes values into both parts. Extra values are ignored.
func (t *Template) Render(values map[string]string) (Prompt, error) {
	var missing []string
	for _, name := range t.inputs {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Prompt{}, fmt.Errorf("%w: %s requires %s", ErrMissingInput, t.name, strings.Join(missing, ", "))
	}

	var p Prompt
	if t.system != nil {
		system, err := execute(t.system, values)
		if err != nil {
			return Prompt{}, fmt.Errorf("failed to format %s prompt: %w", t.name, err)
		}
		p.System = system
	}

	user, err := execute(t.user, values)
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to format %s prompt: %w", t.name, err)
	}
	p.User = user
	return p, nil
}

func execute(tmpl *template.Template, values map[string]string) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, values); err != nil {
		return "", err
	}
	return sb.String(), nil
}
