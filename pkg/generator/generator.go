package generator

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"

	"github.com/lavagna-ai/lavagna/pkg/catalog"
)

// Generator renders the catalog's prompt templates with user-supplied
// parameters.
type Generator struct {
	catalog *catalog.Catalog
}

func NewGenerator(c *catalog.Catalog) *Generator {
	return &Generator{catalog: c}
}

// Render fills the named template with params. Every parameter the
// template declares must be present; missing parameters are an error
// rather than silently rendering empty sections.
func (g *Generator) Render(templateID string, params map[string]interface{}) (string, error) {
	tmpl, ok := g.catalog.GetTemplate(templateID)
	if !ok {
		return "", errors.Errorf("unknown prompt template %q", templateID)
	}

	for _, p := range tmpl.Params {
		if _, ok := params[p]; !ok {
			return "", errors.Errorf("missing parameter %q for template %q", p, templateID)
		}
	}

	t, err := template.New(tmpl.ID).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(tmpl.Template)
	if err != nil {
		return "", errors.Wrapf(err, "parse template %q", templateID)
	}

	var sb strings.Builder
	if err := t.Execute(&sb, params); err != nil {
		return "", errors.Wrapf(err, "render template %q", templateID)
	}

	return sb.String(), nil
}
