package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/c360studio/ontodoc/aggregate"
	"github.com/c360studio/ontodoc/errs"
	"github.com/c360studio/ontodoc/ontology"
)

// handlebarsTemplate runs a Handlebars template against the camelCase
// context Handlebars templates are written for:
//
//	{{#each classes}}<h2>{{titleize label}}</h2>{{/each}}
type handlebarsTemplate struct {
	tpl *raymond.Template
}

func parseHandlebars(file, content string, partials []string) (*handlebarsTemplate, error) {
	tpl, err := raymond.Parse(content)
	if err != nil {
		return nil, errs.Parse("parse template", file, err)
	}

	tpl.RegisterHelpers(Funcs())

	seen := make(map[string]string, len(partials))
	for _, path := range partials {
		name := partialName(path)
		if other, ok := seen[name]; ok {
			return nil, errs.Validation("render",
				fmt.Errorf("partials %s and %s share the name %q", other, path, name))
		}
		seen[name] = path

		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read partial: %w", err)
		}
		tpl.RegisterPartial(name, string(source))
	}

	return &handlebarsTemplate{tpl: tpl}, nil
}

// partialName is the file name without its extension: partials/class.hbs
// is included as {{> class}}.
func partialName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (h *handlebarsTemplate) Execute(w io.Writer, data any) error {
	ctx := data
	if d, ok := data.(Data); ok {
		ctx = handlebarsContext(d)
	}

	out, err := h.tpl.Exec(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func handlebarsContext(d Data) map[string]any {
	classes := make([]map[string]any, len(d.Classes))
	for i, c := range d.Classes {
		class := elementContext(c.Element)

		properties := make([]map[string]any, len(c.Properties))
		for j, p := range c.Properties {
			properties[j] = elementContext(p)
		}
		class["properties"] = properties
		classes[i] = class
	}

	return map[string]any{
		"classes":     classes,
		"ontologyUrl": d.OntologyURL,
		"runId":       d.RunID,
	}
}

func elementContext(e aggregate.Element) map[string]any {
	children := make([]map[string]any, len(e.Elements))
	for i, c := range e.Elements {
		children[i] = map[string]any{
			"labelUri": c.LabelURI,
			"label":    c.Label,
			"language": c.Language,
			"value":    c.Value,
		}
	}

	return map[string]any{
		"quad": map[string]any{
			"subject":   termContext(e.Triple.Subject),
			"predicate": termContext(e.Triple.Predicate),
			"object":    termContext(e.Triple.Object),
		},
		"subject":  e.Subject,
		"label":    e.Label,
		"elements": children,
	}
}

func termContext(t ontology.Term) map[string]any {
	termType := "NamedNode"
	switch t.Kind {
	case ontology.KindBlank:
		termType = "BlankNode"
	case ontology.KindLiteral:
		termType = "Literal"
	}
	return map[string]any{
		"termType": termType,
		"value":    t.Value,
		"language": t.Language,
		"datatype": t.Datatype,
	}
}
