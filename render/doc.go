// Package render writes aggregated ontology elements through a user template.
//
// # Formats
//
// Four output formats are supported:
//
//   - html: html/template with contextual escaping
//   - text: text/template, values written verbatim
//   - markdown: the html rendering converted to GitHub flavored Markdown,
//     headed by YAML front matter when the page has a title
//   - handlebars: a Handlebars template executed against a camelCase
//     context ({{#each classes}}...{{/each}}); partials are included by
//     file name without extension ({{> class}})
//
// # Templates
//
// The template receives a Data value. Classes holds one ClassElement per OWL
// class, each with its own statements (Elements) and its properties:
//
//	{{range .Classes}}
//	  <h2>{{.Label | titleize}}</h2>
//	  {{range .Properties}}<li>{{humanize .Label}}</li>{{end}}
//	{{end}}
//
// Partial templates matched by a doublestar glob (for example
// "templates/**/*.tmpl") are parsed alongside the main template and can be
// invoked by file name: {{template "class.tmpl" .}}.
//
// # Functions
//
//   - humanize: "birthDate" becomes "Birth date"
//   - titleize: "birth date" becomes "Birth Date"
package render
