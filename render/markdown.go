package render

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

// markdownConverter turns rendered HTML into Markdown.
type markdownConverter struct {
	converter *md.Converter
}

func newMarkdownConverter() *markdownConverter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &markdownConverter{converter: converter}
}

func (c *markdownConverter) Convert(htmlContent string) (string, error) {
	markdown, err := c.converter.ConvertString(htmlContent)
	if err != nil {
		return "", err
	}
	return cleanMarkdown(markdown), nil
}

// extractHTMLTitle returns the text of the first <title> element, falling
// back to the first <h1>.
func extractHTMLTitle(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}

	if title := firstText(doc, "title"); title != "" {
		return title
	}
	return firstText(doc, "h1")
}

func firstText(n *html.Node, tag string) string {
	if n.Type == html.ElementNode && n.Data == tag {
		return strings.TrimSpace(textContent(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := firstText(c, tag); text != "" {
			return text
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

type frontMatterFields struct {
	Title  string `yaml:"title"`
	Source string `yaml:"source,omitempty"`
}

// frontMatter returns a YAML front matter block carrying the document title,
// or "" when the rendered HTML has no title.
func frontMatter(title, source string) (string, error) {
	if title == "" {
		return "", nil
	}
	out, err := yaml.Marshal(frontMatterFields{Title: title, Source: source})
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}
	return "---\n" + string(out) + "---\n\n", nil
}

// cleanMarkdown collapses runs of blank lines and trailing whitespace.
func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}
