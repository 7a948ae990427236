package evidence

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var (
	scriptRe         = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	excessiveLinesRe = regexp.MustCompile(`\n{3,}`)
)

// chromeTags never carry evidence.
var chromeTags = map[string]bool{
	"nav": true, "header": true, "footer": true, "aside": true,
	"script": true, "style": true, "noscript": true, "iframe": true,
	"form": true, "button": true, "svg": true,
}

// chromeClasses mark navigation and boilerplate blocks.
var chromeClasses = map[string]bool{
	"nav": true, "navbar": true, "sidebar": true, "menu": true, "toc": true,
	"breadcrumb": true, "cookie-banner": true, "footer": true, "header": true,
}

// HTMLConverter converts HTML evidence to markdown.
type HTMLConverter struct {
	converter *md.Converter
}

// NewHTMLConverter creates a converter with GitHub-flavored output so tables
// in policy documents survive conversion.
func NewHTMLConverter() *HTMLConverter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &HTMLConverter{converter: converter}
}

// Convert extracts the title and main content of an HTML document and
// returns it as markdown.
func (c *HTMLConverter) Convert(content []byte) (title, markdown string, err error) {
	body := string(content)

	doc, parseErr := html.Parse(bytes.NewReader(content))
	if parseErr == nil {
		title = documentTitle(doc)
		body = mainContent(doc)
	} else {
		body = scriptRe.ReplaceAllString(body, "")
	}

	markdown, err = c.converter.ConvertString(body)
	if err != nil {
		return "", "", fmt.Errorf("convert html: %w", err)
	}
	markdown = tidy(markdown)

	if title == "" {
		title = firstHeading(markdown)
	}
	return title, markdown, nil
}

func documentTitle(doc *html.Node) string {
	if n := find(doc, func(n *html.Node) bool { return n.Data == "title" }); n != nil && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	return ""
}

// mainContent prefers <main>, <article> or role=main; otherwise it strips
// page chrome from <body>.
func mainContent(doc *html.Node) string {
	for _, match := range []func(*html.Node) bool{
		func(n *html.Node) bool { return n.Data == "main" },
		func(n *html.Node) bool { return n.Data == "article" },
		func(n *html.Node) bool { return attr(n, "role") == "main" },
	} {
		if n := find(doc, match); n != nil {
			prune(n)
			return render(n)
		}
	}

	prune(doc)
	if body := find(doc, func(n *html.Node) bool { return n.Data == "body" }); body != nil {
		return render(body)
	}
	return render(doc)
}

// find returns the first element in document order satisfying match.
func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// prune removes chrome elements beneath n.
func prune(n *html.Node) {
	var doomed []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node != n && isChrome(node) {
			doomed = append(doomed, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	for _, node := range doomed {
		node.Parent.RemoveChild(node)
	}
}

func isChrome(n *html.Node) bool {
	if chromeTags[n.Data] {
		return true
	}
	for _, class := range strings.Fields(strings.ToLower(attr(n, "class"))) {
		if chromeClasses[class] {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func render(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

func tidy(markdown string) string {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	markdown = strings.Join(lines, "\n")
	markdown = excessiveLinesRe.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}

func firstHeading(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
