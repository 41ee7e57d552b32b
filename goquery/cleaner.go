package goquery

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webextract"
	"golang.org/x/net/html"
)

var _ webextract.Cleaner = (*Cleaner)(nil)

// Marker formats written into cleaned text in place of images and links.
const (
	ImageMarker = "IMAGE_ASSET: %s | Source: %s"
	LinkMarker  = "[HYPERLINK: %s -> %s]"
	TitlePrefix = "PAGE TITLE: "

	// NoTitle is used when the page has no <title>.
	NoTitle = "No title found"

	// NoLinkText stands in for links without visible text.
	NoLinkText = "NO_TEXT"
)

// nonContent lists elements whose text never reaches the cleaned output.
const nonContent = "script, style, noscript, template, iframe, svg, head"

// Cleaner reduces rendered HTML to plain text, one text node per line.
// Images become IMAGE_ASSET markers and links become HYPERLINK markers so
// the model can still report them. Relative URLs are resolved against the
// page URL. The output starts with the page title.
type Cleaner struct{}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean returns the page text, or an empty string when the body holds no
// text at all.
func (c *Cleaner) Clean(rawHTML, pageURL string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = NoTitle
	}

	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		base = nil
	}

	body := doc.Find("body").First()
	body.Find(nonContent).Remove()
	for _, n := range body.Nodes {
		removeComments(n)
	}

	// Images go first so that images nested in links survive as markers
	// inside the link text.
	body.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		alt, _ := img.Attr("alt")
		img.ReplaceWithNodes(textNode(fmt.Sprintf(ImageMarker, strings.TrimSpace(alt), resolve(base, src))))
	})

	body.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := strings.Join(strings.Fields(a.Text()), " ")
		if text == "" {
			text = NoLinkText
		}
		a.ReplaceWithNodes(textNode(fmt.Sprintf(LinkMarker, text, resolve(base, href))))
	})

	var lines []string
	for _, n := range body.Nodes {
		lines = collectLines(n, lines)
	}
	if len(lines) == 0 {
		return ""
	}

	return TitlePrefix + title + "\n\n" + strings.Join(lines, "\n")
}

// collectLines appends the trimmed, non-empty lines of every text node
// under n in document order.
func collectLines(n *html.Node, lines []string) []string {
	if n.Type == html.TextNode {
		for line := range strings.SplitSeq(n.Data, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		return lines
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		lines = collectLines(child, lines)
	}
	return lines
}

func removeComments(n *html.Node) {
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		if child.Type == html.CommentNode {
			n.RemoveChild(child)
		} else {
			removeComments(child)
		}
		child = next
	}
}

// resolve returns ref as an absolute URL when base is known. Unparseable
// references are returned unchanged.
func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
