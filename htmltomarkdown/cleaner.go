package htmltomarkdown

import (
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/webextract"
)

// Ensure Cleaner implements webextract.Cleaner at compile time.
var _ webextract.Cleaner = (*Cleaner)(nil)

// Cleaner converts rendered HTML to Markdown. Tables, lists and links keep
// their structure, which helps the model with tabular pages.
type Cleaner struct {
	conv *converter.Converter
}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Cleaner{conv: conv}
}

// Clean returns the page as Markdown with links and images resolved
// against pageURL. Conversion failures yield an empty string.
func (c *Cleaner) Clean(rawHTML, pageURL string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}

	var (
		md  string
		err error
	)
	if domain := domainOf(pageURL); domain != "" {
		md, err = c.conv.ConvertString(rawHTML, converter.WithDomain(domain))
	} else {
		md, err = c.conv.ConvertString(rawHTML)
	}
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}

// domainOf returns the scheme and host of an absolute URL.
func domainOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
