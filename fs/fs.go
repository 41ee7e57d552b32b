// Package fs writes extraction results to files.
package fs

import (
	"net/url"
	"regexp"
	"strings"
)

// FilePrefix starts the name of every exported file.
const FilePrefix = "scraped_data_"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName returns the export file name for a page URL, e.g.
// https://example.com/shop/items → scraped_data_example.com_shop_items.txt
func FileName(rawURL, ext string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		name = u.Host + u.EscapedPath()
		if u.RawQuery != "" {
			name += "_" + u.RawQuery
		}
	}
	name = strings.Trim(unsafeChars.ReplaceAllString(strings.ReplaceAll(name, "/", "_"), "_"), "_.")
	if name == "" {
		name = "page"
	}
	return FilePrefix + name + "." + ext
}
