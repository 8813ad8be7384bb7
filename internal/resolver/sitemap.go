package resolver

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// urlSet mirrors the <urlset> form of the sitemap protocol.
type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapIndex mirrors the <sitemapindex> form. Its entries locate
// further sitemap files, never pages, so the resolver must descend
// into them rather than emit them as fetch targets.
type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Sitemaps []sitemapURL `xml:"sitemap"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// parseSitemap extracts every <loc> entry from sitemap XML in document
// order. nested reports whether the root was a <sitemapindex>, in
// which case the entries are child sitemaps rather than pages.
// Anything other than the two protocol roots is a malformed sitemap.
func parseSitemap(data []byte) (locs []string, nested bool, err error) {
	var set urlSet
	if err := xml.Unmarshal(data, &set); err == nil && set.XMLName.Local == "urlset" {
		return collectLocs(set.URLs), false, nil
	}

	var index sitemapIndex
	if err := xml.Unmarshal(data, &index); err == nil && index.XMLName.Local == "sitemapindex" {
		return collectLocs(index.Sitemaps), true, nil
	}

	return nil, false, fmt.Errorf("not a well-formed sitemap")
}

func collectLocs(urls []sitemapURL) []string {
	locs := make([]string, 0, len(urls))
	for _, u := range urls {
		locs = append(locs, strings.TrimSpace(u.Loc))
	}
	return locs
}
