package enrich

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads the document head. Titles and descriptions prefer og:*, then
// twitter:*, then <title> and meta description; the image prefers og:image
// then twitter:image and is resolved against base.
func Parse(r io.Reader, base *url.URL) Metadata {
	tags := map[string]string{}
	var title strings.Builder
	inTitle, haveTitle := false, false

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return pick(tags, title.String(), base)

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Meta:
				readMeta(tok, tags)
			case atom.Title:
				inTitle = !haveTitle
			case atom.Body:
				return pick(tags, title.String(), base)
			}

		case html.EndTagToken:
			if z.Token().DataAtom == atom.Title && inTitle {
				inTitle, haveTitle = false, true
			}

		case html.TextToken:
			if inTitle {
				title.Write(z.Text())
			}
		}
	}
}

func readMeta(tok html.Token, tags map[string]string) {
	var key, content string
	for _, a := range tok.Attr {
		switch strings.ToLower(a.Key) {
		case "property", "name":
			if key == "" {
				key = strings.ToLower(strings.TrimSpace(a.Val))
			}
		case "content":
			content = a.Val
		}
	}
	if key == "" || strings.TrimSpace(content) == "" {
		return
	}
	if _, seen := tags[key]; !seen {
		tags[key] = content
	}
}

func pick(tags map[string]string, pageTitle string, base *url.URL) Metadata {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(tags[k]); v != "" {
				return v
			}
		}
		return ""
	}

	md := Metadata{
		Title:       first("og:title", "twitter:title"),
		Description: first("og:description", "twitter:description", "description"),
		ImageURL:    first("og:image", "og:image:url", "twitter:image", "twitter:image:src"),
	}
	if md.Title == "" {
		md.Title = strings.TrimSpace(pageTitle)
	}
	if md.ImageURL != "" && base != nil {
		if ref, err := url.Parse(md.ImageURL); err == nil {
			md.ImageURL = base.ResolveReference(ref).String()
		}
	}
	return md
}
