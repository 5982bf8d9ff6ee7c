package metadata

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

// MetaImageResolver finds the representative image declared in a page's
// meta tags: og:image first, then twitter:image.
type MetaImageResolver interface {
	FindImage(page string) (string, bool)
}

// NewMetaImageResolver returns the implementation named by kind
func NewMetaImageResolver(kind string) (MetaImageResolver, error) {
	switch kind {
	case "", "regex":
		return RegexResolver{}, nil
	case "html":
		return HTMLResolver{}, nil
	default:
		return nil, fmt.Errorf("unknown meta image resolver %q", kind)
	}
}

// quotedValue captures a non-empty double- or single-quoted attribute value.
// The closing quote must match the opening one.
const quotedValue = `(?:"([^"]+)"|'([^']+)')`

func metaPatterns(key string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(key)
	keyAttr := `(?:property|name)\s*=\s*["']` + quoted + `["']`
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)<meta[^>]+` + keyAttr + `[^>]*?content\s*=\s*` + quotedValue),
		regexp.MustCompile(`(?i)<meta[^>]+content\s*=\s*` + quotedValue + `[^>]*?` + keyAttr),
	}
}

var regexImagePatterns = append(metaPatterns("og:image"), metaPatterns("twitter:image")...)

// RegexResolver matches meta tags with regular expressions in both attribute
// orders.
type RegexResolver struct{}

// FindImage implements MetaImageResolver
func (RegexResolver) FindImage(page string) (string, bool) {
	for _, pattern := range regexImagePatterns {
		if m := pattern.FindStringSubmatch(page); m != nil {
			value := m[1]
			if value == "" {
				value = m[2]
			}
			if image := strings.TrimSpace(html.UnescapeString(value)); image != "" {
				return image, true
			}
		}
	}
	return "", false
}

// HTMLResolver tokenizes the page with golang.org/x/net/html
type HTMLResolver struct{}

// FindImage implements MetaImageResolver
func (HTMLResolver) FindImage(page string) (string, bool) {
	var twitter string

	z := xhtml.NewTokenizer(strings.NewReader(page))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return twitter, twitter != ""
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "meta" || !hasAttr {
				continue
			}

			var key, content string
			for {
				attr, val, more := z.TagAttr()
				switch strings.ToLower(string(attr)) {
				case "property", "name":
					key = strings.ToLower(strings.TrimSpace(string(val)))
				case "content":
					content = strings.TrimSpace(string(val))
				}
				if !more {
					break
				}
			}

			if content == "" {
				continue
			}
			if key == "og:image" {
				return content, true
			}
			if key == "twitter:image" && twitter == "" {
				twitter = content
			}
		}
	}
}
