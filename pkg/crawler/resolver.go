package crawler

import (
	"net/url"
	"sort"
	"strings"
)

// Resolve turns hrefs into absolute URLs and keeps those inside the base site.
//
// A link is kept when its host (including port) equals the base host and its
// resolved string starts with base. The prefix test is textual, so
// "https://site.com/page" is rejected for base "https://site.com/page/".
// Resolved links are percent-escaped, so base is compared in its escaped form
// as well as verbatim.
// The result is deduplicated and sorted.
func Resolve(base string, hrefs []string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	escapedBase := baseURL.String()
	set := make(map[string]struct{})
	for _, href := range hrefs {
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := baseURL.ResolveReference(ref)
		abs := resolved.String()
		if resolved.Host != baseURL.Host {
			continue
		}
		if !strings.HasPrefix(abs, escapedBase) && !strings.HasPrefix(abs, base) {
			continue
		}
		set[abs] = struct{}{}
	}

	links := make([]string, 0, len(set))
	for l := range set {
		links = append(links, l)
	}
	sort.Strings(links)
	return links
}
