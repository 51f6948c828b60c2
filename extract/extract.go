// Package extract discovers profile-picture URL candidates in a rendered
// page and selects the highest-resolution one.
package extract

import (
	"encoding/json"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/neilthomass/instaPFP/models"
)

// ProfileImageSelector matches the profile <img> element the mobile page
// renders. Exported because the page loader waits on the same marker.
const ProfileImageSelector = `img[alt*='profile picture'], img[alt*='profile photo']`

var profileImageMatcher = cascadia.MustCompile(ProfileImageSelector)

// JSON field names known to carry HD profile-picture URLs in the page's
// inline script data.
var (
	reHDPicURL   = regexp.MustCompile(`"profile_pic_url_hd"\s*:\s*"(https:[^"\\]+)"`)
	reHDVersions = regexp.MustCompile(`"hd_profile_pic_versions"\s*:\s*(\[[^\]]+\])`)
	reHDURLInfo  = regexp.MustCompile(`"hd_profile_pic_url_info"\s*:\s*\{[^}]*?"url"\s*:\s*"(https:[^"\\]+)"`)
)

// Candidates scans rendered page HTML for profile-picture URL candidates.
// Two independent scans always run, even when the first already yields
// results: the image-element attribute scan and the embedded-JSON scan.
// Candidates are deduplicated by exact URL, keeping the richer size
// metadata when a URL shows up in both.
//
// Zero candidates after both scans is an EXTRACTION_FAILED error.
func Candidates(pageHTML string) ([]models.ImageCandidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, models.NewFetchError(models.ErrCodeExtraction, "failed to parse page HTML", err)
	}

	set := &candidateSet{index: map[string]int{}}
	scanAttributes(doc, set)
	scanEmbeddedJSON(doc, set)

	if len(set.items) == 0 {
		return nil, models.NewFetchError(models.ErrCodeExtraction, "no image candidates found after both scans", nil)
	}
	return set.items, nil
}

// candidateSet keeps candidates in discovery order, deduplicated by URL.
type candidateSet struct {
	items []models.ImageCandidate
	index map[string]int
}

func (s *candidateSet) add(c models.ImageCandidate) {
	c.URL = strings.TrimSpace(c.URL)
	if c.URL == "" {
		return
	}
	if i, ok := s.index[c.URL]; ok {
		// Same URL from both scans: merge, keeping whichever size
		// metadata is present. The first discovery keeps its source.
		if s.items[i].Width == 0 && c.Width > 0 {
			s.items[i].Width = c.Width
		}
		if s.items[i].Height == 0 && c.Height > 0 {
			s.items[i].Height = c.Height
		}
		return
	}
	s.index[c.URL] = len(s.items)
	s.items = append(s.items, c)
}

// scanAttributes collects candidates from profile-image elements' srcset
// descriptor pairs and bare src attributes.
func scanAttributes(doc *goquery.Document, set *candidateSet) {
	doc.FindMatcher(profileImageMatcher).Each(func(_ int, sel *goquery.Selection) {
		if srcset, ok := sel.Attr("srcset"); ok {
			for _, c := range parseSrcset(srcset) {
				set.add(c)
			}
		}
		if src, ok := sel.Attr("src"); ok {
			set.add(models.ImageCandidate{URL: src, Source: models.SourceSrcset})
		}
	})
}

// parseSrcset splits a srcset attribute into (url, width) candidates.
// Entries carry "<url> <N>w" pairs; density descriptors ("2x") and bare
// URLs yield candidates without an explicit width.
func parseSrcset(srcset string) []models.ImageCandidate {
	var out []models.ImageCandidate
	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		c := models.ImageCandidate{URL: fields[0], Source: models.SourceSrcset}
		if len(fields) > 1 {
			if desc := fields[1]; strings.HasSuffix(desc, "w") {
				if w, err := strconv.Atoi(strings.TrimSuffix(desc, "w")); err == nil {
					c.Width = w
				}
			}
		}
		out = append(out, c)
	}
	return out
}

// scanEmbeddedJSON walks every inline script on the page. Scripts that are
// valid JSON are walked recursively for the known HD profile-picture keys;
// anything else is salvaged by regex over the unescaped script text, which
// is how JSON fragments inside JS assignments are still found.
//
// JSON-sourced candidates carry no explicit size: they are the canonical HD
// variants by policy, not by measurement.
func scanEmbeddedJSON(doc *goquery.Document, set *candidateSet) {
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		if json.Valid([]byte(text)) {
			var v any
			if err := json.Unmarshal([]byte(text), &v); err == nil {
				walkJSON(v, set)
				return
			}
		}
		salvageScript(html.UnescapeString(text), set)
	})
}

// walkJSON recursively searches arbitrary JSON shapes for the HD
// profile-picture field names. Keys are visited in sorted order so
// discovery order (the ranking tie-break) stays deterministic.
func walkJSON(v any, set *candidateSet) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			val := t[k]
			switch k {
			case "profile_pic_url_hd":
				if s, ok := val.(string); ok {
					set.add(models.ImageCandidate{URL: s, Source: models.SourceEmbeddedJSON})
				}
			case "hd_profile_pic_versions":
				if arr, ok := val.([]any); ok {
					for _, item := range arr {
						if m, ok := item.(map[string]any); ok {
							if s, ok := m["url"].(string); ok {
								set.add(models.ImageCandidate{URL: s, Source: models.SourceEmbeddedJSON})
							}
						}
					}
				}
			case "hd_profile_pic_url_info":
				if m, ok := val.(map[string]any); ok {
					if s, ok := m["url"].(string); ok {
						set.add(models.ImageCandidate{URL: s, Source: models.SourceEmbeddedJSON})
					}
				}
			default:
				walkJSON(val, set)
			}
		}
	case []any:
		for _, item := range t {
			walkJSON(item, set)
		}
	}
}

// salvageScript extracts HD URLs from script text that is not pure JSON.
func salvageScript(text string, set *candidateSet) {
	for _, m := range reHDPicURL.FindAllStringSubmatch(text, -1) {
		set.add(models.ImageCandidate{URL: m[1], Source: models.SourceEmbeddedJSON})
	}
	for _, m := range reHDVersions.FindAllStringSubmatch(text, -1) {
		var versions []struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal([]byte(m[1]), &versions); err != nil {
			continue
		}
		for _, v := range versions {
			set.add(models.ImageCandidate{URL: v.URL, Source: models.SourceEmbeddedJSON})
		}
	}
	for _, m := range reHDURLInfo.FindAllStringSubmatch(text, -1) {
		set.add(models.ImageCandidate{URL: m[1], Source: models.SourceEmbeddedJSON})
	}
}
