// Package normalize turns the loosely shaped image and amenity payloads stored
// on listings into the fixed shapes the API serves.
package normalize

import (
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chalethaven/models"
)

// SourceKind tags the shape an image payload arrived in.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceString
	SourceList
	SourceObject
	SourceMap
)

func (k SourceKind) String() string {
	switch k {
	case SourceString:
		return "string"
	case SourceList:
		return "list"
	case SourceObject:
		return "object"
	case SourceMap:
		return "map"
	}
	return "none"
}

// Entry is one image candidate found in a payload.
type Entry struct {
	URL  string
	Alt  string
	Hero bool
}

// Group is a named gallery section of a keyed image map, e.g. "interior".
type Group struct {
	Name    string
	Entries []Entry
}

// ImageSource is the classified form of a raw image payload. Only the fields
// matching Kind are set.
type ImageSource struct {
	Kind SourceKind

	URL     string  // SourceString
	Entries []Entry // SourceList

	// SourceObject: an explicit {hero, gallery} pair or a single image.
	Hero    *Entry
	Gallery []Entry

	Groups []Group // SourceMap, sorted by name
}

var urlKeys = []string{"url", "secure_url", "secureUrl", "src"}

// ParseImages classifies raw, which may come from JSON (map[string]any,
// []any) or BSON (primitive.D, primitive.A, primitive.M) decoding.
func ParseImages(raw any) ImageSource {
	switch v := raw.(type) {
	case nil:
		return ImageSource{Kind: SourceNone}
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return ImageSource{Kind: SourceString, URL: s}
		}
		return ImageSource{Kind: SourceNone}
	case models.ImageSet:
		return fromImageSet(v)
	case *models.ImageSet:
		if v == nil {
			return ImageSource{Kind: SourceNone}
		}
		return fromImageSet(*v)
	case models.Image:
		if v.URL == "" {
			return ImageSource{Kind: SourceNone}
		}
		e := Entry{URL: v.URL, Alt: v.Alt}
		return ImageSource{Kind: SourceObject, Hero: &e, Gallery: []Entry{e}}
	case []models.Image:
		entries := make([]Entry, 0, len(v))
		for _, img := range v {
			if img.URL != "" {
				entries = append(entries, Entry{URL: img.URL, Alt: img.Alt})
			}
		}
		return listSource(entries)
	}

	if list, ok := asList(raw); ok {
		return listSource(parseEntries(list))
	}
	obj, ok := asObject(raw)
	if !ok {
		return ImageSource{Kind: SourceNone}
	}

	if isHeroGalleryPair(obj) {
		src := ImageSource{Kind: SourceObject}
		if h := firstEntry(obj["hero"]); h != nil {
			src.Hero = h
		}
		if list, ok := asList(obj["gallery"]); ok {
			src.Gallery = parseEntries(list)
		}
		if src.Hero == nil && len(src.Gallery) == 0 {
			return ImageSource{Kind: SourceNone}
		}
		return src
	}
	if e, ok := parseEntry(obj); ok {
		return ImageSource{Kind: SourceObject, Hero: &e, Gallery: []Entry{e}}
	}

	names := make([]string, 0, len(obj))
	for k := range obj {
		names = append(names, k)
	}
	sort.Strings(names)
	var groups []Group
	for _, name := range names {
		var entries []Entry
		if list, ok := asList(obj[name]); ok {
			entries = parseEntries(list)
		} else if e := firstEntry(obj[name]); e != nil {
			entries = []Entry{*e}
		}
		if name == "hero" {
			for i := range entries {
				entries[i].Hero = true
			}
		}
		if len(entries) > 0 {
			groups = append(groups, Group{Name: name, Entries: entries})
		}
	}
	if len(groups) == 0 {
		return ImageSource{Kind: SourceNone}
	}
	return ImageSource{Kind: SourceMap, Groups: groups}
}

// Images converts a classified payload into a hero and gallery. It never
// fails: a payload with no usable image yields a nil hero and an empty gallery.
func Images(src ImageSource) models.ImageSet {
	set := models.ImageSet{Gallery: []models.Image{}}

	switch src.Kind {
	case SourceNone:
		return set
	case SourceString:
		img := models.Image{URL: src.URL}
		set.Hero = &img
		set.Gallery = append(set.Gallery, img)
	case SourceList:
		set.Hero = pickHero(src.Entries)
		set.Gallery = appendImages(set.Gallery, src.Entries)
	case SourceObject:
		if src.Hero != nil {
			h := toImage(*src.Hero)
			set.Hero = &h
		} else {
			set.Hero = pickHero(src.Gallery)
		}
		set.Gallery = appendImages(set.Gallery, src.Gallery)
	case SourceMap:
		var all []Entry
		for _, g := range src.Groups {
			all = append(all, g.Entries...)
		}
		set.Hero = pickHero(all)
		set.Gallery = appendImages(set.Gallery, all)
	}
	return set
}

// NormalizeImages is ParseImages followed by Images.
func NormalizeImages(raw any) models.ImageSet {
	return Images(ParseImages(raw))
}

// NormalizeImage reads a single picture. A value that is already an
// {url, alt} image comes back unchanged.
func NormalizeImage(raw any) *models.Image {
	e := firstEntry(raw)
	if e == nil {
		return nil
	}
	img := toImage(*e)
	return &img
}

func fromImageSet(s models.ImageSet) ImageSource {
	src := ImageSource{Kind: SourceObject}
	if s.Hero != nil && s.Hero.URL != "" {
		src.Hero = &Entry{URL: s.Hero.URL, Alt: s.Hero.Alt}
	}
	for _, img := range s.Gallery {
		if img.URL != "" {
			src.Gallery = append(src.Gallery, Entry{URL: img.URL, Alt: img.Alt})
		}
	}
	if src.Hero == nil && len(src.Gallery) == 0 {
		return ImageSource{Kind: SourceNone}
	}
	return src
}

// isHeroGalleryPair reports whether obj is {hero, gallery} with at most one
// hero image. Any other key, or a hero list, makes it a keyed section map.
func isHeroGalleryPair(obj map[string]any) bool {
	hero, hasHero := obj["hero"]
	_, hasGallery := obj["gallery"]
	if !hasHero && !hasGallery {
		return false
	}
	for k := range obj {
		if k != "hero" && k != "gallery" {
			return false
		}
	}
	if _, flag := hero.(bool); flag {
		return false
	}
	if _, list := asList(hero); list {
		return false
	}
	return true
}

func listSource(entries []Entry) ImageSource {
	if len(entries) == 0 {
		return ImageSource{Kind: SourceNone}
	}
	return ImageSource{Kind: SourceList, Entries: entries}
}

// pickHero prefers a flagged entry, then the first one.
func pickHero(entries []Entry) *models.Image {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if e.Hero {
			img := toImage(e)
			return &img
		}
	}
	img := toImage(entries[0])
	return &img
}

func appendImages(dst []models.Image, entries []Entry) []models.Image {
	for _, e := range entries {
		dst = append(dst, toImage(e))
	}
	return dst
}

func toImage(e Entry) models.Image {
	return models.Image{URL: e.URL, Alt: e.Alt}
}

func parseEntries(list []any) []Entry {
	entries := make([]Entry, 0, len(list))
	for _, item := range list {
		if e := firstEntry(item); e != nil {
			entries = append(entries, *e)
		}
	}
	return entries
}

// firstEntry reads a single image from a string or an object.
func firstEntry(raw any) *Entry {
	if s, ok := raw.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return &Entry{URL: s}
		}
		return nil
	}
	if img, ok := raw.(models.Image); ok && img.URL != "" {
		return &Entry{URL: img.URL, Alt: img.Alt}
	}
	obj, ok := asObject(raw)
	if !ok {
		return nil
	}
	if e, ok := parseEntry(obj); ok {
		return &e
	}
	return nil
}

func parseEntry(obj map[string]any) (Entry, bool) {
	var e Entry
	for _, k := range urlKeys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			e.URL = strings.TrimSpace(s)
			break
		}
	}
	if e.URL == "" {
		return e, false
	}
	for _, k := range []string{"alt", "caption", "title"} {
		if s, ok := obj[k].(string); ok && s != "" {
			e.Alt = s
			break
		}
	}
	e.Hero = truthy(obj["isHero"]) || truthy(obj["hero"])
	return e, true
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case primitive.A:
		return []any(v), true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func asObject(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case primitive.M:
		return map[string]any(v), true
	case primitive.D:
		return v.Map(), true
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}
