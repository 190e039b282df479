package normalize

import (
	"sort"
	"strings"

	"chalethaven/models"
)

var labelKeys = []string{"label", "name", "title"}

// Amenities flattens a string, a list of strings or {label|name|title}
// objects, or a keyed map of lists or booleans into labels. Duplicates are
// dropped case-insensitively; first occurrence wins.
func Amenities(raw any) []models.Amenity {
	out := []models.Amenity{}
	seen := map[string]bool{}
	add := func(label string) {
		label = strings.TrimSpace(label)
		if label == "" {
			return
		}
		key := strings.ToLower(label)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, models.Amenity{Label: label})
	}
	collectAmenities(raw, add)
	return out
}

func collectAmenities(raw any, add func(string)) {
	switch v := raw.(type) {
	case nil:
		return
	case string:
		for _, part := range strings.Split(v, ",") {
			add(part)
		}
		return
	case models.Amenity:
		add(v.Label)
		return
	case []models.Amenity:
		for _, a := range v {
			add(a.Label)
		}
		return
	}

	if list, ok := asList(raw); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				add(s)
				continue
			}
			if obj, ok := asObject(item); ok {
				add(amenityLabel(obj))
			}
		}
		return
	}

	obj, ok := asObject(raw)
	if !ok {
		return
	}
	if label := amenityLabel(obj); label != "" {
		add(label)
		return
	}
	// {"kitchen": ["Oven", "Dishwasher"], "sauna": true, "wifi": false}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch val := obj[k].(type) {
		case bool:
			if val {
				add(k)
			}
		default:
			collectAmenities(val, add)
		}
	}
}

func amenityLabel(obj map[string]any) string {
	for _, k := range labelKeys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
