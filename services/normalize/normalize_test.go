package normalize

import (
	"encoding/json"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chalethaven/models"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad fixture %s: %v", s, err)
	}
	return v
}

func TestParseImagesKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want SourceKind
	}{
		{"nil", nil, SourceNone},
		{"blank string", "  ", SourceNone},
		{"string", "https://cdn.example.com/a.jpg", SourceString},
		{"json list", decodeJSON(t, `["a.jpg","b.jpg"]`), SourceList},
		{"bson list", primitive.A{"a.jpg"}, SourceList},
		{"structured", decodeJSON(t, `{"hero":{"url":"h.jpg"},"gallery":["g.jpg"]}`), SourceObject},
		{"single", decodeJSON(t, `{"url":"a.jpg","alt":"Front"}`), SourceObject},
		{"flagged single", decodeJSON(t, `{"url":"a.jpg","hero":true}`), SourceObject},
		{"keyed", decodeJSON(t, `{"exterior":["e.jpg"],"interior":[{"src":"i.jpg"}]}`), SourceMap},
		{"sections with gallery", decodeJSON(t, `{"exterior":["e.jpg"],"gallery":["g.jpg"],"interior":["i.jpg"]}`), SourceMap},
		{"hero section list", decodeJSON(t, `{"hero":["h1.jpg","h2.jpg"]}`), SourceMap},
		{"bson doc", primitive.D{{Key: "url", Value: "a.jpg"}}, SourceObject},
		{"empty list", []any{}, SourceNone},
		{"number", 42, SourceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseImages(tt.raw).Kind; got != tt.want {
				t.Fatalf("kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeImagesHeroPolicy(t *testing.T) {
	tests := []struct {
		name        string
		raw         any
		wantHero    string
		wantGallery []string
	}{
		{
			name:        "explicit hero field",
			raw:         decodeJSON(t, `{"hero":"h.jpg","gallery":[{"url":"a.jpg","isHero":true},"b.jpg"]}`),
			wantHero:    "h.jpg",
			wantGallery: []string{"a.jpg", "b.jpg"},
		},
		{
			name:        "flagged element",
			raw:         decodeJSON(t, `[{"url":"a.jpg"},{"url":"b.jpg","isHero":true}]`),
			wantHero:    "b.jpg",
			wantGallery: []string{"a.jpg", "b.jpg"},
		},
		{
			name:        "hero true flag",
			raw:         decodeJSON(t, `[{"secure_url":"a.jpg"},{"secure_url":"b.jpg","hero":true}]`),
			wantHero:    "b.jpg",
			wantGallery: []string{"a.jpg", "b.jpg"},
		},
		{
			name:        "first entry",
			raw:         []string{"a.jpg", "b.jpg"},
			wantHero:    "a.jpg",
			wantGallery: []string{"a.jpg", "b.jpg"},
		},
		{
			name:        "keyed map in name order",
			raw:         decodeJSON(t, `{"interior":["i.jpg"],"exterior":["e.jpg"]}`),
			wantHero:    "e.jpg",
			wantGallery: []string{"e.jpg", "i.jpg"},
		},
		{
			name:        "keyed map with a gallery section",
			raw:         decodeJSON(t, `{"exterior":[{"url":"ext1.jpg"}],"gallery":[{"url":"gal1.jpg"}],"interior":["int1.jpg"]}`),
			wantHero:    "ext1.jpg",
			wantGallery: []string{"ext1.jpg", "gal1.jpg", "int1.jpg"},
		},
		{
			name:        "hero section leads a keyed map",
			raw:         decodeJSON(t, `{"exterior":["e.jpg"],"hero":["h1.jpg","h2.jpg"]}`),
			wantHero:    "h1.jpg",
			wantGallery: []string{"e.jpg", "h1.jpg", "h2.jpg"},
		},
		{
			name:        "bare string",
			raw:         "only.jpg",
			wantHero:    "only.jpg",
			wantGallery: []string{"only.jpg"},
		},
		{
			name: "bson nested",
			raw: primitive.D{
				{Key: "gallery", Value: primitive.A{
					primitive.D{{Key: "url", Value: "a.jpg"}},
					primitive.D{{Key: "url", Value: "b.jpg"}, {Key: "isHero", Value: true}},
				}},
			},
			wantHero:    "b.jpg",
			wantGallery: []string{"a.jpg", "b.jpg"},
		},
		{
			name:        "nothing usable",
			raw:         decodeJSON(t, `{"hero":null,"gallery":[{"alt":"no url"}]}`),
			wantGallery: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeImages(tt.raw)
			if tt.wantHero == "" {
				if got.Hero != nil {
					t.Fatalf("hero = %+v, want nil", got.Hero)
				}
			} else if got.Hero == nil || got.Hero.URL != tt.wantHero {
				t.Fatalf("hero = %+v, want %s", got.Hero, tt.wantHero)
			}
			if got.Gallery == nil {
				t.Fatal("gallery must never be nil")
			}
			urls := make([]string, 0, len(got.Gallery))
			for _, img := range got.Gallery {
				urls = append(urls, img.URL)
			}
			if !reflect.DeepEqual(urls, tt.wantGallery) {
				t.Fatalf("gallery = %v, want %v", urls, tt.wantGallery)
			}
		})
	}
}

func TestNormalizeImagesIdempotent(t *testing.T) {
	img := models.Image{URL: "https://cdn.example.com/a.jpg", Alt: "Front"}
	if got := NormalizeImage(img); got == nil || *got != img {
		t.Fatalf("NormalizeImage(%+v) = %+v", img, got)
	}
	if got := NormalizeImage(map[string]any{"url": img.URL, "alt": img.Alt}); got == nil || *got != img {
		t.Fatalf("NormalizeImage(map) = %+v", got)
	}

	inputs := []any{
		"a.jpg",
		decodeJSON(t, `[{"url":"a.jpg","alt":"A"},{"url":"b.jpg","isHero":true}]`),
		decodeJSON(t, `{"exterior":["e.jpg"],"interior":["i.jpg"]}`),
		decodeJSON(t, `{"url":"a.jpg","alt":"A"}`),
	}
	for _, raw := range inputs {
		once := NormalizeImages(raw)
		twice := NormalizeImages(once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("not idempotent for %v: %+v then %+v", raw, once, twice)
		}

		// Round-trip through JSON, as when a normalized listing is saved back.
		b, err := json.Marshal(once)
		if err != nil {
			t.Fatal(err)
		}
		again := NormalizeImages(decodeJSON(t, string(b)))
		if !reflect.DeepEqual(once, again) {
			t.Fatalf("json round-trip changed %+v into %+v", once, again)
		}
	}
}

func TestAmenities(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []string
	}{
		{"nil", nil, []string{}},
		{"comma string", "WiFi, Sauna ,", []string{"WiFi", "Sauna"}},
		{"strings", decodeJSON(t, `["WiFi","Hot tub","wifi"]`), []string{"WiFi", "Hot tub"}},
		{"objects", decodeJSON(t, `[{"label":"Ski storage"},{"name":"Fireplace"},{"title":"Parking"},{"icon":"x"}]`), []string{"Ski storage", "Fireplace", "Parking"}},
		{"keyed lists", decodeJSON(t, `{"kitchen":["Oven","Dishwasher"],"outdoor":["BBQ"]}`), []string{"Oven", "Dishwasher", "BBQ"}},
		{"keyed bools", decodeJSON(t, `{"sauna":true,"wifi":false,"parking":true}`), []string{"parking", "sauna"}},
		{"bson", primitive.A{primitive.D{{Key: "label", Value: "WiFi"}}, "Sauna"}, []string{"WiFi", "Sauna"}},
		{"already normalized", []models.Amenity{{Label: "WiFi"}}, []string{"WiFi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Amenities(tt.raw)
			labels := make([]string, 0, len(got))
			for _, a := range got {
				labels = append(labels, a.Label)
			}
			if !reflect.DeepEqual(labels, tt.want) {
				t.Fatalf("labels = %v, want %v", labels, tt.want)
			}
		})
	}
}
