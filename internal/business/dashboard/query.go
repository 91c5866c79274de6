package dashboard

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

// Criterion is one attribute/value pair of a filter set.
type Criterion struct {
	Attribute string
	Value     string
}

// Criteria is an ordered filter set with at most one value per attribute.
type Criteria []Criterion

// Set replaces the value of an existing attribute in place or appends a new one.
func (c Criteria) Set(attr, value string) Criteria {
	for i := range c {
		if c[i].Attribute == attr {
			c[i].Value = value
			return c
		}
	}
	return append(c, Criterion{Attribute: attr, Value: value})
}

// Get returns the selected value for attr.
func (c Criteria) Get(attr string) (string, bool) {
	for _, cr := range c {
		if cr.Attribute == attr {
			return cr.Value, true
		}
	}
	return "", false
}

// Without returns a copy of c without attr.
func (c Criteria) Without(attr string) Criteria {
	out := make(Criteria, 0, len(c))
	for _, cr := range c {
		if cr.Attribute != attr {
			out = append(out, cr)
		}
	}
	return out
}

// Encode renders the navigation query string, keys first-selected first.
func (c Criteria) Encode() string {
	parts := make([]string, 0, len(c))
	for _, cr := range c {
		parts = append(parts, url.QueryEscape(EncodeKey(cr.Attribute))+"="+url.QueryEscape(cr.Value))
	}
	return strings.Join(parts, "&")
}

// Active converts the criteria to their display form.
func (c Criteria) Active() []model.ActiveFilter {
	out := make([]model.ActiveFilter, 0, len(c))
	for _, cr := range c {
		out = append(out, model.ActiveFilter{Attribute: cr.Attribute, Value: cr.Value})
	}
	return out
}

// EncodeKey lowercases an attribute name and joins its words with underscores.
func EncodeKey(attr string) string {
	return strings.Join(strings.Fields(strings.ToLower(attr)), "_")
}

var knownKeys = func() map[string]string {
	m := make(map[string]string, len(Attributes))
	for _, a := range Attributes {
		m[EncodeKey(a)] = a
	}
	return m
}()

// DecodeKey reverses EncodeKey. Keys of known attributes map back exactly;
// anything else gets each underscore-separated word capitalised.
func DecodeKey(key string) string {
	if attr, ok := knownKeys[strings.ToLower(key)]; ok {
		return attr
	}
	words := strings.Split(key, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// DecodeQuery parses a raw query string into criteria. Pairs keep their
// order of first appearance; a repeated key takes its last value. Pairs with
// an empty key or value are ignored.
func DecodeQuery(rawQuery string) (Criteria, error) {
	var c Criteria
	for _, pair := range strings.Split(strings.TrimPrefix(rawQuery, "?"), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("decode key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("decode value for %q: %w", key, err)
		}
		key = strings.TrimSpace(key)
		if key == "" || value == "" {
			continue
		}
		c = c.Set(DecodeKey(key), value)
	}
	return c, nil
}
