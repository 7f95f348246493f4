package msgcat

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v3"
)

//go:embed messages.*.yaml
var defaultFiles embed.FS

var ErrNotFound = errors.New("message not found")

// Catalog holds per-locale templates loaded from embedded defaults and an optional override directory.
// Text values render with text/template (missing keys cause errors); list values are returned verbatim.
// Keys missing from a locale fall back to the default locale.
type Catalog struct {
	mu       sync.RWMutex
	fallback string
	locales  map[string]*table
	matcher  language.Matcher
	order    []string
}

type table struct {
	text  map[string]string   // flattened dot-keys to template text
	lists map[string][]string // flattened dot-keys to string lists
}

func newTable() *table {
	return &table{text: make(map[string]string), lists: make(map[string][]string)}
}

// New loads messages.<locale>.yaml from the embedded defaults, then from overrideDir if provided.
func New(overrideDir, fallback string) (*Catalog, error) {
	fallback = normalizeLocale(fallback)
	if fallback == "" {
		fallback = "en"
	}
	c := &Catalog{fallback: fallback, locales: make(map[string]*table)}
	if err := c.loadEmbedded(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	if _, ok := c.locales[c.fallback]; !ok {
		return nil, fmt.Errorf("no messages for default locale %q", c.fallback)
	}
	c.buildMatcher()
	return c, nil
}

func (c *Catalog) loadEmbedded() error {
	names, err := fs.Glob(defaultFiles, "messages.*.yaml")
	if err != nil {
		return fmt.Errorf("list embedded messages: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		raw, err := fs.ReadFile(defaultFiles, name)
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", name, err)
		}
		if err := c.apply(localeFromFile(path.Base(name)), raw); err != nil {
			return fmt.Errorf("parse embedded %s: %w", name, err)
		}
	}
	return nil
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read template dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if (ext == ".yaml" || ext == ".yml") && localeFromFile(e.Name()) != "" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	seen := make(map[string]string) // locale/key -> filename
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		locale := localeFromFile(name)
		parsed, err := parseYAML(b)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for k := range parsed.text {
			id := locale + "/" + k
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("duplicate override key %q in %s and %s", k, prev, name)
			}
			seen[id] = name
		}
		c.merge(locale, parsed)
	}
	return nil
}

// localeFromFile maps messages.he.yaml to "he".
func localeFromFile(name string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
	parts := strings.Split(base, ".")
	if len(parts) < 2 {
		return ""
	}
	return normalizeLocale(parts[len(parts)-1])
}

func normalizeLocale(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (c *Catalog) apply(locale string, b []byte) error {
	parsed, err := parseYAML(b)
	if err != nil {
		return err
	}
	c.merge(locale, parsed)
	return nil
}

func (c *Catalog) merge(locale string, src *table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dst, ok := c.locales[locale]
	if !ok {
		dst = newTable()
		c.locales[locale] = dst
	}
	for k, v := range src.text {
		dst.text[k] = v
	}
	for k, v := range src.lists {
		dst.lists[k] = v
	}
}

func (c *Catalog) buildMatcher() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = []string{c.fallback}
	for loc := range c.locales {
		if loc != c.fallback {
			c.order = append(c.order, loc)
		}
	}
	sort.Strings(c.order[1:])
	tags := make([]language.Tag, 0, len(c.order))
	for _, loc := range c.order {
		tags = append(tags, language.Make(loc))
	}
	c.matcher = language.NewMatcher(tags)
}

func parseYAML(b []byte) (*table, error) {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	out := newTable()
	if err := flatten(m, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(src any, prefix string, out *table) error {
	switch v := src.(type) {
	case map[string]any:
		for k, vv := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flatten(vv, key, out); err != nil {
				return err
			}
		}
		return nil
	case string:
		if prefix == "" {
			return errors.New("string value without key prefix")
		}
		out.text[prefix] = v
		return nil
	case []any:
		list := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("unsupported list item at %s[%d]: %T", prefix, i, item)
			}
			list = append(list, s)
		}
		out.lists[prefix] = list
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported value at %s: %T", prefix, v)
	}
}

// Locales lists loaded locales, default first.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

func (c *Catalog) Default() string { return c.fallback }

// Match negotiates an Accept-Language header (or a bare tag) against the loaded locales.
func (c *Catalog) Match(accept string) string {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return c.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(c.order) {
		return c.fallback
	}
	return c.order[idx]
}

func (c *Catalog) lookup(locale, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key = strings.TrimSpace(key)
	for _, loc := range []string{normalizeLocale(locale), c.fallback} {
		if t, ok := c.locales[loc]; ok {
			if v, ok := t.text[key]; ok && strings.TrimSpace(v) != "" {
				return v, true
			}
		}
	}
	return "", false
}

// Render executes the template stored at key for locale with data.
func (c *Catalog) Render(locale, key string, data any) (string, error) {
	tpl, ok := c.lookup(locale, key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	t, err := template.New(key).Option("missingkey=error").Parse(tpl)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Text renders key without data and returns key itself when rendering fails.
func (c *Catalog) Text(locale, key string) string {
	s, err := c.Render(locale, key, nil)
	if err != nil {
		return key
	}
	return s
}

// List returns the list stored at key for locale, falling back to the default locale.
func (c *Catalog) List(locale, key string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, loc := range []string{normalizeLocale(locale), c.fallback} {
		if t, ok := c.locales[loc]; ok {
			if v, ok := t.lists[key]; ok && len(v) > 0 {
				return append([]string(nil), v...)
			}
		}
	}
	return nil
}
