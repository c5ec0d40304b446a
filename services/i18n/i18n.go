package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed *.json
var fs embed.FS

// Language is one of the two display languages the site supports.
type Language string

const (
	English Language = "en"
	Thai    Language = "th"

	DefaultLanguage = English
)

// Toggle returns the other supported language.
func (l Language) Toggle() Language {
	if l == Thai {
		return English
	}
	return Thai
}

// Tag returns the BCP 47 tag used for the html lang attribute.
func (l Language) Tag() language.Tag {
	if l == Thai {
		return language.Thai
	}
	return language.English
}

func (l Language) String() string {
	return string(l)
}

// ParseLanguage maps a raw code (including region variants such as "th-TH")
// onto a supported language. Unknown codes report false.
func ParseLanguage(raw string) (Language, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLanguage, false
	}

	tag, err := language.Parse(raw)
	if err != nil {
		return DefaultLanguage, false
	}

	base, _ := tag.Base()
	thaiBase, _ := language.Thai.Base()
	englishBase, _ := language.English.Base()

	switch base {
	case thaiBase:
		return Thai, true
	case englishBase:
		return English, true
	default:
		return DefaultLanguage, false
	}
}

// Content is one piece of copy in both languages.
type Content struct {
	EN string `json:"en"`
	TH string `json:"th"`
}

// For returns the copy for lang. Missing Thai copy falls back to English.
func (c Content) For(lang Language) string {
	if lang == Thai && c.TH != "" {
		return c.TH
	}
	return c.EN
}

// dictionary stores flattened keys: "hero.cta" -> {EN, TH}
var (
	dictionary = make(map[string]Content)
	mutex      sync.RWMutex
)

// Load reads the embedded en.json and th.json files and zips them into a
// single bilingual dictionary keyed by the dot-notation content key.
func Load() error {
	perLang := make(map[Language]map[string]string, 2)

	for _, lang := range []Language{English, Thai} {
		name := string(lang) + ".json"
		content, err := fs.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", name, err)
		}

		var result map[string]interface{}
		if err := json.Unmarshal(content, &result); err != nil {
			return fmt.Errorf("failed to unmarshal locale %s: %w", name, err)
		}

		flat := make(map[string]string)
		flatten("", result, flat)
		perLang[lang] = flat
		log.Printf("Loaded locale: %s (%d keys)", lang, len(flat))
	}

	merged := make(map[string]Content, len(perLang[English]))
	for key, en := range perLang[English] {
		merged[key] = Content{EN: en, TH: perLang[Thai][key]}
	}
	for key, th := range perLang[Thai] {
		if _, ok := merged[key]; !ok {
			log.Printf("[WARNING] Locale key %s has no English copy", key)
			merged[key] = Content{TH: th}
		}
	}

	mutex.Lock()
	dictionary = merged
	mutex.Unlock()

	return nil
}

// flatten recursively flattens a nested map into dot-notation keys.
func flatten(prefix string, nested map[string]interface{}, result map[string]string) {
	for k, v := range nested {
		newKey := k
		if prefix != "" {
			newKey = prefix + "." + k
		}

		switch child := v.(type) {
		case map[string]interface{}:
			flatten(newKey, child, result)
		case string:
			result[newKey] = child
		default:
			result[newKey] = fmt.Sprintf("%v", child)
		}
	}
}

// Lookup returns the bilingual record for key.
func Lookup(key string) (Content, bool) {
	mutex.RLock()
	defer mutex.RUnlock()

	c, ok := dictionary[key]
	return c, ok
}

// Translate returns the copy for key in lang, falling back to the key itself.
// Supports simple named variable replacement {name} if args are provided.
func Translate(lang Language, key string, args ...map[string]interface{}) string {
	c, ok := Lookup(key)
	if !ok {
		return key
	}

	text := c.For(lang)
	if text == "" {
		return key
	}
	return format(text, args...)
}

// T retrieves a translation for the given key using the language from the context.
func T(ctx context.Context, key string, args ...map[string]interface{}) string {
	return Translate(GetLocale(ctx), key, args...)
}

// format replaces {var} placeholders with values from args if present.
func format(text string, args ...map[string]interface{}) string {
	if len(args) == 0 {
		return text
	}

	vars := args[0]
	for k, v := range vars {
		placeholder := "{" + k + "}"
		text = strings.ReplaceAll(text, placeholder, fmt.Sprintf("%v", v))
	}
	return text
}

type contextKey string

const LocaleContextKey contextKey = "locale"

// WithLocale returns a copy of ctx carrying lang.
func WithLocale(ctx context.Context, lang Language) context.Context {
	return context.WithValue(ctx, LocaleContextKey, lang)
}

// GetLocale extracts the locale from the context, defaulting to English.
func GetLocale(ctx context.Context) Language {
	if lang, ok := ctx.Value(LocaleContextKey).(Language); ok {
		return lang
	}
	return DefaultLanguage
}
