package viewmodel

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed locales
var catalogs embed.FS

const domain = "default"

// ErrUnsupportedLocale は翻訳カタログのない言語です
var ErrUnsupportedLocale = errors.New("unsupported locale")

func init() {
	// システムのロケールディレクトリは見ない
	if err := SetLocale("en"); err != nil {
		panic(err)
	}
}

// SetLocale はラベルの言語を切り替えます（"ja", "ja_JP.UTF-8", "en" など）。
// 英語はソースの文字列をそのまま使います。
func SetLocale(lang string) error {
	lang = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(lang)), "-", "_")
	loc := gotext.NewLocaleFSWithPath(lang, catalogs, "locales")

	english := strings.HasPrefix(loc.GetLanguage(), "en")
	if !english && loc.GetActualLanguage(domain) == "" {
		return fmt.Errorf("%q: %w", lang, ErrUnsupportedLocale)
	}

	loc.AddDomain(domain)
	loc.SetDomain(domain)
	gotext.SetLocales([]*gotext.Locale{loc})
	return nil
}

// Locale は現在のラベルの言語です
func Locale() string {
	return gotext.GetLanguage()
}
