package i18n

import (
	"fmt"
	"strings"

	"github.com/miniteen-shop/internal/constants"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleZhTW = "zh-TW"
	LocaleEnUS = "en-US"
)

var supportedLocales = []string{LocaleZhTW, LocaleEnUS}

// ResolveLocale 依次读取 X-Locale、Accept-Language，无法识别时返回默认语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return constants.DefaultLocale
	}
	if locale, ok := matchLocale(c.GetHeader("X-Locale")); ok {
		return locale
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale, ok := matchLocale(tag); ok {
			return locale
		}
	}
	return constants.DefaultLocale
}

func matchLocale(raw string) (string, bool) {
	tag := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-"))
	if tag == "" {
		return "", false
	}
	for _, locale := range supportedLocales {
		if strings.ToLower(locale) == tag {
			return locale, true
		}
	}
	switch {
	case strings.HasPrefix(tag, "zh"):
		return LocaleZhTW, true
	case strings.HasPrefix(tag, "en"):
		return LocaleEnUS, true
	}
	return "", false
}

// T 翻译消息，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(constants.DefaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func lookup(locale, key string) (string, bool) {
	table, ok := messages[locale]
	if !ok {
		return "", false
	}
	msg, ok := table[key]
	return msg, ok
}
