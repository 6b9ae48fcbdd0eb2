package binding

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ByLCY/wificard/credential"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 支持 ${key:-默认值}：路径不存在或值为空时使用默认值；否则保留原占位符。
func Interpolate(text string, data map[string]any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		expr := strings.TrimSpace(groups[1])
		path, fallback, hasFallback := strings.Cut(expr, ":-")
		path = strings.TrimSpace(path)
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok {
			if s := fmt.Sprint(val); s != "" || !hasFallback {
				return s
			}
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// RecordFields 返回模板可引用的记录字段：ssid、security、hidden、open。
// 密码刻意不暴露给模板。
func RecordFields(rec credential.Record) map[string]any {
	return map[string]any{
		"ssid":     rec.SSID,
		"security": rec.Security.String(),
		"hidden":   rec.Hidden,
		"open":     rec.Security.IsOpen(),
	}
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
