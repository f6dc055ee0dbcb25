package util

import (
	"strings"
)

// SplitNoteNames 解析逗号分隔的香调名, 去空白去重
func SplitNoteNames(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '，'
	})

	noteSet := make(map[string]struct{})
	var notes []string

	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			continue
		}
		if _, exists := noteSet[name]; !exists {
			noteSet[name] = struct{}{}
			notes = append(notes, name)
		}
	}

	return notes
}

// Slugify 将名称转成 URL 友好的 slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrInt64 用于将 int64 转换为 *int64
func PtrInt64(i int64) *int64 {
	return &i
}

// PtrString 用于将 string 转换为 *string
func PtrString(s string) *string {
	return &s
}
