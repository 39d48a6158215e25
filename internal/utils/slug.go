package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugEdgeDashes   = regexp.MustCompile(`^-+|-+$`)
)

// Slugify 将名称转换为URL友好的slug
// 小写化，非字母数字折叠为单个连字符，去掉首尾连字符
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugEdgeDashes.ReplaceAllString(slug, "")
	return slug
}
