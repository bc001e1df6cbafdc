// game/answer.go
package game

import (
	"strings"
)

// NormalizeAnswer 去除首尾空白并统一大小写
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CheckAnswer 判定作答是否正确。比较忽略大小写和首尾空白。
func CheckAnswer(expected, submitted string) bool {
	return NormalizeAnswer(expected) == NormalizeAnswer(submitted)
}
