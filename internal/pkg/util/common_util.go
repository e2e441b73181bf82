package util

import (
	"time"
	"unicode"
	"unicode/utf8"
)

const TimeLayout = "2006-01-02 15:04:05"

// FormatTime 统一时间格式
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// FormatTimePtr nil 保持 nil
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(TimeLayout)
	return &s
}

// WordCount 中文按字计，其他语言按空白分词计
func WordCount(s string) int {
	count := 0
	inWord := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Han, r):
			count++
			inWord = false
		case unicode.IsSpace(r) || unicode.IsPunct(r):
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}

// Truncate 按字符截断
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
