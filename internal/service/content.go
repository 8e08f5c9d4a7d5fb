package service

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxPostLength    = 280
	MaxCommentLength = 500
)

// 帖子与评论都是纯文本，剥离全部 HTML
var textPolicy = bluemonday.StrictPolicy()

// sanitizeText 去标签、去首尾空白并校验长度（按字符计）。
// 结果再清洗一次必须不变，多重转义藏起来的标签直接拒绝。
func sanitizeText(field, raw string, max int) (string, error) {
	text := stripMarkup(raw)
	if text != "" && stripMarkup(text) != text {
		return "", NewValidationError(field, field+" must not contain markup")
	}
	if text == "" {
		return "", NewValidationError(field, field+" must not be empty")
	}
	if utf8.RuneCountInString(text) > max {
		return "", NewValidationError(field, field+" is too long")
	}
	return text, nil
}

// stripMarkup 先解码实体再剥离标签，最后把策略转义的 & < > 还原为纯文本
func stripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(html.UnescapeString(s))))
}
