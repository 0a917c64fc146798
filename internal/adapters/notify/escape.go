package notify

import "strings"

// markdownV2Specials is the full set of characters Telegram's
// MarkdownV2 mode reserves in plain text.
const markdownV2Specials = "_*[]()~`>#+-=|{}.!"

var escaper = func() *strings.Replacer {
	pairs := make([]string, 0, len(markdownV2Specials)*2)
	for _, r := range markdownV2Specials {
		pairs = append(pairs, string(r), `\`+string(r))
	}
	return strings.NewReplacer(pairs...)
}()

// urlEscaper covers the two characters that terminate or escape an
// inline-link URL in MarkdownV2.
var urlEscaper = strings.NewReplacer(`\`, `\\`, `)`, `\)`)

// EscapeMarkdownV2 escapes every reserved MarkdownV2 character in s so
// it renders literally.
func EscapeMarkdownV2(s string) string {
	return escaper.Replace(s)
}

// EscapeURL escapes the characters reserved inside a MarkdownV2 inline
// link target.
func EscapeURL(s string) string {
	return urlEscaper.Replace(s)
}
