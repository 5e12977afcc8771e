package pathutil

import "strings"

// RFC 6901 escape sequences, plus the percent-encoding of "%" needed for
// the URI fragment representation.
const (
	EncodedTilde   = "~0"
	EncodedSlash   = "~1"
	EncodedPercent = "%25"
)

var (
	tokenEscaper   = strings.NewReplacer("~", EncodedTilde, "/", EncodedSlash, "%", EncodedPercent)
	tokenUnescaper = strings.NewReplacer(EncodedSlash, "/", EncodedTilde, "~")
)

// EscapeToken escapes "~" and "/" in a reference token. A "%" is
// percent-encoded so the fragment can be percent-decoded without loss.
func EscapeToken(token string) string {
	if !strings.ContainsAny(token, "~/%") {
		return token
	}
	return tokenEscaper.Replace(token)
}

// UnescapeToken decodes "~1" and "~0" in a reference token. It reports false
// when the token contains a "~" that is not followed by "0" or "1".
func UnescapeToken(token string) (string, bool) {
	if !strings.Contains(token, "~") {
		return token, true
	}
	for i := 0; i < len(token); i++ {
		if token[i] != '~' {
			continue
		}
		if i+1 >= len(token) || (token[i+1] != '0' && token[i+1] != '1') {
			return "", false
		}
		i++
	}
	// A single left-to-right pass, so "~01" decodes to "~1" and not "/".
	return tokenUnescaper.Replace(token), true
}

// JoinPointer builds a URI fragment pointer from unescaped tokens.
func JoinPointer(tokens ...string) string {
	var b strings.Builder
	b.WriteByte('#')
	for _, tok := range tokens {
		b.WriteByte('/')
		b.WriteString(EscapeToken(tok))
	}
	return b.String()
}
