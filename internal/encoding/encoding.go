package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// candidates are tried in order when the body is not clean UTF-8. The
// aggregator serves Shift_JIS on some pages and EUC-JP on others, and the
// Content-Type header cannot be trusted, so detection works off the bytes.
var candidates = []encoding.Encoding{
	japanese.ShiftJIS,
	japanese.EUCJP,
	japanese.ISO2022JP,
}

// Resolve turns a raw response body into text. It never fails: if no
// candidate encoding decodes cleanly, the UTF-8 best-effort reading is
// returned as-is.
func Resolve(body []byte) string {
	text := string(body)
	if clean(text) {
		return text
	}

	for _, enc := range candidates {
		decoded, err := enc.NewDecoder().Bytes(body)
		if err != nil {
			continue
		}
		candidate := string(decoded)
		if clean(candidate) {
			return candidate
		}
	}

	return text
}

// clean reports whether text is valid UTF-8 with no replacement characters,
// i.e. the decode lost nothing.
func clean(text string) bool {
	return utf8.ValidString(text) && !strings.ContainsRune(text, utf8.RuneError)
}
