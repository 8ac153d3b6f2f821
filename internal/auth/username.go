package auth

import (
	"os"
	"os/user"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// usernames may contain word characters plus the handful of symbols that
// commonly appear in email-style logins
var usernameRegexp = regexp.MustCompile(`^[\w.@+-]+$`)

// SystemUsername returns the login name of the OS account running the
// process. It is a variable so callers and tests can substitute their
// own source.
var SystemUsername = func() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		name := u.Username
		// Windows reports DOMAIN\user
		if i := strings.LastIndexByte(name, '\\'); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	return os.Getenv("USER")
}

// DefaultUsername derives a suggested username from the system account
// name: accents are folded away, the result is lowercased, and anything
// that still fails username validation is discarded. When exists is
// non-nil and reports the candidate as taken, an empty string is
// returned so callers fall back to prompting.
func DefaultUsername(exists func(username string) bool) string {
	username := foldToASCII(SystemUsername())
	username = strings.ToLower(strings.TrimSpace(username))

	if !ValidUsername(username) {
		return ""
	}

	if exists != nil && exists(username) {
		return ""
	}

	return username
}

// ValidUsername reports whether the candidate is acceptable as a username
func ValidUsername(username string) bool {
	return username != "" && usernameRegexp.MatchString(username)
}

// foldToASCII decomposes accented characters and drops combining marks,
// then strips any rune that still isn't ASCII
func foldToASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
