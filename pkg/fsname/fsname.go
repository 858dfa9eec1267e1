// Package fsname maps bookmark titles to filesystem-legal entry names and
// back. Names are lossy by design: the original title always lives in the
// entry's record payload, the name only has to be legal, unique among its
// siblings, and recognizable to a human shuffling files around.
package fsname

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 200

// asciiFold decomposes (NFKD), strips combining marks, and drops whatever
// non-ASCII remains.
var asciiFold = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

var (
	dropPattern     = regexp.MustCompile(`[^\w\s-]`)
	collapsePattern = regexp.MustCompile(`[-\s]+`)
	suffixPattern   = regexp.MustCompile(`^(.*)-(\d+)$`)
	keyPattern      = regexp.MustCompile(`^(\d+)__(.*)$`)
)

// Windows reserves these as device names regardless of extension.
var reservedNames = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "com2": true, "com3": true, "com4": true,
	"com5": true, "com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true,
	"lpt5": true, "lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// Slug turns an arbitrary title into a filesystem-legal name fragment:
// fold to ASCII, drop everything outside [word, space, hyphen], lowercase,
// collapse runs of spaces and hyphens into single hyphens, and truncate.
// Empty or reserved results become "untitled".
func Slug(title string) string {
	folded, _, err := transform.String(asciiFold, title)
	if err != nil {
		folded = title
	}
	s := dropPattern.ReplaceAllString(folded, "")
	s = strings.ToLower(strings.TrimSpace(s))
	s = collapsePattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = strings.Trim(s[:maxSlugLength], "-")
	}
	if s == "" || reservedNames[s] {
		return "untitled"
	}
	return s
}

// Allocator hands out sibling-unique names for one container's export pass.
// Collisions get a deterministic "-2", "-3", ... suffix; the used-name set
// is discarded with the allocator once the container's children are written.
type Allocator struct {
	used map[string]bool
}

func NewAllocator() *Allocator {
	return &Allocator{used: make(map[string]bool)}
}

// Claim returns name itself when free, otherwise the first free suffixed
// variant, and marks the result as taken.
func (a *Allocator) Claim(name string) string {
	if !a.used[name] {
		a.used[name] = true
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", name, i)
		if !a.used[candidate] {
			a.used[candidate] = true
			return candidate
		}
	}
}

// WithKey prefixes an entry name with its sibling order key. Keys restore
// order on import because directory listing order is untrusted.
func WithKey(key int, name string) string {
	return fmt.Sprintf("%03d__%s", key, name)
}

// SplitKey splits an order-key prefix off an entry name. ok is false when
// the name carries no prefix (for example the fixed root directories, or a
// file the user created by hand).
func SplitKey(entryName string) (key int, rest string, ok bool) {
	m := keyPattern.FindStringSubmatch(entryName)
	if m == nil {
		return 0, entryName, false
	}
	key, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, entryName, false
	}
	return key, m[2], true
}

// Matches reports whether an entry name still derives from the given title,
// with or without a collision suffix. A false result means the user renamed
// the entry and the name hint should win over the recorded title.
func Matches(entryName, title string) bool {
	_, rest, _ := SplitKey(entryName)
	if i := strings.LastIndex(rest, "."); i > 0 {
		rest = rest[:i]
	}
	slug := Slug(title)
	if rest == slug {
		return true
	}
	m := suffixPattern.FindStringSubmatch(rest)
	return m != nil && m[1] == slug
}

// Hint recovers the human-meaningful part of an entry name: order key
// prefix, extension, and collision suffix stripped. It is compared against
// the slug of the recorded title to detect files renamed by the user.
func Hint(entryName string) string {
	_, rest, _ := SplitKey(entryName)
	if i := strings.LastIndex(rest, "."); i > 0 {
		rest = rest[:i]
	}
	if m := suffixPattern.FindStringSubmatch(rest); m != nil {
		rest = m[1]
	}
	return rest
}
