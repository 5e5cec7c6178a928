package assemble

import (
	"hash/fnv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// slugStopWords are dropped from slugs. Short connectives only; dropping
// content words would make slugs collide.
var slugStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "in": true, "of": true, "on": true,
	"at": true, "to": true, "for": true, "and": true, "or": true, "with": true,
	"your": true, "is": true, "are": true,
}

// diacriticFolder strips combining marks after NFD decomposition.
var diacriticFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slug derives a URL slug from a title: diacritics folded, lowercased,
// hyphen-separated, stop words removed, truncated at a word boundary.
// Deterministic for a given title and max length.
func Slug(title string, maxLen int) string {
	folded, _, err := transform.String(diacriticFolder, title)
	if err != nil {
		folded = title
	}
	lower := strings.ToLower(folded)

	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		w := current.String()
		current.Reset()
		if !slugStopWords[w] {
			words = append(words, w)
		}
	}
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	slug := ""
	for _, w := range words {
		candidate := w
		if slug != "" {
			candidate = slug + "-" + w
		}
		if maxLen > 0 && len(candidate) > maxLen {
			break
		}
		slug = candidate
	}
	return slug
}

// Fingerprint hashes the page's normalized text. Two combinations that
// render to effectively identical copy produce the same fingerprint — a
// degenerate-data signal, independent of the combination dedup key.
func Fingerprint(p *model.GeneratedPage) string {
	var b strings.Builder
	b.WriteString(normalizeText(p.Title))
	b.WriteByte('\n')
	b.WriteString(normalizeText(p.H1))
	for _, s := range p.Sections {
		b.WriteByte('\n')
		b.WriteString(normalizeText(s.Heading))
		b.WriteByte(' ')
		b.WriteString(normalizeText(s.Body))
	}

	h := fnv.New64a()
	h.Write([]byte(b.String()))
	return hex16(h.Sum64())
}

// normalizeText lowercases and collapses whitespace and punctuation so that
// trivial formatting differences do not change the fingerprint.
func normalizeText(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func hex16(v uint64) string {
	const digits = "0123456789abcdef"
	var out [16]byte
	for i := 15; i >= 0; i-- {
		out[i] = digits[v&0xf]
		v >>= 4
	}
	return string(out[:])
}
