package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/runenames"
)

// currencyCodes maps currency symbols to their ISO 4217 codes. Symbols not
// listed here are spelled out by their Unicode name.
var currencyCodes = map[rune]string{
	'€': "EUR",
	'$': "USD",
	'£': "GBP",
	'¥': "JPY",
	'₹': "INR",
	'₽': "RUB",
	'₩': "KRW",
	'₺': "TRY",
	'₴': "UAH",
	'₦': "NGN",
	'₱': "PHP",
	'₫': "VND",
	'฿': "THB",
	'₪': "ILS",
	'₡': "CRC",
	'₲': "PYG",
	'₵': "GHS",
	'₸': "KZT",
	'₼': "AZN",
	'₾': "GEL",
	'₭': "LAK",
	'₮': "MNT",
	'৳': "BDT",
	'៛': "KHR",
	'؋': "AFN",
	'₿': "BTC",
}

// dollarPrefixes are the letter prefixes that qualify a dollar sign.
var dollarPrefixes = []struct {
	prefix string
	code   string
}{
	{"NZ", "NZD"},
	{"HK", "HKD"},
	{"US", "USD"},
	{"MX", "MXN"},
	{"A", "AUD"},
	{"C", "CAD"},
	{"R", "BRL"},
	{"S", "SGD"},
}

// symbolWords spells out symbols that carry meaning in running text.
var symbolWords = map[rune]string{
	'°': "deg",
	'©': "(c)",
	'®': "(R)",
	'™': "(TM)",
	'№': "No.",
}

var spaceRun = regexp.MustCompile(`[ \t]{2,}`)

// isGlyph reports runes that carry no text meaning for a renderer: emoji and
// other pictographs, emoji modifiers, variation selectors, joiners and
// enclosing marks such as the keycap.
func isGlyph(r rune) bool {
	switch {
	case unicode.Is(unicode.So, r):
		return true
	case unicode.Is(unicode.Variation_Selector, r):
		return true
	case unicode.Is(unicode.Me, r):
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
		return true
	case r == '\u200d': // zero width joiner
		return true
	}
	return false
}

// Sanitizer rewrites text for renderers with restricted character sets.
// Currency symbols become ISO codes, a few symbols such as the degree sign
// are spelled out and pictographic glyphs are dropped; letters, digits and
// punctuation pass through untouched.
type Sanitizer struct{}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize returns the cleaned text. It is safe for concurrent use.
func (s *Sanitizer) Sanitize(text string) string {
	if text == "" {
		return ""
	}

	normalized, _, err := transform.String(norm.NFC, text)
	if err != nil {
		normalized = text
	}

	// Symbols are spelled out before glyphs are stripped, since some of
	// them are in the same Unicode category as pictographs.
	replaced := replaceSymbols(normalized)

	// Transformers keep internal buffers, so one is built per call.
	stripped, _, err := transform.String(runes.Remove(runes.Predicate(isGlyph)), replaced)
	if err != nil {
		stripped = strings.Map(func(r rune) rune {
			if isGlyph(r) {
				return -1
			}
			return r
		}, replaced)
	}

	lines := strings.Split(stripped, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// replaceSymbols swaps currency and other meaningful symbols for words,
// separating the word from adjacent letters or digits so "€10" reads
// "EUR 10" and "A$5" reads "AUD 5".
func replaceSymbols(text string) string {
	src := []rune(text)
	out := make([]rune, 0, len(src))

	for i, r := range src {
		word, ok := symbolText(r)
		if !ok {
			out = append(out, r)
			continue
		}

		start := i
		if r == '$' {
			if code, n := dollarPrefix(src[:i]); n > 0 {
				out = out[:len(out)-n]
				word = code
				start = i - n
			}
		}

		if start > 0 && isWordRune(src[start-1]) {
			out = append(out, ' ')
		}
		out = append(out, []rune(word)...)
		if i+1 < len(src) && isWordRune(src[i+1]) {
			out = append(out, ' ')
		}
	}
	return string(out)
}

// symbolText returns the replacement for r. Every currency symbol has one.
func symbolText(r rune) (string, bool) {
	if code, ok := currencyCodes[r]; ok {
		return code, true
	}
	if word, ok := symbolWords[r]; ok {
		return word, true
	}
	if unicode.Is(unicode.Sc, r) {
		return currencyName(r), true
	}
	return "", false
}

// currencyName spells an unlisted currency symbol by its Unicode name,
// "CENT SIGN" becoming "CENT".
func currencyName(r rune) string {
	name := strings.TrimSuffix(runenames.Name(r), " SIGN")
	if name == "" {
		return "CURRENCY"
	}
	return name
}

// dollarPrefix reports the currency code of a letter prefix that ends
// before, such as the "NZ" of "NZ$", and its length in runes.
func dollarPrefix(before []rune) (string, int) {
	for _, p := range dollarPrefixes {
		n := len(p.prefix)
		if len(before) < n || string(before[len(before)-n:]) != p.prefix {
			continue
		}
		if len(before) > n && isWordRune(before[len(before)-n-1]) {
			continue
		}
		return p.code, n
	}
	return "", 0
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
