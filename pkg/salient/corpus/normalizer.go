package corpus

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer maps raw record text to a normalized token string.
// Implementations must be total over well-formed Unicode input and
// idempotent: Normalize(Normalize(s)) == Normalize(s).
type Normalizer interface {
	Normalize(text string) string
}

// TextNormalizer lowercases, strips punctuation, removes stopwords and
// stems tokens. Optionally it strips HTML markup and folds diacritics
// before tokenizing.
type TextNormalizer struct {
	stopwords map[string]struct{}
	stripHTML bool
	stem      bool
	fold      bool
}

// NormalizerOptions configures a TextNormalizer.
type NormalizerOptions struct {
	Stopwords      []string
	StripHTML      bool
	Stem           bool
	FoldDiacritics bool
}

// NewTextNormalizer creates a normalizer with the given options.
func NewTextNormalizer(opts NormalizerOptions) *TextNormalizer {
	stops := make(map[string]struct{}, len(opts.Stopwords))
	for _, w := range opts.Stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &TextNormalizer{
		stopwords: stops,
		stripHTML: opts.StripHTML,
		stem:      opts.Stem,
		fold:      opts.FoldDiacritics,
	}
}

// AddStopword adds a word to the stopword list
func (n *TextNormalizer) AddStopword(word string) {
	n.stopwords[strings.ToLower(word)] = struct{}{}
}

// Normalize maps raw text to a space-joined string of normalized tokens.
func (n *TextNormalizer) Normalize(text string) string {
	if n.stripHTML {
		text = stripTags(text)
	}
	if n.fold {
		text = foldDiacritics(text)
	}

	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := n.processToken(current.String())
		if word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return strings.Join(tokens, " ")
}

// processToken applies stopword filtering and stemming.
func (n *TextNormalizer) processToken(token string) string {
	if token == "" || len(token) <= 1 {
		return ""
	}

	if n.isStopword(token) {
		return ""
	}

	if n.stem {
		token = english.Stem(token, false)
		// A stem can collapse onto a stopword ("doing" -> "do").
		if n.isStopword(token) || len(token) <= 1 {
			return ""
		}
	}

	return token
}

func (n *TextNormalizer) isStopword(word string) bool {
	_, ok := n.stopwords[word]
	return ok
}

// stripTags removes HTML markup, keeping text node content.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to the raw string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
			buf.WriteByte(' ')
		}
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}

// foldDiacritics decomposes text and drops combining marks ("café" -> "cafe").
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
