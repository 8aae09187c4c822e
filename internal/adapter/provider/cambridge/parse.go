package cambridge

import (
	"strings"

	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/markup"
	"github.com/heartmarshall/quicktranslate/internal/merge"
)

// page is the data extracted from one dictionary page.
type page struct {
	phonetic     string
	translations []string
	examples     []domain.Example
}

var (
	isSpanTrans = markup.Element("span", "trans")
	isExample   = markup.Element("div", "examp")
	isDefBlock  = markup.Element("div", "def-block")
	isDefBody   = markup.Element("div", "def-body")

	isPron = markup.Element("span", "pron", "dpron")
	isIPA  = markup.Element("span", "ipa", "dipa")

	// Tried in order; the first non-empty match wins.
	phoneticPredicates = []markup.Predicate{
		markup.And(isPron, underUK),
		isPron,
		markup.And(isIPA, underUK),
		isIPA,
	}
)

func underUK(n *markup.Node) bool {
	return markup.HasAncestorWithClass(n, "uk")
}

func isEntryBlock(n *markup.Node) bool {
	return n.HasClass("entry-body__el") ||
		n.HasClass("pv-block") ||
		(n.HasClass("pr") && n.HasClass("dictionary")) ||
		(n.HasClass("pr") && n.HasClass("idiom-block"))
}

// parsePage extracts a page. Entries are scanned one by one so that a
// translation never pairs with another entry's examples; pages without
// entry blocks are scanned as a whole. translationLang, when set, drops
// translation nodes whose lang attribute names another language.
func parsePage(html, translationLang string) page {
	root := markup.ParseString(html).Root()
	entries := markup.FindAll(root, isEntryBlock)

	if len(entries) == 0 {
		return page{
			phonetic:     extractPhonetic(root),
			translations: merge.Clean(extractTranslations(root, translationLang)),
			examples:     merge.Rank(merge.UniqueExamples(extractExamples(markup.FindAll(root, isExample)))),
		}
	}

	var p page
	var examples []domain.Example
	for _, entry := range entries {
		if p.phonetic == "" {
			p.phonetic = extractPhonetic(entry)
		}
		p.translations = append(p.translations, entryTranslations(entry, translationLang)...)
		examples = append(examples, entryExamples(entry)...)
	}
	p.translations = merge.Clean(p.translations)
	p.examples = merge.UniqueExamples(examples)
	return p
}

func extractPhonetic(root *markup.Node) string {
	for _, pred := range phoneticPredicates {
		n := markup.FindFirst(root, pred)
		if n == nil {
			continue
		}
		if text := domain.NormalizeWhitespace(n.TextContent()); text != "" {
			return text
		}
	}
	return ""
}

func extractTranslations(root *markup.Node, translationLang string) []string {
	var out []string
	for _, n := range markup.FindAll(root, isSpanTrans) {
		if markup.HasAncestorWithClass(n, "examp") || markup.HasAncestorWithClass(n, "dexamp") {
			continue
		}
		if translationLang != "" {
			if lang, ok := n.Attr("lang"); ok {
				lang = strings.ToLower(strings.TrimSpace(lang))
				if lang != "" && !strings.HasPrefix(lang, translationLang) {
					continue
				}
			}
		}
		if text := domain.NormalizeWhitespace(n.TextContent()); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// entryTranslations reads translations per definition body when the entry
// has definition blocks, else over the whole entry.
func entryTranslations(entry *markup.Node, translationLang string) []string {
	blocks := markup.FindAll(entry, isDefBlock)
	if len(blocks) == 0 {
		return extractTranslations(entry, translationLang)
	}
	var out []string
	for _, block := range blocks {
		bodies := markup.FindAll(block, isDefBody)
		if len(bodies) == 0 {
			bodies = []*markup.Node{block}
		}
		for _, body := range bodies {
			out = append(out, extractTranslations(body, translationLang)...)
		}
	}
	return out
}

func entryExamples(entry *markup.Node) []domain.Example {
	var nodes []*markup.Node
	for _, block := range markup.FindAll(entry, isDefBlock) {
		nodes = append(nodes, markup.FindAll(block, isExample)...)
	}
	if len(nodes) == 0 {
		nodes = markup.FindAll(entry, isExample)
	}
	return merge.Rank(extractExamples(nodes))
}

func extractExamples(nodes []*markup.Node) []domain.Example {
	var out []domain.Example
	for _, n := range nodes {
		source := firstSpanText(n, "eg")
		if source == "" {
			source = firstSpanText(n, "lu")
		}
		if source == "" {
			source = domain.NormalizeWhitespace(n.TextContent())
		}
		if source == "" {
			continue
		}
		out = append(out, domain.Example{
			Source: source,
			Target: domain.StringPtr(firstSpanText(n, "trans")),
		})
	}
	return out
}

func firstSpanText(n *markup.Node, class string) string {
	for _, m := range markup.FindAll(n, markup.Element("span", class)) {
		if text := domain.NormalizeWhitespace(m.TextContent()); text != "" {
			return text
		}
	}
	return ""
}
