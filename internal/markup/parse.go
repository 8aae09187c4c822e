package markup

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// voidElements never have content and are never pushed on the open-element stack.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Parse builds a Document from r. It never fails: malformed markup is
// repaired as it is read, and invalid UTF-8 is replaced with U+FFFD.
//
// A closing tag closes the nearest open element with the same name along with
// everything opened after it. A closing tag with no open match is ignored.
func Parse(r io.Reader) *Document {
	doc := newDocument()
	stack := []int{doc.Root().id}
	z := html.NewTokenizer(r)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a read error: keep what was built so far.
			return doc

		case html.TextToken:
			top := doc.nodes[stack[len(stack)-1]]
			top.appendText(validUTF8(string(z.Text())))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := validUTF8(string(name))
			attrs := readAttrs(z, hasAttr)
			node := doc.add(tag, attrs, stack[len(stack)-1])
			if tt == html.StartTagToken && !voidElements[tag] {
				stack = append(stack, node.id)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := validUTF8(string(name))
			for i := len(stack) - 1; i > 0; i-- {
				if doc.nodes[stack[i]].Tag == tag {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) *Document {
	return Parse(strings.NewReader(s))
}

func readAttrs(z *html.Tokenizer, more bool) map[string]string {
	if !more {
		return map[string]string{}
	}
	attrs := make(map[string]string)
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		if len(key) == 0 {
			continue
		}
		k := validUTF8(string(key))
		if _, dup := attrs[k]; dup {
			continue
		}
		attrs[k] = validUTF8(string(val))
	}
	return attrs
}

func validUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
