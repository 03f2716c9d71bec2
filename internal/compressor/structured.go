package compressor

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

func init() {
	register([]string{"json"}, Func(jsonCompressor))
	register([]string{"yaml", "yml"}, Func(yamlCompressor))
	register([]string{"html"}, Func(htmlCompressor))
	register([]string{"xml"}, Func(xmlCompressor))
}

// jsonCompressor parses with gjson, strips leaf values to null, and
// re-emits the skeleton. On parse failure it falls back to non-empty
// lines only, per §4.3.
func jsonCompressor(text string) string {
	if !gjson.Valid(text) {
		return genericCompressor.Compress(text)
	}
	var b strings.Builder
	writeJSONSkeleton(&b, gjson.Parse(text))
	return b.String()
}

func writeJSONSkeleton(b *strings.Builder, v gjson.Result) {
	switch {
	case v.IsObject():
		b.WriteByte('{')
		first := true
		v.ForEach(func(key, value gjson.Result) bool {
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteString(strconv.Quote(key.String()))
			b.WriteByte(':')
			writeJSONSkeleton(b, value)
			return true
		})
		b.WriteByte('}')
	case v.IsArray():
		b.WriteByte('[')
		first := true
		v.ForEach(func(_, value gjson.Result) bool {
			if !first {
				b.WriteByte(',')
			}
			first = false
			writeJSONSkeleton(b, value)
			return true
		})
		b.WriteByte(']')
	default:
		b.WriteString("null")
	}
}

// yamlCompressor parses with yaml.v3's Node API, recursively replaces
// scalar values with null, and keeps only the first element of each
// sequence as an exemplar, per §4.3.
func yamlCompressor(text string) string {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return genericCompressor.Compress(text)
	}
	stripYAMLNode(&doc)
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return genericCompressor.Compress(text)
	}
	return strings.TrimRight(string(out), "\n")
}

func stripYAMLNode(n *yaml.Node) {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, child := range n.Content {
			stripYAMLNode(child)
		}
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			stripYAMLNode(n.Content[i])
		}
	case yaml.SequenceNode:
		if len(n.Content) > 1 {
			n.Content = n.Content[:1]
		}
		for _, child := range n.Content {
			stripYAMLNode(child)
		}
	case yaml.ScalarNode:
		n.Value = "null"
		n.Tag = "!!null"
		n.Style = 0
	}
}

// htmlCompressor parses with golang.org/x/net/html, blanks every text
// node, and re-renders the element skeleton, per §4.3.
func htmlCompressor(text string) string {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return genericCompressor.Compress(text)
	}
	blankHTMLText(doc)
	var b bytes.Buffer
	if err := html.Render(&b, doc); err != nil {
		return genericCompressor.Compress(text)
	}
	return b.String()
}

func blankHTMLText(n *html.Node) {
	if n.Type == html.TextNode {
		n.Data = ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		blankHTMLText(c)
	}
}

// xmlCompressor streams tokens with encoding/xml, dropping CharData so
// only the element skeleton (tags and attributes) survives, per §4.3.
func xmlCompressor(text string) string {
	decoder := xml.NewDecoder(strings.NewReader(text))
	var b bytes.Buffer
	encoder := xml.NewEncoder(&b)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return genericCompressor.Compress(text)
		}
		switch tok.(type) {
		case xml.CharData:
			continue
		default:
			if err := encoder.EncodeToken(tok); err != nil {
				return genericCompressor.Compress(text)
			}
		}
	}
	if err := encoder.Flush(); err != nil {
		return genericCompressor.Compress(text)
	}
	if b.Len() == 0 {
		return genericCompressor.Compress(text)
	}
	return b.String()
}
