package util

import (
	"bytes"
	"errors"
	"golang.org/x/net/html"
	"strings"
)

type extractNodeCondition func(*html.Node) bool

// ExtractNode will select the first node to match extractNodeCondition, for example
// res, err := ExtractNode(string(content), func(n *html.Node) bool { return n.Data == "title" })
func ExtractNode(content string, fn extractNodeCondition) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	var n *html.Node
	var crawler func(*html.Node)

	crawler = func(node *html.Node) {
		if n != nil {
			return
		}
		if node.Type == html.ElementNode && fn(node) {
			n = node
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			crawler(child)
		}
	}
	crawler(doc)
	if n != nil {
		return n, nil
	}
	return nil, errors.New("missing matching tag in the node tree")
}

func ExtractNodeText(n *html.Node, buf *bytes.Buffer) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ExtractNodeText(c, buf)
	}
}

// NodeAttr returns the value of the key attribute on n, or ""
func NodeAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
