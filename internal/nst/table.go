package nst

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlTable is the text content of an HTML table.
type htmlTable struct {
	header []string
	rows   [][]string
}

// parseFirstTable extracts the first <table>. The header is the first row
// made of <th> cells, or the first row when there is none.
func parseFirstTable(r io.Reader) (*htmlTable, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	node := findFirst(doc, atom.Table)
	if node == nil {
		return nil, ErrNoTable
	}

	var trs []*html.Node
	collect(node, atom.Tr, &trs)
	if len(trs) == 0 {
		return nil, ErrNoTable
	}

	table := &htmlTable{}
	headerAt := 0
	for i, tr := range trs {
		if hasChild(tr, atom.Th) {
			headerAt = i
			break
		}
	}
	table.header = cellTexts(trs[headerAt])
	for _, tr := range trs[headerAt+1:] {
		if cells := cellTexts(tr); len(cells) > 0 {
			table.rows = append(table.rows, cells)
		}
	}
	return table, nil
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// collect gathers matching descendants without entering nested tables.
func collect(n *html.Node, a atom.Atom, out *[]*html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == a {
			*out = append(*out, c)
			continue
		}
		if c.DataAtom == atom.Table {
			continue
		}
		collect(c, a, out)
	}
}

func hasChild(n *html.Node, a atom.Atom) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return true
		}
	}
	return false
}

func cellTexts(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, strings.TrimSpace(textContent(c)))
		}
	}
	return cells
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
