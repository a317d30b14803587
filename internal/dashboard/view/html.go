package view

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const plotlyScriptURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

const plotBootstrap = `document.querySelectorAll("[data-plot-data]").forEach(function (el) {
  Plotly.newPlot(el, JSON.parse(el.dataset.plotData), JSON.parse(el.dataset.plotLayout), {responsive: el.dataset.plotResize === "true"});
});`

// RenderHTML writes the tree as an HTML fragment.
func RenderHTML(w io.Writer, n *Node) error {
	hn, err := toHTML(n)
	if err != nil {
		return err
	}
	return html.Render(w, hn)
}

// RenderPage writes a complete HTML document with body as its content.
func RenderPage(w io.Writer, title string, body *Node) error {
	content, err := toHTML(body)
	if err != nil {
		return err
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	titleEl := element(atom.Title)
	titleEl.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head.AppendChild(titleEl)

	bodyEl := element(atom.Body)
	app := element(atom.Div)
	app.Attr = []html.Attribute{{Key: "id", Val: "app"}}
	app.AppendChild(content)
	bodyEl.AppendChild(app)

	if len(body.Find(func(c *Node) bool { return c.Plot != nil })) > 0 {
		lib := element(atom.Script)
		lib.Attr = []html.Attribute{{Key: "src", Val: plotlyScriptURL}}
		bodyEl.AppendChild(lib)
		boot := element(atom.Script)
		boot.AppendChild(&html.Node{Type: html.TextNode, Data: plotBootstrap})
		bodyEl.AppendChild(boot)
	}

	root.AppendChild(head)
	root.AppendChild(bodyEl)
	doc.AppendChild(root)

	return html.Render(w, doc)
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func toHTML(n *Node) (*html.Node, error) {
	if n.Kind == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Text}, nil
	}
	if n.Tag == "" {
		return nil, fmt.Errorf("render: element without tag")
	}

	hn := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	if n.Class != "" {
		hn.Attr = append(hn.Attr, html.Attribute{Key: "class", Val: n.Class})
	}

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		hn.Attr = append(hn.Attr, html.Attribute{Key: k, Val: n.Attrs[k]})
	}

	if n.Plot != nil {
		data, err := json.Marshal(n.Plot.Data)
		if err != nil {
			return nil, fmt.Errorf("render plot data: %w", err)
		}
		layout, err := json.Marshal(n.Plot.Layout)
		if err != nil {
			return nil, fmt.Errorf("render plot layout: %w", err)
		}
		hn.Attr = append(hn.Attr,
			html.Attribute{Key: "data-plot-data", Val: string(data)},
			html.Attribute{Key: "data-plot-layout", Val: string(layout)},
			html.Attribute{Key: "data-plot-resize", Val: fmt.Sprint(n.Plot.UseResizeHandler)},
		)
	}

	for _, c := range n.Children {
		ch, err := toHTML(c)
		if err != nil {
			return nil, err
		}
		hn.AppendChild(ch)
	}
	return hn, nil
}
