package content

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading is one entry of a page outline.
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Outline scans rendered HTML for the first h1, used as the page title, and
// for every h2 and h3 that carries an id.
func Outline(rendered string) (string, []Heading) {
	var (
		title   string
		toc     = []Heading{}
		current *Heading
		inTitle bool
		text    strings.Builder
	)

	z := html.NewTokenizer(strings.NewReader(rendered))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return title, toc

		case html.StartTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.H1:
				if title == "" {
					inTitle = true
					text.Reset()
				}
			case atom.H2, atom.H3:
				id := attr(tok, "id")
				if id == "" {
					continue
				}
				level := 2
				if tok.DataAtom == atom.H3 {
					level = 3
				}
				current = &Heading{Level: level, ID: id}
				text.Reset()
			}

		case html.TextToken:
			if inTitle || current != nil {
				text.Write(z.Text())
			}

		case html.EndTagToken:
			tok := z.Token()
			switch {
			case inTitle && tok.DataAtom == atom.H1:
				title = collapse(text.String())
				inTitle = false
			case current != nil && (tok.DataAtom == atom.H2 || tok.DataAtom == atom.H3):
				current.Text = collapse(text.String())
				toc = append(toc, *current)
				current = nil
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
