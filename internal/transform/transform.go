// Package transform renders XML element trees to HTML through named,
// declarative templates. The set of transform names is fixed; all
// definitions are loaded and parsed at startup so a broken transform is
// a configuration error, not a request-time surprise.
package transform

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"aqwari.net/xml/xmltree"
)

// known maps transform names to their definition files.
var known = map[string]string{
	"movie":      "movie.html.tmpl",
	"movie-list": "movie_list.html.tmpl",
}

// Engine holds the parsed transforms. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	templates map[string]*template.Template
}

// funcs exposes element tree navigation to the transform definitions.
var funcs = template.FuncMap{
	"attr": func(el *xmltree.Element, name string) string {
		return el.Attr("", name)
	},
	"text": func(el *xmltree.Element, child string) string {
		for i := range el.Children {
			if el.Children[i].Name.Local == child {
				return elementText(&el.Children[i])
			}
		}
		return ""
	},
	"children": func(el *xmltree.Element, name string) []*xmltree.Element {
		out := make([]*xmltree.Element, 0, len(el.Children))
		for i := range el.Children {
			if el.Children[i].Name.Local == name {
				out = append(out, &el.Children[i])
			}
		}
		return out
	},
}

// NewEngine loads every known transform from dir.
func NewEngine(dir string) (*Engine, error) {
	e := &Engine{templates: make(map[string]*template.Template, len(known))}
	for name, file := range known {
		path := filepath.Join(dir, file)
		tmpl, err := template.New(file).Funcs(funcs).ParseFiles(path)
		if err != nil {
			return nil, fmt.Errorf("load transform %q from %s: %w", name, path, err)
		}
		e.templates[name] = tmpl
	}
	return e, nil
}

// Apply runs the named transform against the tree and returns the HTML
// document. Apply touches nothing but its inputs.
func (e *Engine) Apply(tree *xmltree.Element, name string) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown transform %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, tree); err != nil {
		return "", fmt.Errorf("transform %q failed: %w", name, err)
	}
	return buf.String(), nil
}

func elementText(el *xmltree.Element) string {
	var v struct {
		Data string `xml:",chardata"`
	}
	if err := xmltree.Unmarshal(el, &v); err != nil {
		return string(el.Content)
	}
	return v.Data
}
