package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"strings"

	"aqwari.net/xml/xmltree"
)

// Element construction helpers shared by the encoders. The xmltree
// encoder writes Content verbatim, so escaping (or deliberately not
// escaping, for CDATA) happens here.

func newElement(local string) *xmltree.Element {
	return &xmltree.Element{
		StartElement: xml.StartElement{
			Name: xml.Name{Local: local},
		},
	}
}

// setAttr escapes the value before storing it: the tree encoder writes
// attribute values verbatim, so a raw quote or ampersand would produce
// malformed XML.
func setAttr(el *xmltree.Element, local, value string) {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(value))
	el.SetAttr("", local, buf.String())
}

func appendChild(parent, child *xmltree.Element) {
	parent.Children = append(parent.Children, *child)
}

func appendTextChild(parent *xmltree.Element, local, text string) {
	el := newElement(local)
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(text))
	el.Content = buf.Bytes()
	appendChild(parent, el)
}

// appendCDATAChild emits the text as a literal character data block.
// An embedded "]]>" would terminate the block early, so it is split
// across two adjacent blocks.
func appendCDATAChild(parent *xmltree.Element, local, text string) {
	el := newElement(local)
	escaped := strings.ReplaceAll(text, "]]>", "]]]]><![CDATA[>")
	el.Content = []byte("<![CDATA[" + escaped + "]]>")
	appendChild(parent, el)
}

// childText returns the decoded text of the first direct child with the
// given name. Entity references and CDATA sections are resolved, so the
// caller sees the original string.
func childText(parent *xmltree.Element, local string) (string, bool) {
	for i := range parent.Children {
		child := &parent.Children[i]
		if child.Name.Local != local {
			continue
		}
		return elementText(child), true
	}
	return "", false
}

func elementText(el *xmltree.Element) string {
	var v struct {
		Data string `xml:",chardata"`
	}
	if err := xmltree.Unmarshal(el, &v); err != nil {
		// Content that does not re-parse is returned raw rather than lost.
		return string(el.Content)
	}
	return v.Data
}
