// Package schema validates inbound XML documents against an XSD before
// any field is trusted. The schema document is parsed once, at startup;
// a schema that cannot be loaded is a fatal configuration problem, not a
// per-request error.
package schema

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"aqwari.net/xml/xmltree"
	"aqwari.net/xml/xsd"
)

// ErrorKind separates documents that are not XML at all from documents
// that are well-formed but violate the schema.
type ErrorKind int

const (
	KindSyntax ErrorKind = iota + 1
	KindSchema
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindSchema:
		return "schema violation"
	}
	return "unknown"
}

// Error is the validation failure reported to callers. Message names the
// parser diagnostic or the specific constraint that was violated.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func syntaxErr(format string, args ...interface{}) *Error {
	return &Error{Kind: KindSyntax, Message: fmt.Sprintf(format, args...)}
}

func schemaErr(format string, args ...interface{}) *Error {
	return &Error{Kind: KindSchema, Message: fmt.Sprintf(format, args...)}
}

// Validator checks instance documents against one root element type of a
// parsed schema. It is immutable after construction and safe for
// concurrent use.
type Validator struct {
	root     string
	rootType *xsd.ComplexType
}

// NewValidator parses the schema document and locates the complex type of
// the expected root element.
func NewValidator(xsdDoc []byte, rootName string) (*Validator, error) {
	schemas, err := xsd.Parse(xsdDoc)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	for _, s := range schemas {
		// Top-level element declarations are aliased into Types under the
		// element's own name; FindType matches on the type's XMLName only,
		// so the alias has to be looked up directly.
		t, ok := s.Types[xml.Name{Space: s.TargetNS, Local: rootName}]
		if !ok {
			continue
		}
		ct, ok := t.(*xsd.ComplexType)
		if !ok {
			return nil, fmt.Errorf("schema type for root element %q is not a complex type", rootName)
		}
		return &Validator{root: rootName, rootType: ct}, nil
	}
	return nil, fmt.Errorf("schema does not declare a %q element", rootName)
}

// NewValidatorFromFile is NewValidator reading the schema from disk.
func NewValidatorFromFile(path, rootName string) (*Validator, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return NewValidator(raw, rootName)
}

// Validate parses raw as XML and checks it against the schema. On success
// the parsed tree is returned so callers do not re-parse. On failure the
// returned error is always a *Error and the tree is nil.
func (v *Validator) Validate(raw []byte) (*xmltree.Element, error) {
	root, err := xmltree.Parse(raw)
	if err != nil {
		return nil, syntaxErr("document is not well-formed XML: %v", err)
	}
	if root.Name.Local != v.root {
		return nil, schemaErr("unexpected root element <%s>, want <%s>", root.Name.Local, v.root)
	}
	if err := v.validateComplex(root, v.rootType, root.Name.Local); err != nil {
		return nil, err
	}
	return root, nil
}

func (v *Validator) validateComplex(el *xmltree.Element, t *xsd.ComplexType, path string) *Error {
	// Attributes: every declared attribute that is not optional must be
	// present, and no undeclared attribute may appear.
	declaredAttr := make(map[string]xsd.Attribute, len(t.Attributes))
	for _, attr := range t.Attributes {
		declaredAttr[attr.Name.Local] = attr
		value := el.Attr("", attr.Name.Local)
		if value == "" {
			if !attr.Optional {
				return schemaErr("%s: missing required attribute %q", path, attr.Name.Local)
			}
			continue
		}
		if err := v.validateSimple(value, attr.Type, path+"/@"+attr.Name.Local); err != nil {
			return err
		}
	}
	for _, attr := range el.StartElement.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		if _, ok := declaredAttr[attr.Name.Local]; !ok {
			return schemaErr("%s: attribute %q is not allowed", path, attr.Name.Local)
		}
	}

	// Child elements: occurrence bounds per declared element, nothing
	// undeclared. Order is not enforced.
	declaredEl := make(map[string]xsd.Element, len(t.Elements))
	counts := make(map[string]int)
	for _, child := range t.Elements {
		declaredEl[child.Name.Local] = child
	}
	for i := range el.Children {
		child := &el.Children[i]
		decl, ok := declaredEl[child.Name.Local]
		if !ok {
			return schemaErr("%s: element <%s> is not allowed", path, child.Name.Local)
		}
		counts[child.Name.Local]++
		childPath := path + "/" + child.Name.Local
		switch ct := decl.Type.(type) {
		case *xsd.ComplexType:
			if err := v.validateComplex(child, ct, childPath); err != nil {
				return err
			}
		default:
			if err := v.validateSimple(childElementText(child), decl.Type, childPath); err != nil {
				return err
			}
		}
	}
	for _, decl := range t.Elements {
		n := counts[decl.Name.Local]
		if n == 0 && !decl.Optional {
			return schemaErr("%s: missing required element <%s>", path, decl.Name.Local)
		}
		if n > 1 && !decl.Plural {
			return schemaErr("%s: element <%s> may appear at most once", path, decl.Name.Local)
		}
	}

	return nil
}

// validateSimple walks a simple type down to its builtin base, applying
// restriction facets on the way.
func (v *Validator) validateSimple(value string, t xsd.Type, path string) *Error {
	switch t := t.(type) {
	case xsd.Builtin:
		return v.validateBuiltin(value, t, path)
	case *xsd.SimpleType:
		if err := v.validateRestriction(value, t, path); err != nil {
			return err
		}
		if len(t.Union) > 0 {
			for _, member := range t.Union {
				if v.validateSimple(value, member, path) == nil {
					return nil
				}
			}
			return schemaErr("%s: value %q matches no member of the union type", path, value)
		}
		if t.List {
			for _, item := range strings.Fields(value) {
				if err := v.validateSimple(item, t.Base, path); err != nil {
					return err
				}
			}
			return nil
		}
		return v.validateSimple(value, t.Base, path)
	case *xsd.ComplexType:
		// complexType with simpleContent
		return v.validateSimple(value, t.Base, path)
	}
	return nil
}

func (v *Validator) validateRestriction(value string, t *xsd.SimpleType, path string) *Error {
	r := t.Restriction

	// XSD patterns are implicitly anchored; the compiled expression is
	// not, so require the match to cover the whole value.
	if r.Pattern != nil {
		loc := r.Pattern.FindStringIndex(value)
		if loc == nil || loc[0] != 0 || loc[1] != len(value) {
			return schemaErr("%s: value %q does not match pattern %q", path, value, r.Pattern.String())
		}
	}

	if len(r.Enum) > 0 {
		found := false
		for _, e := range r.Enum {
			if e == value {
				found = true
				break
			}
		}
		if !found {
			return schemaErr("%s: value %q is not one of the allowed values %v", path, value, r.Enum)
		}
	}

	length := utf8.RuneCountInString(value)
	if r.MinLength > 0 && length < r.MinLength {
		return schemaErr("%s: value is shorter than the minimum length %d", path, r.MinLength)
	}
	if r.MaxLength > 0 && length > r.MaxLength {
		return schemaErr("%s: value is longer than the maximum length %d", path, r.MaxLength)
	}

	// Min and Max are exclusive bounds; zero means the facet is absent.
	if r.Min != 0 || r.Max != 0 {
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return schemaErr("%s: value %q is not numeric", path, value)
		}
		if r.Min != 0 && n <= r.Min {
			return schemaErr("%s: value %v is below the minimum", path, n)
		}
		if r.Max != 0 && n >= r.Max {
			return schemaErr("%s: value %v is above the maximum", path, n)
		}
	}

	if r.Precision > 0 {
		if i := strings.IndexByte(value, '.'); i >= 0 && len(value)-i-1 > r.Precision {
			return schemaErr("%s: value %q has more than %d fraction digits", path, value, r.Precision)
		}
	}

	return nil
}

func (v *Validator) validateBuiltin(value string, b xsd.Builtin, path string) *Error {
	value = strings.TrimSpace(value)
	switch b {
	case xsd.Int, xsd.Integer, xsd.Long, xsd.Short, xsd.Byte,
		xsd.NegativeInteger, xsd.NonNegativeInteger, xsd.NonPositiveInteger, xsd.PositiveInteger,
		xsd.UnsignedInt, xsd.UnsignedLong, xsd.UnsignedShort, xsd.UnsignedByte:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return schemaErr("%s: value %q is not a valid integer", path, value)
		}
	case xsd.Decimal, xsd.Float, xsd.Double:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return schemaErr("%s: value %q is not a valid decimal", path, value)
		}
	case xsd.Boolean:
		switch value {
		case "true", "false", "0", "1":
		default:
			return schemaErr("%s: value %q is not a valid boolean", path, value)
		}
	case xsd.AnyURI:
		if _, err := url.Parse(value); err != nil {
			return schemaErr("%s: value %q is not a valid URI", path, value)
		}
	}
	// Remaining builtins (string family, dates) accept any character data.
	return nil
}

// childElementText decodes the character data of a leaf element,
// resolving entities and CDATA sections.
func childElementText(el *xmltree.Element) string {
	var v struct {
		Data string `xml:",chardata"`
	}
	if err := xmltree.Unmarshal(el, &v); err != nil {
		return string(el.Content)
	}
	return v.Data
}
