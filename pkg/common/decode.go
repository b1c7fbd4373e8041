package common

import (
	"encoding/json"
	"encoding/xml"
	"strings"
)

// XMLNode is a generic XML element tree, used when a response body must be
// inspected without a typed schema.
type XMLNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []XMLNode  `xml:",any"`
}

// Child returns the first direct child with the given local name, or nil.
func (n *XMLNode) Child(name string) *XMLNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

// Attr returns the value of the attribute with the given local name.
func (n *XMLNode) Attr(name string) string {
	for _, attr := range n.Attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// Decoded is the outcome of decoding one response body. A JSON body that
// fails to parse is recorded as a decode error message rather than an error
// return, so callers can surface it without aborting; Ok reports which case
// applies.
type Decoded struct {
	value  any
	errMsg string
}

// Ok reports whether the body decoded cleanly (or was empty).
func (d Decoded) Ok() bool {
	return d.errMsg == ""
}

// Value returns the decoded value: a map[string]any/[]any tree for JSON,
// an *XMLNode for XML, a string for any other content type, or nil for an
// empty body.
func (d Decoded) Value() any {
	return d.value
}

// ErrMessage returns the JSON decode error message, or "" when Ok.
func (d Decoded) ErrMessage() string {
	return d.errMsg
}

// Map returns the decoded value as an object, or nil when the value is not
// a JSON object.
func (d Decoded) Map() map[string]any {
	m, _ := d.value.(map[string]any)
	return m
}

// Decode parses a raw response body according to its declared content type.
//
// An empty body decodes to a nil value. An XML body is parsed into a generic
// element tree; malformed XML from a successful response is unexpected, so
// the parse error propagates. A JSON body is parsed into a generic tree;
// JSON parse failures are soft and end up inside the returned Decoded.
// Any other content type is passed through as the raw string.
func Decode(body []byte, contentType string) (Decoded, error) {
	if len(body) == 0 {
		return Decoded{}, nil
	}
	switch {
	case strings.HasPrefix(contentType, "application/xml"):
		var root XMLNode
		if err := xml.Unmarshal(body, &root); err != nil {
			return Decoded{}, err
		}
		return Decoded{value: &root}, nil
	case strings.HasPrefix(contentType, "application/json"):
		var value any
		if err := json.Unmarshal(body, &value); err != nil {
			return Decoded{errMsg: "Error decoding body as JSON: " + err.Error()}, nil
		}
		return Decoded{value: value}, nil
	default:
		return Decoded{value: string(body)}, nil
	}
}
