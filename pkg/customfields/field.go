// Package customfields serializes Redmine custom field values: the XML
// container attached to write payloads, and the JSON shape returned on reads.
package customfields

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
)

// Field is one custom field value to attach to a write payload. ID and Value
// are required; Name and Format are decorative attributes Redmine ignores on
// write but tooling likes to see. A slice Value marks the field as multiple;
// a map Value containing a "token" key (attachment-style fields) is emitted
// with the map keys as element names.
type Field struct {
	ID     int
	Name   string
	Format string
	Value  any
}

// CustomField is a custom field as it appears in JSON read responses.
type CustomField struct {
	ID       int    `json:"id"`
	Name     string `json:"name,omitempty"`
	Multiple bool   `json:"multiple,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// Fields serializes as the <custom_fields type="array"> container that
// Redmine expects inside XML write payloads.
type Fields []Field

// MarshalXML implements xml.Marshaler. Field values are taken as given: no
// validation against the server schema happens here, and a field missing its
// id or value is a caller error.
func (fields Fields) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if len(fields) == 0 {
		return nil
	}
	start.Name.Local = "custom_fields"
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "type"}, Value: "array"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, field := range fields {
		if err := field.encode(e); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (f Field) encode(e *xml.Encoder) error {
	element := xml.StartElement{
		Name: xml.Name{Local: "custom_field"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "id"}, Value: strconv.Itoa(f.ID)}},
	}
	if f.Name != "" {
		element.Attr = append(element.Attr, xml.Attr{Name: xml.Name{Local: "name"}, Value: f.Name})
	}
	if f.Format != "" {
		element.Attr = append(element.Attr, xml.Attr{Name: xml.Name{Local: "field_format"}, Value: f.Format})
	}

	switch value := f.Value.(type) {
	case []string:
		items := make([]any, len(value))
		for i, item := range value {
			items[i] = item
		}
		return encodeMultiple(e, element, items)
	case []any:
		return encodeMultiple(e, element, value)
	case map[string]any:
		return encodeKeyed(e, element, value)
	default:
		if err := e.EncodeToken(element); err != nil {
			return err
		}
		if err := e.EncodeToken(xml.CharData(valueString(value))); err != nil {
			return err
		}
		return e.EncodeToken(element.End())
	}
}

func encodeMultiple(e *xml.Encoder, element xml.StartElement, items []any) error {
	element.Attr = append(element.Attr, xml.Attr{Name: xml.Name{Local: "multiple"}, Value: "true"})
	if err := e.EncodeToken(element); err != nil {
		return err
	}
	for _, item := range items {
		if err := encodeChild(e, "value", item); err != nil {
			return err
		}
	}
	return e.EncodeToken(element.End())
}

// encodeKeyed handles map values. A map carrying a "token" key (uploaded
// attachments) keeps its keys as element names; any other map falls back to
// anonymous <value> children of its values.
func encodeKeyed(e *xml.Encoder, element xml.StartElement, value map[string]any) error {
	element.Attr = append(element.Attr, xml.Attr{Name: xml.Name{Local: "multiple"}, Value: "true"})
	if err := e.EncodeToken(element); err != nil {
		return err
	}

	keys := make([]string, 0, len(value))
	for key := range value {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	_, tokenKeyed := value["token"]
	for _, key := range keys {
		name := "value"
		if tokenKeyed {
			name = key
		}
		if err := encodeChild(e, name, value[key]); err != nil {
			return err
		}
	}
	return e.EncodeToken(element.End())
}

func encodeChild(e *xml.Encoder, name string, value any) error {
	child := xml.StartElement{Name: xml.Name{Local: name}}
	if err := e.EncodeToken(child); err != nil {
		return err
	}
	if err := e.EncodeToken(xml.CharData(valueString(value))); err != nil {
		return err
	}
	return e.EncodeToken(child.End())
}

func valueString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
