package common

// Ref is a compact reference to another Redmine object: its id plus the
// display name. JSON reads carry these as nested objects, XML reads as
// attributes on the element.
type Ref struct {
	ID   int    `json:"id" xml:"id,attr"`
	Name string `json:"name,omitempty" xml:"name,attr,omitempty"`
}
