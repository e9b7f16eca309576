// Package models defines data structures shared by the manifest, CMS client and normalizer.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FieldTypeImage marks a legacy field whose value is an image path.
const FieldTypeImage = "ezimage"

// Text is a string that also decodes from JSON numbers, booleans and null.
// The legacy CMS is loose about scalar types, so ids, timestamps and field
// values all go through it.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(data)
	}

	return nil
}

// String returns the plain string value.
func (t Text) String() string {
	return string(t)
}

// LegacyField is a single named field of a legacy content object.
type LegacyField struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value Text   `json:"value"`
}

// IsImage reports whether the field holds an image path.
func (f LegacyField) IsImage() bool {
	return f.Type == FieldTypeImage
}

// LegacyObject is a content object as returned by the legacy CMS.
type LegacyObject struct {
	NodeID       Text          `json:"nodeId"`
	ObjectID     Text          `json:"objectId,omitempty"`
	ContentClass string        `json:"contentClass"`
	Published    Text          `json:"published,omitempty"`
	Fields       []LegacyField `json:"fields"`
}

// HasPublished reports whether the object carries a usable publish timestamp.
// Zero counts as absent.
func (o *LegacyObject) HasPublished() bool {
	if o.Published == "" {
		return false
	}

	n, err := strconv.ParseFloat(string(o.Published), 64)
	if err != nil {
		return true
	}

	return n != 0
}

// Found reports whether the CMS returned field data for the object.
func (o *LegacyObject) Found() bool {
	return o != nil && o.Fields != nil
}
