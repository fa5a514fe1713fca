package lawdoc

import (
	"encoding/json"
	"errors"
)

// UnmarshalJSON decodes a scraped law without rejecting odd shapes. Fields of
// the wrong type are treated as absent and non-string array items are
// dropped, so a badly structured file still yields whatever it can.
func (d *RawDocument) UnmarshalJSON(data []byte) error {
	if !json.Valid(data) {
		return errors.New("lawdoc: invalid json")
	}

	*d = RawDocument{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// Valid JSON but not an object: nothing usable.
		return nil
	}

	if s, ok := decodeString(fields["title"]); ok {
		d.Title = s
	}
	if lines, ok := decodeStrings(fields["lines"]); ok {
		d.Lines = lines
	}
	if paras, ok := decodeStrings(fields["paragraphs"]); ok {
		d.Paragraphs = paras
	}
	if s, ok := decodeString(fields["content"]); ok {
		d.Content = &s
	}
	if sections, ok := decodeSections(fields["sections"]); ok {
		d.Sections = sections
	}
	return nil
}

func decodeString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeStrings(raw json.RawMessage) ([]string, bool) {
	if raw == nil {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := decodeString(item); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// decodeSections accepts {title|h, body|p} objects. "title" wins over "h"
// and "body" over "p" whenever it holds a string.
func decodeSections(raw json.RawMessage) ([]Section, bool) {
	if raw == nil {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	out := make([]Section, 0, len(items))
	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			out = append(out, Section{})
			continue
		}
		var sec Section
		if s, ok := decodeString(obj["title"]); ok {
			sec.Title = s
		} else if s, ok := decodeString(obj["h"]); ok {
			sec.Title = s
		}
		if s, ok := decodeString(obj["body"]); ok {
			sec.Body = s
		} else if s, ok := decodeString(obj["p"]); ok {
			sec.Body = s
		}
		out = append(out, sec)
	}
	return out, true
}
