package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"agesync/internal/age"
)

const (
	keyCategories  = "categories"
	keyName        = "name"
	keyDateOfBirth = "date_of_birth"
	keyAge         = "age"
)

// Decode parses a record file. The stored age is not read back: it is only
// a cache of the previous run.
func Decode(data []byte) (*Collection, error) {
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Encode renders the collection with two-space indentation and no trailing
// newline. HTML characters are left unescaped.
func Encode(c *Collection) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (c *Collection) UnmarshalJSON(data []byte) error {
	keys, fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("record file: %w", err)
	}

	raw, ok := fields[keyCategories]
	if !ok {
		return ErrNoCategories
	}
	catKeys, catFields, err := decodeObject(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", keyCategories, err)
	}

	c.Categories = make([]Category, 0, len(catKeys))
	for _, name := range catKeys {
		var recs []Record
		if err := json.Unmarshal(catFields[name], &recs); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
		c.Categories = append(c.Categories, Category{Name: name, Records: recs})
	}

	c.keys = keys
	c.Extra = pick(fields, keyCategories)
	return nil
}

func (c Collection) MarshalJSON() ([]byte, error) {
	return encodeObject(c.keys, []string{keyCategories}, func(key string) (any, bool) {
		if key == keyCategories {
			return orderedCategories(c.Categories), true
		}
		v, ok := c.Extra[key]
		return v, ok
	})
}

type orderedCategories []Category

func (oc orderedCategories) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(oc))
	byName := make(map[string][]Record, len(oc))
	for _, cat := range oc {
		if _, dup := byName[cat.Name]; !dup {
			keys = append(keys, cat.Name)
		}
		recs := cat.Records
		if recs == nil {
			recs = []Record{}
		}
		byName[cat.Name] = recs
	}
	return encodeObject(keys, nil, func(key string) (any, bool) {
		v, ok := byName[key]
		return v, ok
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	keys, fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}

	*r = Record{keys: keys}
	if raw, ok := fields[keyName]; ok {
		if err := json.Unmarshal(raw, &r.Name); err != nil {
			return fmt.Errorf("record %s: %w", keyName, err)
		}
	}
	if raw, ok := fields[keyDateOfBirth]; ok {
		if err := json.Unmarshal(raw, &r.DateOfBirth); err != nil {
			return fmt.Errorf("record %q %s: %w", r.Name, keyDateOfBirth, err)
		}
	}
	r.Extra = pick(fields, keyName, keyDateOfBirth, keyAge)
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	return encodeObject(r.keys, []string{keyName, keyDateOfBirth, keyAge}, func(key string) (any, bool) {
		switch key {
		case keyName:
			return r.Name, true
		case keyDateOfBirth:
			return r.DateOfBirth, true
		case keyAge:
			if r.Age == nil {
				return nil, false
			}
			return *r.Age, true
		}
		v, ok := r.Extra[key]
		return v, ok
	})
}

// SetAge replaces the cached age
func (r *Record) SetAge(d age.Duration) {
	r.Age = &d
}

// decodeObject reads a JSON object keeping the order of its keys.
// A repeated key keeps its first position and its last value.
func decodeObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", key, err)
		}
		if _, seen := fields[key]; !seen {
			keys = append(keys, key)
		}
		fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, fields, nil
}

// encodeObject writes keys in order, then any of required not already
// written. lookup reports false for keys that should be omitted.
func encodeObject(keys, required []string, lookup func(string) (any, bool)) ([]byte, error) {
	var buf bytes.Buffer
	written := make(map[string]bool, len(keys)+len(required))
	buf.WriteByte('{')

	write := func(key string) error {
		if written[key] {
			return nil
		}
		written[key] = true
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		kb, err := marshalValue(key)
		if err != nil {
			return err
		}
		vb, err := marshalValue(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return nil
	}

	for _, key := range keys {
		if err := write(key); err != nil {
			return nil, err
		}
	}
	for _, key := range required {
		if err := write(key); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func pick(fields map[string]json.RawMessage, skip ...string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage)
	for k, v := range fields {
		if slices.Contains(skip, k) {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
