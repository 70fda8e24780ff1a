package records

import (
	"encoding/json"
	"errors"
	"fmt"

	"agesync/internal/age"
)

var (
	ErrNoCategories     = errors.New("missing categories")
	ErrMissingName      = errors.New("missing name")
	ErrMissingBirthDate = errors.New("missing date_of_birth")
	ErrDuplicateName    = errors.New("duplicate name")
)

// Record is one named entity with a birth date and its last computed age.
// Fields the schema does not know about are kept in Extra and written back
// in their original position.
type Record struct {
	Name        string
	DateOfBirth string
	Age         *age.Duration
	Extra       map[string]json.RawMessage

	keys []string
}

// Category is a named, ordered group of records
type Category struct {
	Name    string
	Records []Record
}

// Collection is the whole record file
type Collection struct {
	Categories []Category
	Extra      map[string]json.RawMessage

	keys []string
}

// RecordError identifies the record a validation or compute error belongs to
type RecordError struct {
	Category string
	Index    int
	Name     string
	Err      error
}

func (e *RecordError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("category %q record %d (%s): %v", e.Category, e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("category %q record %d: %v", e.Category, e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Category returns the category with the given name, or nil
func (c *Collection) Category(name string) *Category {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i]
		}
	}
	return nil
}

// Len returns the number of records across all categories
func (c *Collection) Len() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Records)
	}
	return n
}

// Each visits every record in file order. Iteration stops at the first
// error, which is returned wrapped in a RecordError.
func (c *Collection) Each(fn func(category string, r *Record) error) error {
	for ci := range c.Categories {
		cat := &c.Categories[ci]
		for ri := range cat.Records {
			rec := &cat.Records[ri]
			if err := fn(cat.Name, rec); err != nil {
				return &RecordError{Category: cat.Name, Index: ri, Name: rec.Name, Err: err}
			}
		}
	}
	return nil
}

// Validate checks every record has a name and a birth date and that names
// are unique, since names are the keys used to patch the document.
func (c *Collection) Validate() error {
	seen := make(map[string]string)
	for _, cat := range c.Categories {
		for i, rec := range cat.Records {
			if rec.Name == "" {
				return &RecordError{Category: cat.Name, Index: i, Err: ErrMissingName}
			}
			if rec.DateOfBirth == "" {
				return &RecordError{Category: cat.Name, Index: i, Name: rec.Name, Err: ErrMissingBirthDate}
			}
			if prev, ok := seen[rec.Name]; ok {
				return &RecordError{
					Category: cat.Name,
					Index:    i,
					Name:     rec.Name,
					Err:      fmt.Errorf("%w: also in category %q", ErrDuplicateName, prev),
				}
			}
			seen[rec.Name] = cat.Name
		}
	}
	return nil
}
