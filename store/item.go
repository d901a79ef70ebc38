package store

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrMissingKey is returned when an item does not carry its key attribute as a string.
	ErrMissingKey = errors.New("item is missing its key attribute")
	// ErrAttributeType is returned when an attribute is read as the wrong type.
	ErrAttributeType = errors.New("attribute has unexpected type")
	// ErrMissingAttribute is returned when a required attribute is absent from an item.
	ErrMissingAttribute = errors.New("attribute not found")
)

// AttributeType tags the value held by an AttributeValue.
type AttributeType string

const (
	// TypeString is a plain string attribute.
	TypeString AttributeType = "S"
	// TypeNumber is a number attribute. The value is kept in its string form.
	TypeNumber AttributeType = "N"
)

// AttributeValue is a single typed attribute of an item.
type AttributeValue struct {
	Type  AttributeType `json:"t"`
	Value string        `json:"v"`
}

func String(v string) AttributeValue {
	return AttributeValue{Type: TypeString, Value: v}
}

func Number(v int64) AttributeValue {
	return AttributeValue{Type: TypeNumber, Value: strconv.FormatInt(v, 10)}
}

// Item is one record of a table, keyed by attribute name.
type Item map[string]AttributeValue

// String returns the string attribute with the given name.
func (i Item) String(name string) (string, error) {
	av, ok := i[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrMissingAttribute)
	}
	if av.Type != TypeString {
		return "", fmt.Errorf("%s is %s: %w", name, av.Type, ErrAttributeType)
	}
	return av.Value, nil
}

// Int returns the number attribute with the given name parsed as an integer.
func (i Item) Int(name string) (int64, error) {
	av, ok := i[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrMissingAttribute)
	}
	if av.Type != TypeNumber {
		return 0, fmt.Errorf("%s is %s: %w", name, av.Type, ErrAttributeType)
	}
	n, err := strconv.ParseInt(av.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", name, err)
	}
	return n, nil
}

// key returns the value of the key attribute of the item.
func (i Item) key(attr string) (string, error) {
	av, ok := i[attr]
	if !ok || av.Type != TypeString || av.Value == "" {
		return "", ErrMissingKey
	}
	return av.Value, nil
}
