package graph

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ErrNotFound is the sentinel returned by lookup helpers when a query
// executes successfully but matches no record.
var ErrNotFound = errors.New("record not found")

// entityMetadata holds the parsed `crud` tag information for a struct type.
type entityMetadata struct {
	// Label is the graph node label, defaulting to the struct's name.
	Label string
	// Mappings maps struct field names to their database property names.
	Mappings map[string]string
	// Optional marks fields that are skipped when zero-valued ("omitempty").
	Optional map[string]bool
}

// metaCache stores parsed entityMetadata per type so reflection only runs
// once per struct shape.
var metaCache sync.Map

// parseTagsFromType inspects a struct type and extracts its persistence
// metadata from `crud` tags. Unlike a full repository mapping, no primary-key
// tag is required here: Address nodes carry no generated identifier.
func parseTagsFromType(typ reflect.Type) (*entityMetadata, error) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type %s is not a struct", typ.Name())
	}

	if cached, ok := metaCache.Load(typ); ok {
		return cached.(*entityMetadata), nil
	}

	meta := &entityMetadata{
		Label:    typ.Name(),
		Mappings: make(map[string]string),
		Optional: make(map[string]bool),
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("crud")
		if tag == "" {
			continue
		}

		propName := ""
		optional := false
		for _, part := range strings.Split(tag, ",") {
			if strings.HasPrefix(part, "property:") {
				propName = strings.TrimPrefix(part, "property:")
			}
			if part == "omitempty" {
				optional = true
			}
		}

		if propName == "" {
			return nil, fmt.Errorf("field %s is missing 'property' tag component", field.Name)
		}
		meta.Mappings[field.Name] = propName
		meta.Optional[field.Name] = optional
	}

	if len(meta.Mappings) == 0 {
		return nil, fmt.Errorf("struct %s has no 'crud' tagged fields", typ.Name())
	}

	metaCache.Store(typ, meta)
	return meta, nil
}

// Props builds the node property map for an entity from its `crud` tags.
// Fields tagged omitempty are excluded while zero-valued, so optional
// properties (seller fields, sellerId) are only stored once actually set.
func Props(entity any) (map[string]any, error) {
	val := reflect.ValueOf(entity)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	meta, err := parseTagsFromType(val.Type())
	if err != nil {
		return nil, err
	}

	props := make(map[string]any, len(meta.Mappings))
	for fieldName, propName := range meta.Mappings {
		field := val.FieldByName(fieldName)
		if meta.Optional[fieldName] && field.IsZero() {
			continue
		}
		props[propName] = field.Interface()
	}
	return props, nil
}

// ScanNode populates a struct's fields from a node's properties based on the
// `crud` tags. Numeric properties come back from the driver as int64/float64
// and are converted to the destination field type.
func ScanNode(node neo4j.Node, dest any) error {
	val := reflect.ValueOf(dest)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("destination must be a non-nil pointer")
	}
	elem := val.Elem()

	meta, err := parseTagsFromType(elem.Type())
	if err != nil {
		return err
	}

	for fieldName, propName := range meta.Mappings {
		field := elem.FieldByName(fieldName)
		if !field.IsValid() || !field.CanSet() {
			continue
		}
		propValue, ok := node.Props[propName]
		if !ok {
			continue
		}

		value := reflect.ValueOf(propValue)
		if !value.Type().AssignableTo(field.Type()) {
			if !value.Type().ConvertibleTo(field.Type()) {
				return fmt.Errorf("property %q of type %T cannot be stored in field %s", propName, propValue, fieldName)
			}
			value = value.Convert(field.Type())
		}
		field.Set(value)
	}
	return nil
}
