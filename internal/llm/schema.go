package llm

// SchemaType enumerates the JSON Schema primitive types used by plan schemas.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeInteger SchemaType = "integer"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
)

// Schema is a provider-neutral subset of JSON Schema. It marshals as plain
// JSON Schema and is converted for providers that use their own shape.
type Schema struct {
	Type                 SchemaType         `json:"type"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering     []string           `json:"-"`
	Items                *Schema            `json:"items,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

// Object builds an object schema whose properties are all required, in the
// given order.
func Object(description string, fields ...Field) *Schema {
	closed := false
	s := &Schema{
		Type:                 TypeObject,
		Description:          description,
		Properties:           make(map[string]*Schema, len(fields)),
		AdditionalProperties: &closed,
	}
	for _, f := range fields {
		s.Properties[f.Name] = f.Schema
		s.PropertyOrdering = append(s.PropertyOrdering, f.Name)
		s.Required = append(s.Required, f.Name)
	}
	return s
}

// Field is a named property of an object schema.
type Field struct {
	Name   string
	Schema *Schema
}

func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

func ArrayOf(items *Schema, description string) *Schema {
	return &Schema{Type: TypeArray, Items: items, Description: description}
}
