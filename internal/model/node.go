package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Node types that the report knows how to render.
const (
	TypeUIPage           = "ui-page"
	TypeUIGroup          = "ui-group"
	TypeUITemplate       = "ui-template"
	TypeUIChart          = "ui-chart"
	TypeUIIframe         = "ui-iframe"
	TypeWorldmap         = "worldmap"
	TypeMQTTBroker       = "mqtt-broker"
	TypeMQTTIn           = "mqtt in"
	TypeMQTTOut          = "mqtt out"
	TypeHTTPIn           = "http in"
	TypePostgreSQLConfig = "postgreSQLConfig"
	TypeFunction         = "function"
	TypeUITheme          = "ui-theme"
	TypeUIBase           = "ui-base"
)

// Placeholders substituted for absent values.
const (
	// UnknownType is the type of a node without a "type" field.
	UnknownType = "unknown"

	// Unnamed is the display name of a node without a "name" field.
	Unnamed = "Unnamed"

	// Unknown is rendered when a page or group id cannot be resolved.
	Unknown = "Unknown"

	// NotAvailable is rendered for absent theme colors.
	NotAvailable = "N/A"

	// MissingValue is rendered for absent fields that have no documented default.
	MissingValue = "-"
)

// UIComponentTypes lists the dashboard widget types analyzed by the report,
// in the order their subsections are written.
var UIComponentTypes = []string{
	TypeUITemplate,
	TypeUIChart,
	TypeUIIframe,
	TypeWorldmap,
}

// Node is a single element of a flow export.
// Numbers are kept as json.Number so they render exactly as written in the export.
type Node map[string]any

// Lookup returns the value stored under key.
// A key holding JSON null is reported as absent.
func (n Node) Lookup(key string) (any, bool) {
	v, ok := n[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether key is present with a non-null value.
func (n Node) Has(key string) bool {
	_, ok := n.Lookup(key)
	return ok
}

// Value returns the value under key, or def when the key is absent.
func (n Node) Value(key string, def any) any {
	if v, ok := n.Lookup(key); ok {
		return v
	}
	return def
}

// String returns the value under key formatted as text, or def when absent.
// Non-string values are formatted with FormatValue.
func (n Node) String(key, def string) string {
	if v, ok := n.Lookup(key); ok {
		return FormatValue(v)
	}
	return def
}

// Text returns the value under key formatted as text, or MissingValue.
func (n Node) Text(key string) string {
	return n.String(key, MissingValue)
}

// Map returns the nested object under key.
// The second result is false when the key is absent, not an object, or an empty object.
func (n Node) Map(key string) (Node, bool) {
	v, ok := n.Lookup(key)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	return Node(m), true
}

// Type returns the node's type, defaulting to UnknownType.
func (n Node) Type() string {
	return n.String("type", UnknownType)
}

// ID returns the node's id, or an empty string.
func (n Node) ID() string {
	return n.String("id", "")
}

// Name returns the node's display name, defaulting to Unnamed.
func (n Node) Name() string {
	return n.String("name", Unnamed)
}

// FormatValue renders a decoded JSON value as report text.
// Objects and arrays are rendered as compact JSON.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return MissingValue
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}
