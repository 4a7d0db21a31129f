package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/jsctools/schemaerrors"
	"go.yaml.in/yaml/v4"
)

// primitiveTypes is the set of JSON Schema primitive type names.
var primitiveTypes = map[string]bool{
	"string": true, "integer": true, "number": true,
	"boolean": true, "null": true, "object": true,
}

// Parse parses a JSON Schema document (JSON or YAML) into a schema tree.
// Key order is preserved: definitions and properties appear in the tree in
// document order, which in turn drives emission order downstream.
//
// rootName names the class generated for top-level properties, when present.
func Parse(data []byte, rootName string) (*Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &schemaerrors.ParseError{Message: "invalid schema document", Cause: err}
	}
	root := documentRoot(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, &schemaerrors.ParseError{Message: "schema document must be an object"}
	}
	return parseTree(root, rootName)
}

// ParseFile reads and parses a schema file. The root class name defaults to
// the file base name without its extension.
func ParseFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &schemaerrors.ParseError{Path: path, Message: "cannot read schema file", Cause: err}
	}
	rootName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	rootName = strings.TrimSuffix(rootName, ".schema")
	tree, err := Parse(data, rootName)
	if err != nil {
		if pe, ok := err.(*schemaerrors.ParseError); ok && pe.Path == "" {
			pe.Path = path
		}
		return nil, err
	}
	return tree, nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

func parseTree(root *yaml.Node, rootName string) (*Tree, error) {
	tree := &Tree{RootName: rootName}

	defs := mapGet(root, "$defs")
	defsPrefix := "#/$defs"
	if defs == nil {
		defs = mapGet(root, "definitions")
		defsPrefix = "#/definitions"
	}
	if defs != nil && defs.Kind == yaml.MappingNode {
		for _, entry := range mappingEntries(defs) {
			// Skip comment entries and external passthrough refs.
			if strings.HasPrefix(entry.key, "_comment") || entry.value.Kind == yaml.ScalarNode {
				continue
			}
			if isExternalRefEntry(entry.value) {
				continue
			}
			path := defsPrefix + "/" + entry.key
			body, err := parseNode(entry.value, path)
			if err != nil {
				return nil, err
			}
			tree.Definitions = append(tree.Definitions, &Definition{
				Name: entry.key,
				Body: body,
				Path: path,
			})
		}
	}

	if mapGet(root, "properties") != nil {
		node, err := parseNode(root, "#")
		if err != nil {
			return nil, err
		}
		tree.Root = node
	}

	return tree, nil
}

// isExternalRefEntry reports whether a definition entry is a bare $ref to
// another document. Such entries are import shims, not local definitions.
func isExternalRefEntry(n *yaml.Node) bool {
	if n.Kind != yaml.MappingNode {
		return false
	}
	ref := mapGet(n, "$ref")
	if ref == nil || ref.Kind != yaml.ScalarNode {
		return false
	}
	return !strings.HasPrefix(ref.Value, "#")
}

// parseNode parses one schema object into a tree node. Dispatch precedence
// follows the source keyword priority: $ref, const, oneOf/anyOf, allOf,
// enum with x-enum-members, type, bare enum, bare properties, then a
// generic object fallback.
func parseNode(n *yaml.Node, path string) (Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, &schemaerrors.ParseError{Message: fmt.Sprintf("schema node at %s must be an object", path)}
	}

	base, err := parseNodeBase(n, path)
	if err != nil {
		return nil, err
	}

	switch {
	case mapGet(n, "$ref") != nil:
		return parseRef(n, base)
	case mapGet(n, "const") != nil:
		return parseConst(n, base)
	case mapGet(n, "oneOf") != nil || mapGet(n, "anyOf") != nil:
		return parseUnion(n, base)
	case mapGet(n, "allOf") != nil:
		return parseAllOf(n, base)
	case mapGet(n, "enum") != nil && base.HasExtension("x-enum-members"):
		return parseEnum(n, base)
	case mapGet(n, "type") != nil:
		return parseTyped(n, base)
	case mapGet(n, "enum") != nil:
		return parseEnum(n, base)
	case mapGet(n, "properties") != nil:
		return parseObject(n, base)
	default:
		return &Primitive{nodeBase: base, TypeName: "object"}, nil
	}
}

func parseNodeBase(n *yaml.Node, path string) (nodeBase, error) {
	base := nodeBase{Path: path}
	for _, entry := range mappingEntries(n) {
		if strings.HasPrefix(entry.key, "x-") {
			v, err := decodeAny(entry.value)
			if err != nil {
				return base, &schemaerrors.ParseError{Message: fmt.Sprintf("invalid %s at %s", entry.key, path), Cause: err}
			}
			if base.Extensions == nil {
				base.Extensions = make(map[string]any)
			}
			base.Extensions[entry.key] = v
		}
	}
	if dflt := mapGet(n, "default"); dflt != nil {
		v, err := decodeAny(dflt)
		if err != nil {
			return base, &schemaerrors.ParseError{Message: fmt.Sprintf("invalid default at %s", path), Cause: err}
		}
		base.Default = v
		base.HasDefault = true
	}
	return base, nil
}

func parseRef(n *yaml.Node, base nodeBase) (Node, error) {
	ref := &Ref{nodeBase: base, RefPath: mapGet(n, "$ref").Value}
	if override, ok := base.Extension("x-ref-class-name").(string); ok {
		ref.NameOverride = override
	}
	return ref, nil
}

func parseConst(n *yaml.Node, base nodeBase) (Node, error) {
	v, err := decodeAny(mapGet(n, "const"))
	if err != nil {
		return nil, &schemaerrors.ParseError{Message: fmt.Sprintf("invalid const at %s", base.Path), Cause: err}
	}
	return &Const{nodeBase: base, Value: v, InferredType: inferType(v)}, nil
}

func parseEnum(n *yaml.Node, base nodeBase) (Node, error) {
	values, err := decodeSlice(mapGet(n, "enum"))
	if err != nil {
		return nil, &schemaerrors.ParseError{Message: fmt.Sprintf("invalid enum at %s", base.Path), Cause: err}
	}
	inferred := "string"
	if len(values) > 0 {
		inferred = inferType(values[0])
	}
	enum := &Enum{nodeBase: base, Values: values, InferredType: inferred}
	if raw, ok := base.Extension("x-enum-members").(map[string]any); ok {
		enum.MemberNames = make(map[string]string, len(raw))
		for value, name := range raw {
			if s, ok := name.(string); ok {
				enum.MemberNames[value] = s
			}
		}
	}
	return enum, nil
}

func parseUnion(n *yaml.Node, base nodeBase) (Node, error) {
	kind := UnionOneOf
	variants := mapGet(n, "oneOf")
	if variants == nil {
		kind = UnionAnyOf
		variants = mapGet(n, "anyOf")
	}
	if variants.Kind != yaml.SequenceNode {
		return nil, &schemaerrors.ParseError{Message: fmt.Sprintf("%s at %s must be an array", kind, base.Path)}
	}
	union := &Union{nodeBase: base, UnionKind: kind}
	for i, variant := range variants.Content {
		node, err := parseNode(variant, fmt.Sprintf("%s/%s/%d", base.Path, kind, i))
		if err != nil {
			return nil, err
		}
		union.Variants = append(union.Variants, node)
	}
	return union, nil
}

func parseAllOf(n *yaml.Node, base nodeBase) (Node, error) {
	seq := mapGet(n, "allOf")
	if seq.Kind != yaml.SequenceNode {
		return nil, &schemaerrors.ParseError{Message: fmt.Sprintf("allOf at %s must be an array", base.Path)}
	}
	allOf := &AllOf{nodeBase: base}
	for i, elem := range seq.Content {
		elemPath := fmt.Sprintf("%s/allOf/%d", base.Path, i)
		node, err := parseNode(elem, elemPath)
		if err != nil {
			return nil, err
		}
		switch typed := node.(type) {
		case *Ref:
			allOf.BaseRefs = append(allOf.BaseRefs, typed)
		case *Object:
			if allOf.Extension != nil {
				// Fold additional object elements into the extension.
				allOf.Extension.Properties = append(allOf.Extension.Properties, typed.Properties...)
				allOf.Extension.Required = append(allOf.Extension.Required, typed.Required...)
			} else {
				allOf.Extension = typed
			}
		default:
			// Non-object extension (a bare primitive constraint) carries no
			// fields; represent it as an empty extension.
			if allOf.Extension == nil {
				allOf.Extension = &Object{nodeBase: nodeBase{Path: elemPath}}
			}
		}
	}
	return allOf, nil
}

func parseTyped(n *yaml.Node, base nodeBase) (Node, error) {
	typeNode := mapGet(n, "type")

	// A type array like ["string", "null"] is an implicit union.
	if typeNode.Kind == yaml.SequenceNode {
		if len(typeNode.Content) == 1 {
			return parsePrimitiveOrCompound(n, typeNode.Content[0].Value, base)
		}
		union := &Union{nodeBase: base, UnionKind: UnionTypeArray}
		for _, t := range typeNode.Content {
			variant := &Primitive{
				nodeBase: nodeBase{Path: base.Path + "/type/" + t.Value},
				TypeName: t.Value,
			}
			union.Variants = append(union.Variants, variant)
		}
		return union, nil
	}

	return parsePrimitiveOrCompound(n, typeNode.Value, base)
}

func parsePrimitiveOrCompound(n *yaml.Node, typeName string, base nodeBase) (Node, error) {
	switch typeName {
	case "array":
		return parseArray(n, base)
	case "object":
		if mapGet(n, "properties") != nil {
			return parseObject(n, base)
		}
		if ap := mapGet(n, "additionalProperties"); ap != nil && ap.Kind == yaml.MappingNode {
			return parseObject(n, base)
		}
		return &Primitive{nodeBase: base, TypeName: "object"}, nil
	default:
		if !primitiveTypes[typeName] {
			return nil, &schemaerrors.ParseError{Message: fmt.Sprintf("unknown type %q at %s", typeName, base.Path)}
		}
		return parsePrimitive(n, typeName, base)
	}
}

func parsePrimitive(n *yaml.Node, typeName string, base nodeBase) (Node, error) {
	prim := &Primitive{nodeBase: base, TypeName: typeName}

	if typeName == "string" {
		prim.MinLength = intField(n, "minLength")
		prim.MaxLength = intField(n, "maxLength")
		if p := mapGet(n, "pattern"); p != nil {
			prim.Pattern = p.Value
		}
		// Enum values on a typed string are kept for the analyzer, which
		// decides between an enum class and a documented string.
		if enum := mapGet(n, "enum"); enum != nil {
			values, err := decodeSlice(enum)
			if err != nil {
				return nil, &schemaerrors.ParseError{Message: fmt.Sprintf("invalid enum at %s", base.Path), Cause: err}
			}
			prim.EnumValues = values
		}
	}

	if typeName == "integer" || typeName == "number" {
		prim.Minimum = floatField(n, "minimum")
		prim.Maximum = floatField(n, "maximum")
		prim.ExclusiveMinimum = floatField(n, "exclusiveMinimum")
		prim.ExclusiveMaximum = floatField(n, "exclusiveMaximum")
		prim.MultipleOf = floatField(n, "multipleOf")
	}

	return prim, nil
}

func parseArray(n *yaml.Node, base nodeBase) (Node, error) {
	arr := &Array{
		nodeBase: base,
		MinItems: intField(n, "minItems"),
		MaxItems: intField(n, "maxItems"),
	}
	items := mapGet(n, "items")
	if items == nil {
		if prefix := mapGet(n, "prefixItems"); prefix != nil {
			items = prefix
		}
	}
	if items == nil {
		return arr, nil
	}
	if items.Kind == yaml.SequenceNode {
		for i, item := range items.Content {
			node, err := parseNode(item, fmt.Sprintf("%s/items/%d", base.Path, i))
			if err != nil {
				return nil, err
			}
			arr.TupleItems = append(arr.TupleItems, node)
		}
		return arr, nil
	}
	item, err := parseNode(items, base.Path+"/items")
	if err != nil {
		return nil, err
	}
	arr.Item = item
	return arr, nil
}

func parseObject(n *yaml.Node, base nodeBase) (Node, error) {
	obj := &Object{nodeBase: base}

	if req := mapGet(n, "required"); req != nil && req.Kind == yaml.SequenceNode {
		for _, r := range req.Content {
			obj.Required = append(obj.Required, r.Value)
		}
	}

	props := mapGet(n, "properties")
	if props != nil && props.Kind == yaml.MappingNode {
		for _, entry := range mappingEntries(props) {
			propPath := base.Path + "/properties/" + entry.key
			typeNode, err := parseNode(entry.value, propPath)
			if err != nil {
				return nil, err
			}
			prop := &Property{
				Path:     propPath,
				Name:     entry.key,
				Type:     typeNode,
				Required: obj.IsRequired(entry.key),
			}
			if dflt := mapGet(entry.value, "default"); dflt != nil {
				v, err := decodeAny(dflt)
				if err != nil {
					return nil, &schemaerrors.ParseError{Message: fmt.Sprintf("invalid default at %s", propPath), Cause: err}
				}
				prop.Default = v
				prop.HasDefault = true
			}
			obj.Properties = append(obj.Properties, prop)
		}
	}

	if ap := mapGet(n, "additionalProperties"); ap != nil && ap.Kind == yaml.MappingNode {
		value, err := parseNode(ap, base.Path+"/additionalProperties")
		if err != nil {
			return nil, err
		}
		obj.AdditionalProperties = value
	}

	return obj, nil
}

// mapEntry is one key/value pair of a YAML mapping, in document order.
type mapEntry struct {
	key   string
	value *yaml.Node
}

func mappingEntries(n *yaml.Node) []mapEntry {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	entries := make([]mapEntry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		entries = append(entries, mapEntry{key: n.Content[i].Value, value: n.Content[i+1]})
	}
	return entries
}

func mapGet(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func decodeAny(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeSlice(n *yaml.Node) ([]any, error) {
	var v []any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func intField(n *yaml.Node, key string) *int {
	field := mapGet(n, key)
	if field == nil {
		return nil
	}
	var v int
	if err := field.Decode(&v); err != nil {
		return nil
	}
	return &v
}

func floatField(n *yaml.Node, key string) *float64 {
	field := mapGet(n, key)
	if field == nil {
		return nil
	}
	var v float64
	if err := field.Decode(&v); err != nil {
		return nil
	}
	return &v
}

// inferType infers the JSON Schema type name from a decoded value.
func inferType(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case int, int64, uint64:
		return "integer"
	case float64, float32:
		return "number"
	case string:
		return "string"
	case nil:
		return "null"
	default:
		return "object"
	}
}
