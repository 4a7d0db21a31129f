package schema

import (
	"path/filepath"
	"strings"

	"github.com/erraggy/jsctools/schemaerrors"
)

// MaxRefDepth is the maximum depth allowed for chained external $ref
// resolution. This prevents unbounded recursion from reference chains
// across documents.
const MaxRefDepth = 100

// ResolvedRef is the result of resolving a $ref.
type ResolvedRef struct {
	// TargetName is the referenced definition name (post override).
	TargetName string
	// Definition is the resolved definition node. Nil for external refs,
	// unless the external document was loaded.
	Definition *Definition
	// IsExternal reports whether the ref targets another document.
	IsExternal bool
	// ExternalPath is the document path portion of an external ref.
	ExternalPath string
}

// Resolver resolves $ref nodes against a schema tree.
//
// Local references resolve by definition name lookup, never by inlining, so
// mutually recursive definitions are legal. External references resolve
// against files relative to the configured base directory; loaded documents
// are cached per resolver instance.
type Resolver struct {
	tree *Tree
	// baseDir is the root for resolving external schema file paths.
	baseDir string
	// documents caches parsed external documents by cleaned path.
	documents map[string]*Tree
	// resolving guards against circular external document chains.
	resolving map[string]bool
	depth     int
}

// NewResolver creates a resolver for local references within tree.
func NewResolver(tree *Tree) *Resolver {
	return NewResolverWithBase(tree, "")
}

// NewResolverWithBase creates a resolver that also loads external schema
// files relative to baseDir.
func NewResolverWithBase(tree *Tree, baseDir string) *Resolver {
	return &Resolver{
		tree:      tree,
		baseDir:   baseDir,
		documents: make(map[string]*Tree),
		resolving: make(map[string]bool),
	}
}

// Resolve resolves a $ref node. A dangling local reference is a
// ReferenceError; the caller decides whether an unloaded external
// reference is acceptable.
func (r *Resolver) Resolve(ref *Ref) (*ResolvedRef, error) {
	if ref.IsExternal() {
		return r.resolveExternal(ref)
	}
	return r.resolveLocal(ref)
}

// DefinitionName extracts the definition name from a reference path.
// "#/$defs/Shape" and "#/definitions/Shape" both yield "Shape"; for other
// pointer shapes the final segment is used.
func DefinitionName(refPath string) string {
	fragment := refPath
	if i := strings.Index(refPath, "#"); i >= 0 {
		fragment = refPath[i+1:]
	}
	parts := strings.Split(strings.TrimPrefix(fragment, "/"), "/")
	if len(parts) >= 2 && (parts[0] == "$defs" || parts[0] == "definitions") {
		return parts[1]
	}
	return parts[len(parts)-1]
}

func (r *Resolver) resolveLocal(ref *Ref) (*ResolvedRef, error) {
	name := DefinitionName(ref.RefPath)
	def := r.tree.Definition(name)
	if def == nil {
		return nil, &schemaerrors.ReferenceError{
			Ref:        ref.RefPath,
			RefType:    "local",
			SchemaPath: ref.SourcePath(),
			Message:    "definition not found",
		}
	}
	target := name
	if ref.NameOverride != "" {
		target = ref.NameOverride
	}
	return &ResolvedRef{TargetName: target, Definition: def}, nil
}

func (r *Resolver) resolveExternal(ref *Ref) (*ResolvedRef, error) {
	docPath, name := splitExternalRef(ref.RefPath)
	target := name
	if ref.NameOverride != "" {
		target = ref.NameOverride
	}
	resolved := &ResolvedRef{
		TargetName:   target,
		IsExternal:   true,
		ExternalPath: docPath,
	}

	// Without a base directory, external refs resolve to an import of the
	// target name; the definition body stays in its own document.
	if r.baseDir == "" {
		return resolved, nil
	}

	doc, err := r.loadExternal(ref, docPath)
	if err != nil {
		return nil, err
	}
	if def := doc.Definition(name); def != nil {
		resolved.Definition = def
	}
	return resolved, nil
}

func (r *Resolver) loadExternal(ref *Ref, docPath string) (*Tree, error) {
	clean := filepath.Clean(strings.TrimPrefix(docPath, "/"))
	if doc, ok := r.documents[clean]; ok {
		return doc, nil
	}
	if r.resolving[clean] {
		return nil, &schemaerrors.ReferenceError{
			Ref:        ref.RefPath,
			RefType:    "file",
			IsCircular: true,
			SchemaPath: ref.SourcePath(),
		}
	}
	if r.depth >= MaxRefDepth {
		return nil, &schemaerrors.ReferenceError{
			Ref:        ref.RefPath,
			RefType:    "file",
			SchemaPath: ref.SourcePath(),
			Message:    "maximum reference depth exceeded",
		}
	}

	r.resolving[clean] = true
	r.depth++
	defer func() {
		delete(r.resolving, clean)
		r.depth--
	}()

	full := filepath.Join(r.baseDir, clean)
	doc, err := ParseFile(full)
	if err != nil {
		return nil, &schemaerrors.ReferenceError{
			Ref:        ref.RefPath,
			RefType:    "file",
			SchemaPath: ref.SourcePath(),
			Message:    "cannot load external schema",
			Cause:      err,
		}
	}
	r.documents[clean] = doc
	return doc, nil
}

// splitExternalRef splits "path/doc.json#/$defs/Name" into its document
// path and definition name. A fragment-less ref names the document itself.
func splitExternalRef(refPath string) (docPath, name string) {
	if i := strings.Index(refPath, "#"); i >= 0 {
		return refPath[:i], DefinitionName(refPath[i:])
	}
	base := refPath[strings.LastIndex(refPath, "/")+1:]
	name = strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.TrimSuffix(name, ".schema")
	return refPath, name
}
