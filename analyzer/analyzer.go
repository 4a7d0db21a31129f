package analyzer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/erraggy/jsctools/internal/naming"
	"github.com/erraggy/jsctools/schema"
	"github.com/erraggy/jsctools/schemaerrors"
)

// Analyze builds the IR from a parsed schema tree. Any failure aborts the
// whole analysis; no partial IR is ever returned. The same (tree, cfg)
// always yields a structurally identical IR.
func Analyze(tree *schema.Tree, cfg Config) (*IR, error) {
	return AnalyzeWithLogger(tree, cfg, schema.NopLogger{})
}

// AnalyzeWithLogger is Analyze with diagnostic logging.
func AnalyzeWithLogger(tree *schema.Tree, cfg Config, logger schema.Logger) (*IR, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = schema.NopLogger{}
	}

	a := &analysis{
		tree:        tree,
		cfg:         cfg,
		resolver:    schema.NewResolverWithBase(tree, cfg.SchemaBasePath),
		names:       newNameResolver(),
		ir:          &IR{},
		classByName: make(map[string]*ClassDef),
		enumByName:  make(map[string]*EnumDef),
		aliasByName: make(map[string]*TypeAlias),
		defName:     make(map[string]string),
		defByTarget: make(map[string]*schema.Definition),
		imported:    make(map[string]bool),
		log:         logger,
	}

	a.assignNames()

	for _, def := range tree.Definitions {
		if err := a.buildDefinition(def); err != nil {
			return nil, err
		}
	}
	if root, ok := tree.Root.(*schema.Object); ok {
		if err := a.buildClass(a.rootName, tree.RootName, root); err != nil {
			return nil, err
		}
	}

	if err := a.linkHierarchy(); err != nil {
		return nil, err
	}
	if err := a.detectDiscriminators(); err != nil {
		return nil, err
	}
	if err := a.applyFilters(); err != nil {
		return nil, err
	}
	if err := a.verifyReferences(); err != nil {
		return nil, err
	}
	if err := a.checkRequiredCycles(); err != nil {
		return nil, err
	}

	a.log.Debug("analysis complete",
		"classes", len(a.ir.Classes),
		"enums", len(a.ir.Enums),
		"aliases", len(a.ir.Aliases))
	return a.ir, nil
}

// analysis carries the working state of one Analyze call.
type analysis struct {
	tree     *schema.Tree
	cfg      Config
	resolver *schema.Resolver
	names    *nameResolver
	ir       *IR

	classByName map[string]*ClassDef
	enumByName  map[string]*EnumDef
	aliasByName map[string]*TypeAlias

	// defName maps original definition names to resolved target names.
	defName map[string]string
	// defByTarget maps resolved target names back to their definitions.
	defByTarget map[string]*schema.Definition
	// imported marks class names provided by external-ref imports.
	imported map[string]bool
	// ignored records names dropped by ignore_classes, to tell an excluded
	// reference apart from a dangling one during verification.
	ignored map[string]bool

	rootName string

	log schema.Logger
}

// assignNames claims target names for every definition (and the root class)
// before any body is built, so forward references resolve to their final
// names regardless of declaration order.
func (a *analysis) assignNames() {
	for _, def := range a.tree.Definitions {
		name := a.names.resolve(def.Name)
		a.defName[def.Name] = name
		a.defByTarget[name] = def
	}
	if a.tree.Root != nil {
		a.rootName = a.names.resolve(a.tree.RootName)
	}
}

func (a *analysis) buildDefinition(def *schema.Definition) error {
	name := a.defName[def.Name]
	switch body := def.Body.(type) {
	case *schema.Object:
		if len(body.Properties) == 0 && body.AdditionalProperties != nil {
			value, err := a.typeRefFor(name, "value", body.AdditionalProperties)
			if err != nil {
				return err
			}
			a.addAlias(&TypeAlias{
				Name:         name,
				OriginalName: def.Name,
				Members:      []TypeRef{{Kind: RefDict, Args: []TypeRef{value}}},
			})
			return nil
		}
		return a.buildClass(name, def.Name, body)
	case *schema.AllOf:
		return a.buildSubclass(name, def.Name, body)
	case *schema.Enum:
		a.addEnum(enumFromNode(name, def.Name, body))
		return nil
	case *schema.Primitive:
		if len(body.EnumValues) > 0 {
			a.addEnum(enumFromValues(name, def.Name, body.TypeName, body.EnumValues, nil))
			return nil
		}
		a.addAlias(&TypeAlias{
			Name:         name,
			OriginalName: def.Name,
			Members:      []TypeRef{primitiveRef(body)},
		})
		return nil
	case *schema.Union:
		members, err := a.unionVariantRefs(name, body)
		if err != nil {
			return err
		}
		a.addAlias(&TypeAlias{Name: name, OriginalName: def.Name, Members: members})
		return nil
	default:
		// A definition that is itself a ref, array, or const becomes a
		// single-member alias.
		tr, err := a.typeRefFor(name, "", def.Body)
		if err != nil {
			return err
		}
		a.addAlias(&TypeAlias{Name: name, OriginalName: def.Name, Members: []TypeRef{tr}})
		return nil
	}
}

func (a *analysis) buildClass(name, original string, obj *schema.Object) error {
	c := &ClassDef{
		Name:         name,
		OriginalName: original,
		SchemaPath:   obj.SourcePath(),
	}
	a.addClass(c)
	return a.buildFields(c, obj)
}

func (a *analysis) buildSubclass(name, original string, allOf *schema.AllOf) error {
	if len(allOf.BaseRefs) > 1 {
		refs := make([]string, len(allOf.BaseRefs))
		for i, r := range allOf.BaseRefs {
			refs[i] = r.RefPath
		}
		return &schemaerrors.SchemaStructureError{
			SchemaPath: allOf.SourcePath(),
			Class:      name,
			Message:    fmt.Sprintf("allOf composes multiple bases (%s); single inheritance only", strings.Join(refs, ", ")),
		}
	}

	c := &ClassDef{
		Name:         name,
		OriginalName: original,
		SchemaPath:   allOf.SourcePath(),
	}
	if base := allOf.BaseRef(); base != nil {
		baseRef, err := a.classRef(base)
		if err != nil {
			return err
		}
		c.BaseClass = baseRef.Name
	}
	a.addClass(c)
	if allOf.Extension != nil {
		return a.buildFields(c, allOf.Extension)
	}
	return nil
}

func (a *analysis) buildFields(c *ClassDef, obj *schema.Object) error {
	for _, prop := range obj.Properties {
		f, err := a.buildField(c, prop)
		if err != nil {
			return err
		}
		c.Fields = append(c.Fields, f)
	}
	return nil
}

func (a *analysis) buildField(c *ClassDef, prop *schema.Property) (*FieldDef, error) {
	tr, err := a.typeRefFor(c.Name, prop.Name, prop.Type)
	if err != nil {
		return nil, err
	}

	f := &FieldDef{
		Name:         fieldName(prop.Name),
		OriginalName: prop.Name,
		Type:         tr,
		Required:     prop.Required,
		Default:      prop.Default,
		HasDefault:   prop.HasDefault,
		IsConst:      tr.Kind == RefConst,
		SchemaPath:   prop.Path,
	}
	if !f.Required && !f.IsConst && tr.Kind != RefOptional {
		f.Type = TypeRef{Kind: RefOptional, Args: []TypeRef{tr}}
	}
	return f, nil
}

// typeRefFor resolves a schema node to a TypeRef, promoting inline objects,
// enums, and unions to named definitions as it goes. owner and field seed
// the {Parent}{Field} names of promoted types.
func (a *analysis) typeRefFor(owner, field string, n schema.Node) (TypeRef, error) {
	promoted := owner + naming.ToPascalCase(field)

	switch t := n.(type) {
	case *schema.Primitive:
		if len(t.EnumValues) > 0 {
			name := a.names.resolve(promoted)
			a.addEnum(enumFromValues(name, promoted, t.TypeName, t.EnumValues, nil))
			return TypeRef{Kind: RefEnum, Name: name}, nil
		}
		return primitiveRef(t), nil

	case *schema.Const:
		return TypeRef{Kind: RefConst, Name: t.InferredType, ConstValue: t.Value}, nil

	case *schema.Enum:
		name := a.names.resolve(promoted)
		a.addEnum(enumFromNode(name, promoted, t))
		return TypeRef{Kind: RefEnum, Name: name}, nil

	case *schema.Ref:
		return a.classRef(t)

	case *schema.Array:
		return a.arrayRef(owner, field, t)

	case *schema.Object:
		if len(t.Properties) == 0 {
			value := TypeRef{Kind: RefAny}
			if t.AdditionalProperties != nil {
				v, err := a.typeRefFor(owner, field+"Value", t.AdditionalProperties)
				if err != nil {
					return TypeRef{}, err
				}
				value = v
			}
			return TypeRef{Kind: RefDict, Args: []TypeRef{value}}, nil
		}
		// Inline object promotion. No structural deduplication: identical
		// shapes still yield distinct classes so names stay independent of
		// declaration position.
		name := a.names.resolve(promoted)
		if err := a.buildClass(name, promoted, t); err != nil {
			return TypeRef{}, err
		}
		return TypeRef{Kind: RefClass, Name: name}, nil

	case *schema.Union:
		return a.unionRef(owner, field, t)

	case *schema.AllOf:
		name := a.names.resolve(promoted)
		if err := a.buildSubclass(name, promoted, t); err != nil {
			return TypeRef{}, err
		}
		return TypeRef{Kind: RefClass, Name: name}, nil

	default:
		return TypeRef{Kind: RefAny}, nil
	}
}

// classRef resolves a $ref node to a Class/Enum/Alias TypeRef. External
// references become imports of the target name.
func (a *analysis) classRef(ref *schema.Ref) (TypeRef, error) {
	resolved, err := a.resolver.Resolve(ref)
	if err != nil {
		return TypeRef{}, err
	}

	if resolved.IsExternal {
		module := a.externalModule(resolved.ExternalPath)
		a.addImport(module, resolved.TargetName)
		a.imported[resolved.TargetName] = true
		a.names.reserve(resolved.TargetName)
		return TypeRef{Kind: RefClass, Name: resolved.TargetName}, nil
	}

	name := a.defName[resolved.Definition.Name]
	if ref.NameOverride != "" {
		name = ref.NameOverride
		a.names.reserve(name)
	}
	return TypeRef{Kind: a.defKind(resolved.Definition), Name: name}, nil
}

// defKind classifies what IR entity a definition becomes.
func (a *analysis) defKind(def *schema.Definition) RefKind {
	switch b := def.Body.(type) {
	case *schema.Object:
		if len(b.Properties) == 0 && b.AdditionalProperties != nil {
			return RefAlias
		}
		return RefClass
	case *schema.AllOf:
		return RefClass
	case *schema.Enum:
		return RefEnum
	case *schema.Primitive:
		if len(b.EnumValues) > 0 {
			return RefEnum
		}
		return RefAlias
	default:
		return RefAlias
	}
}

func (a *analysis) arrayRef(owner, field string, arr *schema.Array) (TypeRef, error) {
	if !arr.IsTuple() {
		elem := TypeRef{Kind: RefAny}
		if arr.Item != nil {
			e, err := a.typeRefFor(owner, field+"Item", arr.Item)
			if err != nil {
				return TypeRef{}, err
			}
			elem = e
		}
		return TypeRef{Kind: RefArray, Args: []TypeRef{elem}}, nil
	}

	elems := make([]TypeRef, 0, len(arr.TupleItems))
	for _, item := range arr.TupleItems {
		e, err := a.typeRefFor(owner, field+"Item", item)
		if err != nil {
			return TypeRef{}, err
		}
		elems = append(elems, e)
	}

	variable := arr.MinItems == nil || arr.MaxItems == nil || *arr.MinItems != *arr.MaxItems
	if variable && a.cfg.UseArrayOfSuperTypeForVariableLengthTuple {
		if super, ok := a.commonSuperType(elems); ok {
			return TypeRef{Kind: RefArray, Args: []TypeRef{super}}, nil
		}
	}
	if !a.cfg.UseTuples || a.cfg.DropMinMaxItems {
		return TypeRef{Kind: RefArray, Args: []TypeRef{commonElem(elems)}}, nil
	}
	return TypeRef{Kind: RefTuple, Args: elems}, nil
}

// commonSuperType finds the shared base class of tuple elements: all
// elements the same class, or all direct subclasses of one base.
func (a *analysis) commonSuperType(elems []TypeRef) (TypeRef, bool) {
	if len(elems) == 0 {
		return TypeRef{}, false
	}
	same := true
	for _, e := range elems {
		if e.Kind != RefClass {
			return TypeRef{}, false
		}
		if e.Name != elems[0].Name {
			same = false
		}
	}
	if same {
		return elems[0], true
	}
	base := a.baseOf(elems[0].Name)
	if base == "" {
		return TypeRef{}, false
	}
	for _, e := range elems[1:] {
		if a.baseOf(e.Name) != base {
			return TypeRef{}, false
		}
	}
	return TypeRef{Kind: RefClass, Name: base}, true
}

// baseOf returns the base class target name for a class target name, or "".
// It consults the schema definitions so it works before hierarchy linking.
func (a *analysis) baseOf(target string) string {
	def := a.defByTarget[target]
	if def == nil {
		return ""
	}
	allOf, ok := def.Body.(*schema.AllOf)
	if !ok {
		return ""
	}
	base := allOf.BaseRef()
	if base == nil {
		return ""
	}
	ref, err := a.classRef(base)
	if err != nil {
		return ""
	}
	return ref.Name
}

// commonElem collapses tuple elements to a single array element type: the
// shared type when homogeneous, any otherwise.
func commonElem(elems []TypeRef) TypeRef {
	if len(elems) == 0 {
		return TypeRef{Kind: RefAny}
	}
	for _, e := range elems[1:] {
		if e.String() != elems[0].String() {
			return TypeRef{Kind: RefAny}
		}
	}
	return elems[0]
}

func (a *analysis) unionRef(owner, field string, u *schema.Union) (TypeRef, error) {
	promoted := owner + naming.ToPascalCase(field)

	variants, nullable, err := a.splitNullVariants(promoted, u)
	if err != nil {
		return TypeRef{}, err
	}
	if len(variants) == 0 {
		return TypeRef{Kind: RefAny, Nullable: nullable}, nil
	}
	if len(variants) == 1 {
		v := variants[0]
		v.Nullable = v.Nullable || nullable
		return v, nil
	}

	if a.cfg.UseInlineUnions {
		return TypeRef{Kind: RefUnion, Args: variants, Nullable: nullable}, nil
	}
	name := a.names.resolve(promoted)
	a.addAlias(&TypeAlias{Name: name, OriginalName: promoted, Members: variants})
	return TypeRef{Kind: RefAlias, Name: name, Nullable: nullable}, nil
}

// unionVariantRefs resolves a definition-level union's variants.
func (a *analysis) unionVariantRefs(owner string, u *schema.Union) ([]TypeRef, error) {
	variants, _, err := a.splitNullVariants(owner, u)
	return variants, err
}

// splitNullVariants resolves union variants, folding a null variant into a
// nullability flag instead of a branch.
func (a *analysis) splitNullVariants(promoted string, u *schema.Union) ([]TypeRef, bool, error) {
	var variants []TypeRef
	nullable := false
	for _, v := range u.Variants {
		if p, ok := v.(*schema.Primitive); ok && p.TypeName == "null" {
			nullable = true
			continue
		}
		tr, err := a.typeRefFor(promoted, "", v)
		if err != nil {
			return nil, false, err
		}
		variants = append(variants, tr)
	}
	return variants, nullable, nil
}

func primitiveRef(p *schema.Primitive) TypeRef {
	if p.TypeName == "object" {
		return TypeRef{Kind: RefDict, Args: []TypeRef{{Kind: RefAny}}}
	}
	return TypeRef{Kind: RefPrimitive, Name: p.TypeName}
}

func enumFromNode(name, original string, e *schema.Enum) *EnumDef {
	return enumFromValues(name, original, e.InferredType, e.Values, e.MemberNames)
}

// enumFromValues builds an EnumDef. Member names come from the supplied
// value-to-name mapping when present, in value order; otherwise each value
// is its own member name.
func enumFromValues(name, original, baseType string, values []any, memberNames map[string]string) *EnumDef {
	def := &EnumDef{Name: name, OriginalName: original, BaseType: baseType}
	for _, v := range values {
		literal := fmt.Sprintf("%v", v)
		member := literal
		if n, ok := memberNames[literal]; ok {
			member = n
		}
		def.Members = append(def.Members, EnumMember{Name: member, Value: v})
	}
	return def
}

// linkHierarchy wires base/subclass relations and applies the subclass
// override rules, after all classes exist.
func (a *analysis) linkHierarchy() error {
	for _, c := range a.ir.Classes {
		if c.BaseClass == "" {
			continue
		}
		base := a.classByName[c.BaseClass]
		if base == nil {
			if a.imported[c.BaseClass] {
				continue
			}
			return &schemaerrors.SchemaStructureError{
				SchemaPath: c.SchemaPath,
				Class:      c.Name,
				Message:    fmt.Sprintf("base class %s is not defined", c.BaseClass),
			}
		}
		base.Subclasses = append(base.Subclasses, SubclassRef{Name: c.Name})

		inherited, err := a.ancestorFieldNames(c)
		if err != nil {
			return err
		}
		kept := c.Fields[:0]
		for _, f := range c.Fields {
			if !inherited[f.OriginalName] {
				kept = append(kept, f)
				continue
			}
			f.IsOverride = true
			if a.cfg.IgnoreSubClassOverrides && !f.IsConst {
				// Const overrides always survive; plain redeclarations are
				// dropped on request.
				continue
			}
			kept = append(kept, f)
		}
		c.Fields = kept
	}
	return nil
}

// ancestorFieldNames collects the original field names declared anywhere up
// the base chain of c.
func (a *analysis) ancestorFieldNames(c *ClassDef) (map[string]bool, error) {
	names := make(map[string]bool)
	seen := map[string]bool{c.Name: true}
	for base := c.BaseClass; base != ""; {
		if seen[base] {
			return nil, &schemaerrors.SchemaStructureError{
				SchemaPath: c.SchemaPath,
				Class:      c.Name,
				Message:    fmt.Sprintf("inheritance cycle through %s", base),
			}
		}
		seen[base] = true
		bc := a.classByName[base]
		if bc == nil {
			break
		}
		for _, f := range bc.Fields {
			names[f.OriginalName] = true
		}
		base = bc.BaseClass
	}
	return names, nil
}

// detectDiscriminators finds, per base class, the first const field shared
// across all direct subclasses and records it with each subclass's value.
func (a *analysis) detectDiscriminators() error {
	for _, base := range a.ir.Classes {
		if len(base.Subclasses) == 0 {
			continue
		}

		subs := make([]*ClassDef, len(base.Subclasses))
		for i, s := range base.Subclasses {
			sub := a.classByName[s.Name]
			var consts []*FieldDef
			for _, f := range sub.Fields {
				if f.IsConst {
					consts = append(consts, f)
				}
			}
			if len(consts) > 1 {
				names := make([]string, len(consts))
				for j, f := range consts {
					names[j] = f.OriginalName
				}
				return &schemaerrors.ConfigError{
					Option:  "discriminator",
					Value:   sub.Name,
					Message: fmt.Sprintf("subclass declares multiple const fields (%s); the discriminator is ambiguous", strings.Join(names, ", ")),
				}
			}
			subs[i] = sub
		}

		disc := sharedConstField(subs)
		if disc == "" {
			continue
		}

		base.Discriminator = disc
		base.Abstract = true
		seen := make(map[string]string)
		for i, sub := range subs {
			value := sub.Field(disc).Type.ConstValue
			key := fmt.Sprintf("%v", value)
			if prev, dup := seen[key]; dup {
				return &schemaerrors.SchemaStructureError{
					SchemaPath:               sub.SchemaPath,
					Class:                    base.Name,
					IsDuplicateDiscriminator: true,
					Message:                  fmt.Sprintf("subclasses %s and %s share discriminator value %q", prev, sub.Name, key),
				}
			}
			seen[key] = sub.Name
			base.Subclasses[i].DiscriminatorValue = value
		}
	}
	return nil
}

// sharedConstField returns the first const field of the first subclass that
// every sibling also declares as const, or "".
func sharedConstField(subs []*ClassDef) string {
	if len(subs) == 0 {
		return ""
	}
	for _, f := range subs[0].Fields {
		if !f.IsConst {
			continue
		}
		shared := true
		for _, sub := range subs[1:] {
			g := sub.Field(f.OriginalName)
			if g == nil || !g.IsConst {
				shared = false
				break
			}
		}
		if shared {
			return f.OriginalName
		}
	}
	return ""
}

// applyFilters applies ignore_classes, global_ignore_fields, and
// order_classes, in that order, last in the pipeline.
func (a *analysis) applyFilters() error {
	a.ignored = make(map[string]bool)
	if len(a.cfg.IgnoreClasses) > 0 {
		drop := make(map[string]bool, len(a.cfg.IgnoreClasses))
		for _, n := range a.cfg.IgnoreClasses {
			drop[n] = true
		}
		kept := a.ir.Classes[:0]
		for _, c := range a.ir.Classes {
			if drop[c.Name] || drop[c.OriginalName] {
				a.ignored[c.Name] = true
				delete(a.classByName, c.Name)
				continue
			}
			kept = append(kept, c)
		}
		a.ir.Classes = kept

		// Scrub dropped subclasses from surviving bases.
		for _, c := range a.ir.Classes {
			subs := c.Subclasses[:0]
			for _, s := range c.Subclasses {
				if !a.ignored[s.Name] {
					subs = append(subs, s)
				}
			}
			c.Subclasses = subs
		}
	}

	if len(a.cfg.GlobalIgnoreFields) > 0 {
		drop := make(map[string]bool, len(a.cfg.GlobalIgnoreFields))
		for _, n := range a.cfg.GlobalIgnoreFields {
			drop[n] = true
		}
		for _, c := range a.ir.Classes {
			kept := c.Fields[:0]
			for _, f := range c.Fields {
				if !drop[f.OriginalName] {
					kept = append(kept, f)
				}
			}
			c.Fields = kept
		}
	}

	if len(a.cfg.OrderClasses) > 0 {
		ordered := make([]*ClassDef, 0, len(a.ir.Classes))
		taken := make(map[string]bool)
		for _, n := range a.cfg.OrderClasses {
			for _, c := range a.ir.Classes {
				if !taken[c.Name] && (c.Name == n || c.OriginalName == n) {
					ordered = append(ordered, c)
					taken[c.Name] = true
				}
			}
		}
		for _, c := range a.ir.Classes {
			if !taken[c.Name] {
				ordered = append(ordered, c)
			}
		}
		a.ir.Classes = ordered
	}

	return nil
}

// verifyReferences checks reference totality: every Class/Enum/Alias ref in
// the final IR names an entity present in it (or provided by an import). A
// reference to a class dropped by ignore_classes is a configuration error.
func (a *analysis) verifyReferences() error {
	check := func(t TypeRef, where, path string) error {
		return a.walkRef(t, func(r TypeRef) error {
			var ok bool
			switch r.Kind {
			case RefClass:
				ok = a.classByName[r.Name] != nil || a.imported[r.Name]
			case RefEnum:
				ok = a.enumByName[r.Name] != nil
			case RefAlias:
				ok = a.aliasByName[r.Name] != nil
			default:
				return nil
			}
			if ok {
				return nil
			}
			if a.ignored[r.Name] {
				return &schemaerrors.ConfigError{
					Option:  "ignore_classes",
					Value:   r.Name,
					Message: fmt.Sprintf("class is excluded but still referenced by %s", where),
				}
			}
			return &schemaerrors.SchemaStructureError{
				SchemaPath: path,
				Class:      r.Name,
				Message:    fmt.Sprintf("%s references undefined type %s", where, r.Name),
			}
		})
	}

	for _, c := range a.ir.Classes {
		if c.BaseClass != "" && a.classByName[c.BaseClass] == nil && !a.imported[c.BaseClass] {
			if a.ignored[c.BaseClass] {
				return &schemaerrors.ConfigError{
					Option:  "ignore_classes",
					Value:   c.BaseClass,
					Message: fmt.Sprintf("class is excluded but is the base of %s", c.Name),
				}
			}
			return &schemaerrors.SchemaStructureError{
				SchemaPath: c.SchemaPath,
				Class:      c.Name,
				Message:    fmt.Sprintf("base class %s is not defined", c.BaseClass),
			}
		}
		for _, f := range c.Fields {
			if err := check(f.Type, fmt.Sprintf("%s.%s", c.Name, f.OriginalName), f.SchemaPath); err != nil {
				return err
			}
		}
	}
	for _, al := range a.ir.Aliases {
		for _, m := range al.Members {
			if err := check(m, al.Name, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

// walkRef visits t and every nested type ref.
func (a *analysis) walkRef(t TypeRef, visit func(TypeRef) error) error {
	if err := visit(t); err != nil {
		return err
	}
	for _, arg := range t.Args {
		if err := a.walkRef(arg, visit); err != nil {
			return err
		}
	}
	return nil
}

// checkRequiredCycles rejects required-field containment cycles that lack an
// Optional, Array, or Dict indirection.
func (a *analysis) checkRequiredCycles() error {
	// edges[c] lists class names c contains by value.
	edges := make(map[string][]string)
	for _, c := range a.ir.Classes {
		var out []string
		if c.BaseClass != "" && a.classByName[c.BaseClass] != nil {
			out = append(out, c.BaseClass)
		}
		for _, f := range c.Fields {
			out = a.appendContained(out, f.Type, make(map[string]bool))
		}
		edges[c.Name] = out
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var visit func(name string) *schemaerrors.SchemaStructureError
	visit = func(name string) *schemaerrors.SchemaStructureError {
		color[name] = gray
		for _, next := range edges[name] {
			switch color[next] {
			case gray:
				c := a.classByName[name]
				return &schemaerrors.SchemaStructureError{
					SchemaPath: c.SchemaPath,
					Class:      name,
					Message:    fmt.Sprintf("required-field containment cycle through %s", next),
				}
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		color[name] = black
		return nil
	}
	for _, c := range a.ir.Classes {
		if color[c.Name] == white {
			if err := visit(c.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// appendContained collects class names reachable from t without crossing an
// Optional, Array, or Dict boundary. Aliases are followed once.
func (a *analysis) appendContained(out []string, t TypeRef, seenAliases map[string]bool) []string {
	switch t.Kind {
	case RefClass:
		if a.classByName[t.Name] != nil {
			out = append(out, t.Name)
		}
	case RefTuple, RefUnion:
		for _, arg := range t.Args {
			out = a.appendContained(out, arg, seenAliases)
		}
	case RefAlias:
		if seenAliases[t.Name] {
			return out
		}
		seenAliases[t.Name] = true
		if al := a.aliasByName[t.Name]; al != nil {
			for _, m := range al.Members {
				out = a.appendContained(out, m, seenAliases)
			}
		}
	}
	return out
}

func (a *analysis) addClass(c *ClassDef) {
	a.ir.Classes = append(a.ir.Classes, c)
	a.classByName[c.Name] = c
}

func (a *analysis) addEnum(e *EnumDef) {
	a.ir.Enums = append(a.ir.Enums, e)
	a.enumByName[e.Name] = e
}

func (a *analysis) addAlias(al *TypeAlias) {
	a.ir.Aliases = append(a.ir.Aliases, al)
	a.aliasByName[al.Name] = al
}

// addImport records an imported type, keyed by module, both in first-use
// order.
func (a *analysis) addImport(module, name string) {
	for _, imp := range a.ir.Imports {
		if imp.Module != module {
			continue
		}
		for _, n := range imp.Names {
			if n == name {
				return
			}
		}
		imp.Names = append(imp.Names, name)
		return
	}
	a.ir.Imports = append(a.ir.Imports, &ImportDef{Module: module, Names: []string{name}})
}

// externalModule maps an external schema document path to an import path,
// via external_ref_schema_to_module or the document's base name.
func (a *analysis) externalModule(docPath string) string {
	module, ok := a.cfg.ExternalRefSchemaToModule[docPath]
	if !ok {
		base := filepath.Base(docPath)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		base = strings.TrimSuffix(base, ".schema")
		module = naming.ToSnakeCase(base)
	}
	if a.cfg.ExternalRefBaseModule != "" {
		return a.cfg.ExternalRefBaseModule + "/" + module
	}
	return module
}
