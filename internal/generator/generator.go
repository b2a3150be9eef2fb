package generator

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/mcncl/pytyper/internal/config"
	"github.com/mcncl/pytyper/internal/errors"
	"github.com/mcncl/pytyper/internal/formatter"
	"github.com/mcncl/pytyper/internal/models"
	"github.com/mcncl/pytyper/internal/naming"
)

// Generator turns a schema tree into Python class declarations
type Generator struct {
	formatter *formatter.Formatter
	logger    *slog.Logger
}

// NewGenerator creates a Generator that renders with the default Formatter
func NewGenerator() *Generator {
	return &Generator{
		formatter: formatter.NewFormatter(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewGeneratorWithConfig creates a Generator whose output follows cfg
func NewGeneratorWithConfig(cfg *config.Config, logger *slog.Logger) *Generator {
	g := NewGenerator()
	g.formatter = formatter.NewFormatterWithConfig(cfg)
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Generate renders root, and with includeNested every distinct nested
// class, as Python source. The root class comes first; nested classes
// follow in the order their fields are first reached.
func (g *Generator) Generate(root *models.Record, includeNested, includeDeserializer bool) (string, error) {
	decls, err := g.Declarations(root, includeNested, includeDeserializer)
	if err != nil {
		return "", err
	}
	code, err := g.formatter.Render(decls)
	if err != nil {
		return "", errors.NewFormatError("failed to render classes", err)
	}
	return code, nil
}

// Declarations builds the class declarations Generate would render.
func (g *Generator) Declarations(root *models.Record, includeNested, includeDeserializer bool) ([]models.ClassDecl, error) {
	if root == nil {
		return nil, errors.NewInvalidArgumentError("cannot generate classes from a nil record")
	}

	name, err := naming.TypeName(root.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to name class for key '%s': %w", root.Name, err)
	}
	names := newClassRegistry(name)

	decl, err := g.classDecl(root, name, includeDeserializer, names)
	if err != nil {
		return nil, err
	}
	decls := []models.ClassDecl{decl}

	if includeNested {
		acc, err := g.nestedDecls(root.Fields, includeDeserializer, names, nested{seen: map[string]struct{}{}})
		if err != nil {
			return nil, err
		}
		decls = append(decls, acc.decls...)
	}

	g.logger.Debug("built class declarations", "root", decl.Name, "classes", len(decls))
	return decls, nil
}

// nested is the accumulator threaded through the nested walk. Classes are
// keyed by the raw name of the field that first held them: two fields with
// the same name are taken to be the same class, even if their shapes differ.
type nested struct {
	seen  map[string]struct{}
	decls []models.ClassDecl
}

func (g *Generator) nestedDecls(fields []models.Field, includeDeserializer bool, names *classRegistry, acc nested) (nested, error) {
	for _, f := range fields {
		rec, ok := models.ElemRecord(f.Node)
		if !ok {
			continue
		}
		if _, dup := acc.seen[f.Key]; dup {
			g.logger.Debug("skipping repeated nested class", "field", f.Key)
			continue
		}

		name, err := names.resolve(f.Key, rec.Name)
		if err != nil {
			return acc, fmt.Errorf("failed to name class for key '%s': %w", rec.Name, err)
		}
		decl, err := g.classDecl(rec, name, includeDeserializer, names)
		if err != nil {
			return acc, err
		}
		acc.seen[f.Key] = struct{}{}
		acc.decls = append(acc.decls, decl)

		acc, err = g.nestedDecls(rec.Fields, includeDeserializer, names, acc)
		if err != nil {
			return acc, err
		}
	}
	return acc, nil
}

// classRegistry hands out one class name per nested field key. A key whose
// class name is already in use, by the root or by a different key, gets the
// first free numeric suffix: user_info and userInfo become UserInfo and
// UserInfo2.
type classRegistry struct {
	byKey map[string]string
	used  map[string]struct{}
}

func newClassRegistry(root string) *classRegistry {
	return &classRegistry{
		byKey: map[string]string{},
		used:  map[string]struct{}{root: {}},
	}
}

func (c *classRegistry) resolve(key, recordName string) (string, error) {
	if name, ok := c.byKey[key]; ok {
		return name, nil
	}
	base, err := naming.TypeName(recordName)
	if err != nil {
		return "", err
	}
	name := base
	for n := 2; ; n++ {
		if _, taken := c.used[name]; !taken {
			break
		}
		name = base + strconv.Itoa(n)
	}
	c.byKey[key] = name
	c.used[name] = struct{}{}
	return name, nil
}

func (g *Generator) classDecl(rec *models.Record, name string, includeDeserializer bool, names *classRegistry) (models.ClassDecl, error) {
	if len(rec.Fields) == 0 {
		return models.ClassDecl{}, errors.NewInvalidArgumentError(fmt.Sprintf("record '%s' has no fields", rec.Name))
	}

	decl := models.ClassDecl{
		Name:   name,
		Fields: make([]models.FieldDecl, 0, len(rec.Fields)),
	}
	var args []models.ArgDecl
	used := make(map[string]int, len(rec.Fields))

	for _, f := range rec.Fields {
		fieldName, err := naming.FieldName(f.Key, rec.Style)
		if err != nil {
			return models.ClassDecl{}, fmt.Errorf("failed to name field '%s' of class %s: %w", f.Key, name, err)
		}
		fieldName = dedupe(fieldName, used)

		def := models.DefaultNone
		if models.IsList(f.Node) {
			def = models.DefaultEmptyList
		}
		decl.Fields = append(decl.Fields, models.FieldDecl{Name: fieldName, Default: def})

		// Nested names are claimed in field order whether or not from_json
		// is generated.
		var typeName string
		if child, ok := models.ElemRecord(f.Node); ok {
			if typeName, err = names.resolve(f.Key, child.Name); err != nil {
				return models.ClassDecl{}, fmt.Errorf("failed to name class for key '%s': %w", child.Name, err)
			}
		}

		if includeDeserializer {
			args = append(args, argDecl(f, typeName, rec.Style))
		}
	}

	if includeDeserializer {
		bindLocals(name, decl.Fields, args)
		decl.Deserializer = &models.DeserializerDecl{
			ItemName: naming.ItemName(name),
			Args:     args,
		}
	}
	return decl, nil
}

// argDecl decides how from_json reads field f. Nested classes are looked up
// by the style-normalized key, everything else by the raw JSON key.
func argDecl(f models.Field, typeName string, style models.Style) models.ArgDecl {
	switch n := f.Node.(type) {
	case *models.Record:
		return models.ArgDecl{Kind: models.ArgNested, Key: naming.NormalizeKey(f.Key, style), TypeName: typeName}
	case models.List:
		if _, ok := n.Elem.(*models.Record); ok {
			return models.ArgDecl{
				Kind:     models.ArgNestedList,
				Key:      naming.NormalizeKey(f.Key, style),
				TypeName: typeName,
			}
		}
	}
	return models.ArgDecl{Kind: models.ArgRaw, Key: f.Key}
}

// bindLocals names the locals and loop variables of one from_json body.
// fields and args run in parallel. A local is visible to the whole method,
// so it must differ from every class the method refers to.
func bindLocals(className string, fields []models.FieldDecl, args []models.ArgDecl) {
	taken := map[string]struct{}{className: {}}
	for _, arg := range args {
		if arg.TypeName != "" {
			taken[arg.TypeName] = struct{}{}
		}
	}
	for i := range args {
		if args[i].Kind != models.ArgNestedList {
			continue
		}
		args[i].Var = naming.ListVar(fields[i].Name, taken)
		taken[args[i].Var] = struct{}{}
		args[i].Item = naming.ItemName(args[i].TypeName)
	}
}

// dedupe suffixes a field name that an earlier key already produced, as
// happens with userId and user_id under underscore style.
func dedupe(name string, used map[string]int) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	for {
		candidate := name + "_" + strconv.Itoa(n+1)
		if _, taken := used[candidate]; !taken {
			used[candidate] = 1
			return candidate
		}
		n++
	}
}

// Generate renders root with a default Generator.
func Generate(root *models.Record, includeNested, includeDeserializer bool) (string, error) {
	return NewGenerator().Generate(root, includeNested, includeDeserializer)
}
