package formatter

import (
	"fmt"
	"strings"

	"github.com/mcncl/pytyper/internal/config"
	"github.com/mcncl/pytyper/internal/models"
)

// Formatter renders class declarations as Python source.
type Formatter struct {
	indent string
	header []string
}

// NewFormatter creates a Formatter that indents with tabs.
func NewFormatter() *Formatter {
	return &Formatter{indent: "\t"}
}

// NewFormatterWithConfig creates a Formatter using the output settings of cfg.
func NewFormatterWithConfig(cfg *config.Config) *Formatter {
	if cfg == nil {
		return NewFormatter()
	}
	return &Formatter{
		indent: cfg.IndentString(),
		header: cfg.HeaderLines(),
	}
}

// writer accumulates indented lines.
type writer struct {
	indent string
	lines  []string
}

func (w *writer) line(depth int, format string, args ...any) {
	w.lines = append(w.lines, strings.Repeat(w.indent, depth)+fmt.Sprintf(format, args...))
}

func (w *writer) blank() {
	w.lines = append(w.lines, "")
}

// Render emits every declaration in order, separated by two blank lines.
func (f *Formatter) Render(decls []models.ClassDecl) (string, error) {
	w := &writer{indent: f.indent}

	for _, h := range f.header {
		w.line(0, "# %s", strings.TrimRight(h, " \t"))
	}
	if len(f.header) > 0 && len(decls) > 0 {
		w.blank()
		w.blank()
	}

	for i, decl := range decls {
		if i > 0 {
			w.blank()
			w.blank()
		}
		if err := f.renderClass(w, decl); err != nil {
			return "", err
		}
	}

	return f.Format(strings.Join(w.lines, "\n")), nil
}

func (f *Formatter) renderClass(w *writer, decl models.ClassDecl) error {
	if decl.Name == "" {
		return fmt.Errorf("class declaration has no name")
	}
	if len(decl.Fields) == 0 {
		return fmt.Errorf("class %s has no fields", decl.Name)
	}

	params := make([]string, len(decl.Fields))
	for i, field := range decl.Fields {
		params[i] = field.Name + "=" + defaultLiteral(field.Default)
	}

	w.line(0, "class %s:", decl.Name)
	w.line(1, "def __init__(self, %s):", strings.Join(params, ", "))
	for _, field := range decl.Fields {
		w.line(2, "self.%s = %s", field.Name, field.Name)
	}

	if decl.Deserializer != nil {
		if len(decl.Deserializer.Args) != len(decl.Fields) {
			return fmt.Errorf("class %s: from_json has %d arguments for %d fields", decl.Name, len(decl.Deserializer.Args), len(decl.Fields))
		}
		for _, arg := range decl.Deserializer.Args {
			if arg.Kind == models.ArgNestedList && (arg.Var == "" || arg.Item == "") {
				return fmt.Errorf("class %s: list argument '%s' has no local names", decl.Name, arg.Key)
			}
		}
		w.blank()
		renderFromJSON(w, decl.Name, decl.Deserializer)
	}
	return nil
}

func renderFromJSON(w *writer, name string, d *models.DeserializerDecl) {
	w.line(1, "@classmethod")
	w.line(1, "def from_json(cls, json):")
	w.line(2, "if json is None:")
	w.line(3, "return %s()", name)
	w.blank()
	w.line(2, "if type(json) is list:")
	w.line(3, "return [%s.from_json(%s) for %s in json]", name, d.ItemName, d.ItemName)
	w.blank()

	args := make([]string, len(d.Args))
	for i, arg := range d.Args {
		get := fmt.Sprintf("json.get(%s)", quote(arg.Key))
		switch arg.Kind {
		case models.ArgNested:
			args[i] = fmt.Sprintf("%s.from_json(%s)", arg.TypeName, get)
		case models.ArgNestedList:
			w.line(2, "try:")
			w.line(3, "%s = [%s.from_json(%s) for %s in %s]", arg.Var, arg.TypeName, arg.Item, arg.Item, get)
			w.line(2, "except TypeError:")
			w.line(3, "%s = []", arg.Var)
			w.blank()
			args[i] = arg.Var
		default:
			args[i] = get
		}
	}
	w.line(2, "return %s(%s)", name, strings.Join(args, ", "))
}

func defaultLiteral(d models.Default) string {
	if d == models.DefaultEmptyList {
		return "[]"
	}
	return "None"
}

// quote returns s as a single-quoted Python string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Format normalizes rendered code: trailing whitespace is removed from each
// line and the text ends with exactly one newline. Empty input stays empty.
func (f *Formatter) Format(code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}

	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}
