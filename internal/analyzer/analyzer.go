package analyzer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mcncl/pytyper/internal/config"
	"github.com/mcncl/pytyper/internal/errors"
	"github.com/mcncl/pytyper/internal/models"
)

// DefaultRootName is the key the root object is named after when the caller
// gives none.
const DefaultRootName = "payload"

// Analyzer infers a schema tree from a parsed JSON document.
//
// Only the first element of an array is sampled. Arrays whose elements have
// different shapes are not detected; the first element decides the schema
// for the whole array.
type Analyzer struct {
	// style is stamped on every Record so generation knows how to
	// rename its fields
	style  models.Style
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer using underscore style.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		style:  models.DefaultStyle,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewAnalyzerWithConfig creates an Analyzer that follows cfg.
func NewAnalyzerWithConfig(cfg *config.Config, logger *slog.Logger) *Analyzer {
	a := NewAnalyzer()
	if cfg != nil && cfg.Style != "" {
		a.style = cfg.Style
	}
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithStyle returns a copy of a that stamps style on the Records it builds.
func (a *Analyzer) WithStyle(style models.Style) *Analyzer {
	cp := *a
	cp.style = style
	return &cp
}

// Analyze infers the schema of ir.Root under rootName and returns the Record
// to generate from. An array root is unwrapped to the Record of its first
// element. Roots that hold no object at all are rejected.
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation, rootName string) (*models.Record, error) {
	if rootName == "" {
		rootName = DefaultRootName
	}

	node, err := a.Infer(rootName, ir.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze root node: %w", err)
	}

	depth := 0
	for {
		switch v := node.(type) {
		case *models.Record:
			a.logger.Debug("inferred root record", "name", v.Name, "fields", len(v.Fields), "array_depth", depth)
			return v, nil
		case models.List:
			node = v.Elem
			depth++
			continue
		}
		return nil, errors.NewInvalidArgumentError(describeRoot(ir.Root, depth))
	}
}

func describeRoot(root models.JSONValue, depth int) string {
	if depth > 0 {
		return "root array holds no JSON object to generate a class from"
	}
	switch v := root.(type) {
	case nil:
		return "root value is null, expected a JSON object"
	case models.JSONObject:
		if len(v) == 0 {
			return "root object is empty, there are no fields to generate"
		}
	}
	return fmt.Sprintf("root value is a %s, expected a JSON object", kindOf(root))
}

func kindOf(v models.JSONValue) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case models.JSONNumber, float64, int, int64:
		return "number"
	case models.JSONObject:
		return "object"
	case models.JSONArray:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

// Infer builds the schema node for value, naming any Record after key.
func (a *Analyzer) Infer(key string, value models.JSONValue) (models.Node, error) {
	switch v := value.(type) {
	case models.JSONArray:
		if len(v) == 0 {
			return models.List{Elem: models.Primitive{}}, nil
		}
		elem, err := a.Infer(key, v[0])
		if err != nil {
			return nil, fmt.Errorf("failed to analyze element 0 of array '%s': %w", key, err)
		}
		return models.List{Elem: elem}, nil
	case models.JSONObject:
		if len(v) == 0 {
			return models.Primitive{}, nil
		}
		return a.inferRecord(key, v)
	case nil, bool, string, models.JSONNumber, float64, int, int64:
		return models.Primitive{}, nil
	default:
		return nil, errors.NewInvalidArgumentError(fmt.Sprintf("unexpected json value type %T under key '%s'", v, key))
	}
}

func (a *Analyzer) inferRecord(key string, obj models.JSONObject) (*models.Record, error) {
	rec := &models.Record{
		Name:   key,
		Style:  a.style,
		Fields: make([]models.Field, 0, len(obj)),
	}
	for _, m := range obj {
		child, err := a.Infer(m.Key, m.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze field '%s' in object '%s': %w", m.Key, key, err)
		}
		rec.Fields = append(rec.Fields, models.Field{Key: m.Key, Node: child})
	}
	a.logger.Debug("inferred record", "name", key, "fields", len(rec.Fields))
	return rec, nil
}

// Infer runs a default Analyzer with the given style.
func Infer(key string, value models.JSONValue, style models.Style) (models.Node, error) {
	return NewAnalyzer().WithStyle(style).Infer(key, value)
}
