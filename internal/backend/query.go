package backend

import (
	"fmt"
	"strings"
)

// compileQuery converts the supported query-DSL subset into a parameterized
// SQL WHERE fragment over the documents table. Values and field paths are
// never interpolated, always bound.
//
// Supported clauses: match_all, term, match, range, bool.
// Anything else fails with *UnsupportedClauseError rather than silently
// matching nothing.
func compileQuery(body map[string]any) (string, []any, error) {
	if body == nil {
		return "1 = 1", nil, nil
	}
	q, ok := body["query"]
	if !ok {
		return "1 = 1", nil, nil
	}
	clause, ok := q.(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("query must be an object, got %T", q)
	}
	return compileClause(clause)
}

// UnsupportedClauseError reports a query clause the embedded backend cannot
// execute. The HTTP service supports more; local mode fails loudly instead
// of approximating.
type UnsupportedClauseError struct {
	Clause string
}

func (e *UnsupportedClauseError) Error() string {
	return fmt.Sprintf("unsupported query clause %q", e.Clause)
}

func compileClause(clause map[string]any) (string, []any, error) {
	if len(clause) != 1 {
		return "", nil, fmt.Errorf("query clause must have exactly one key, got %d", len(clause))
	}

	for name, arg := range clause {
		switch name {
		case "match_all":
			return "1 = 1", nil, nil
		case "term":
			return compileTerm(arg)
		case "match":
			return compileMatch(arg)
		case "range":
			return compileRange(arg)
		case "bool":
			return compileBool(arg)
		default:
			return "", nil, &UnsupportedClauseError{Clause: name}
		}
	}
	return "1 = 1", nil, nil // unreachable
}

// fieldArg unpacks the single field -> argument form shared by term, match,
// and range.
func fieldArg(arg any, clause string) (string, any, error) {
	m, ok := arg.(map[string]any)
	if !ok || len(m) != 1 {
		return "", nil, fmt.Errorf("%s expects exactly one field, got %T", clause, arg)
	}
	for field, v := range m {
		return field, v, nil
	}
	return "", nil, fmt.Errorf("%s expects exactly one field", clause)
}

// jsonPath binds a field name as a json_extract path parameter.
func jsonPath(field string) string {
	return "$." + field
}

func compileTerm(arg any) (string, []any, error) {
	field, v, err := fieldArg(arg, "term")
	if err != nil {
		return "", nil, err
	}
	return "json_extract(body, ?) = ?", []any{jsonPath(field), v}, nil
}

func compileMatch(arg any) (string, []any, error) {
	field, v, err := fieldArg(arg, "match")
	if err != nil {
		return "", nil, err
	}
	text, ok := v.(string)
	if !ok {
		return "", nil, fmt.Errorf("match expects a string value, got %T", v)
	}
	// Case-insensitive substring match stands in for full-text scoring.
	return "instr(lower(json_extract(body, ?)), lower(?)) > 0",
		[]any{jsonPath(field), text}, nil
}

func compileRange(arg any) (string, []any, error) {
	field, v, err := fieldArg(arg, "range")
	if err != nil {
		return "", nil, err
	}
	bounds, ok := v.(map[string]any)
	if !ok || len(bounds) == 0 {
		return "", nil, fmt.Errorf("range expects bound operators, got %T", v)
	}

	ops := []struct{ name, op string }{
		{"gt", ">"}, {"gte", ">="}, {"lt", "<"}, {"lte", "<="},
	}
	var parts []string
	var params []any
	for _, o := range ops {
		bound, ok := bounds[o.name]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("json_extract(body, ?) %s ?", o.op))
		params = append(params, jsonPath(field), bound)
	}
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("range on %q has no recognized bounds", field)
	}
	for name := range bounds {
		known := false
		for _, o := range ops {
			if o.name == name {
				known = true
				break
			}
		}
		if !known {
			return "", nil, fmt.Errorf("range on %q: unknown bound %q", field, name)
		}
	}
	return "(" + strings.Join(parts, " AND ") + ")", params, nil
}

func compileBool(arg any) (string, []any, error) {
	m, ok := arg.(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("bool expects an object, got %T", arg)
	}

	var parts []string
	var params []any

	appendBranch := func(key, joiner string, negate bool) error {
		raw, ok := m[key]
		if !ok {
			return nil
		}
		clauses, ok := raw.([]any)
		if !ok {
			// A single clause object is accepted as sugar for a one-element list.
			if single, isMap := raw.(map[string]any); isMap {
				clauses = []any{single}
			} else {
				return fmt.Errorf("bool.%s expects a list of clauses, got %T", key, raw)
			}
		}
		var branch []string
		for i, c := range clauses {
			cm, ok := c.(map[string]any)
			if !ok {
				return fmt.Errorf("bool.%s[%d] is not a clause object", key, i)
			}
			sql, p, err := compileClause(cm)
			if err != nil {
				return err
			}
			branch = append(branch, sql)
			params = append(params, p...)
		}
		if len(branch) == 0 {
			return nil
		}
		joined := "(" + strings.Join(branch, " "+joiner+" ") + ")"
		if negate {
			joined = "NOT " + joined
		}
		parts = append(parts, joined)
		return nil
	}

	if err := appendBranch("must", "AND", false); err != nil {
		return "", nil, err
	}
	if err := appendBranch("should", "OR", false); err != nil {
		return "", nil, err
	}
	// must_not excludes a document matching ANY of its clauses.
	if err := appendBranch("must_not", "OR", true); err != nil {
		return "", nil, err
	}

	for key := range m {
		if key != "must" && key != "should" && key != "must_not" {
			return "", nil, &UnsupportedClauseError{Clause: "bool." + key}
		}
	}
	if len(parts) == 0 {
		return "1 = 1", nil, nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", params, nil
}
