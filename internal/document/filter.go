package document

import (
	"fmt"
	"strings"
)

// Filter accumulates AND-composed conditions over document fields. Field
// names are compile-time constants supplied by entity repositories; every
// caller-controlled value is carried as a bound parameter, never spliced into
// the SQL text.
type Filter struct {
	conds []string
	args  []any

	orderField string
	orderDesc  bool

	page  int
	limit int
}

// Sort directions for OrderBy.
const (
	Ascending  = false
	Descending = true
)

func NewFilter() *Filter {
	return &Filter{page: 1, limit: 20}
}

func (f *Filter) bind(v any) string {
	f.args = append(f.args, v)
	return fmt.Sprintf("$%d", len(f.args))
}

// Eq matches exact equality on a top-level document field.
func (f *Filter) Eq(field string, v any) *Filter {
	f.conds = append(f.conds, fmt.Sprintf("doc->>'%s' = %s", field, f.bind(v)))
	return f
}

// EqBool matches a boolean document field.
func (f *Filter) EqBool(field string, v bool) *Filter {
	f.conds = append(f.conds, fmt.Sprintf("(doc->>'%s')::boolean = %s", field, f.bind(v)))
	return f
}

// Contains matches a case-insensitive substring on one field.
func (f *Filter) Contains(field, v string) *Filter {
	p := f.bind("%" + strings.ToLower(v) + "%")
	f.conds = append(f.conds, fmt.Sprintf("LOWER(doc->>'%s') LIKE %s", field, p))
	return f
}

// ContainsAny matches a case-insensitive substring on any of the given
// fields (one bound parameter, OR-composed group).
func (f *Filter) ContainsAny(fields []string, v string) *Filter {
	p := f.bind("%" + strings.ToLower(v) + "%")
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = fmt.Sprintf("LOWER(doc->>'%s') LIKE %s", field, p)
	}
	f.conds = append(f.conds, "("+strings.Join(parts, " OR ")+")")
	return f
}

// AnyIn matches set intersection between a document string array field and
// the given values (jsonb ?| operator).
func (f *Filter) AnyIn(field string, values []string) *Filter {
	f.conds = append(f.conds, fmt.Sprintf("doc->'%s' ?| %s", field, f.bind(values)))
	return f
}

// Gte / Lte compare a field lexicographically, which is also correct for the
// RFC3339 timestamp strings the documents carry.
func (f *Filter) Gte(field string, v any) *Filter {
	f.conds = append(f.conds, fmt.Sprintf("doc->>'%s' >= %s", field, f.bind(v)))
	return f
}

func (f *Filter) Lte(field string, v any) *Filter {
	f.conds = append(f.conds, fmt.Sprintf("doc->>'%s' <= %s", field, f.bind(v)))
	return f
}

// GteInt compares a numeric document field.
func (f *Filter) GteInt(field string, v int) *Filter {
	f.conds = append(f.conds, fmt.Sprintf("(doc->>'%s')::numeric >= %s", field, f.bind(v)))
	return f
}

// Ne matches inequality on a top-level document field.
func (f *Filter) Ne(field string, v any) *Filter {
	f.conds = append(f.conds, fmt.Sprintf("doc->>'%s' != %s", field, f.bind(v)))
	return f
}

// OrderBy sets the sort field; desc defaults to newest-first semantics.
func (f *Filter) OrderBy(field string, desc bool) *Filter {
	f.orderField = field
	f.orderDesc = desc
	return f
}

// Paginate sets the 1-based page and page size; the offset conversion
// (page-1)*limit happens when the SQL is rendered.
func (f *Filter) Paginate(page, limit int) *Filter {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	f.page = page
	f.limit = limit
	return f
}

// where renders the shared WHERE fragment. The page query and the count
// query both render from this single fragment so their filters cannot drift.
func (f *Filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// selectSQL renders the paginated page query against the given table.
func (f *Filter) selectSQL(table string) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT doc FROM ")
	b.WriteString(table)
	b.WriteString(f.where())

	args := make([]any, len(f.args))
	copy(args, f.args)

	if f.orderField != "" {
		dir := "ASC"
		if f.orderDesc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY doc->>'%s' %s", f.orderField, dir)
	}

	args = append(args, f.limit, (f.page-1)*f.limit)
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return b.String(), args
}

// countSQL renders the parallel count query: identical filters, no
// pagination.
func (f *Filter) countSQL(table string) (string, []any) {
	args := make([]any, len(f.args))
	copy(args, f.args)
	return "SELECT COUNT(*) FROM " + table + f.where(), args
}
