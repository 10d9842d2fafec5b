package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_SelectSQL_NoConditions(t *testing.T) {
	sql, args := NewFilter().selectSQL("jobs")

	assert.Equal(t, "SELECT doc FROM jobs LIMIT $1 OFFSET $2", sql)
	assert.Equal(t, []any{20, 0}, args)
}

func TestFilter_SelectSQL_EqAndOrder(t *testing.T) {
	f := NewFilter().
		Eq("status", "open").
		OrderBy("createdAt", Descending).
		Paginate(3, 10)
	sql, args := f.selectSQL("jobs")

	assert.Equal(t,
		"SELECT doc FROM jobs WHERE doc->>'status' = $1 ORDER BY doc->>'createdAt' DESC LIMIT $2 OFFSET $3",
		sql)
	assert.Equal(t, []any{"open", 10, 20}, args)
}

func TestFilter_CountSQLMatchesSelectFilters(t *testing.T) {
	f := NewFilter().
		Eq("status", "open").
		Contains("location", "Lisbon").
		Paginate(2, 50)

	selectSQL, selectArgs := f.selectSQL("jobs")
	countSQL, countArgs := f.countSQL("jobs")

	assert.Contains(t, selectSQL, "WHERE doc->>'status' = $1 AND LOWER(doc->>'location') LIKE $2")
	assert.Equal(t, "SELECT COUNT(*) FROM jobs WHERE doc->>'status' = $1 AND LOWER(doc->>'location') LIKE $2", countSQL)
	// Count ignores pagination but shares the filter parameters.
	assert.Equal(t, selectArgs[:2], countArgs)
}

func TestFilter_ContainsLowersAndWraps(t *testing.T) {
	_, args := NewFilter().Contains("title", "EngineER").selectSQL("jobs")
	assert.Equal(t, "%engineer%", args[0])
}

func TestFilter_ContainsAny_SingleParameter(t *testing.T) {
	f := NewFilter().ContainsAny([]string{"firstName", "lastName", "email"}, "Ada")
	sql, args := f.selectSQL("candidates")

	assert.Contains(t, sql,
		"(LOWER(doc->>'firstName') LIKE $1 OR LOWER(doc->>'lastName') LIKE $1 OR LOWER(doc->>'email') LIKE $1)")
	// One bound parameter plus limit and offset.
	assert.Len(t, args, 3)
	assert.Equal(t, "%ada%", args[0])
}

func TestFilter_AnyIn(t *testing.T) {
	f := NewFilter().AnyIn("skills", []string{"go", "sql"})
	sql, args := f.selectSQL("candidates")

	assert.Contains(t, sql, "doc->'skills' ?| $1")
	assert.Equal(t, []string{"go", "sql"}, args[0])
}

func TestFilter_RangeAndNumeric(t *testing.T) {
	f := NewFilter().
		Gte("appliedAt", "2026-01-01T00:00:00Z").
		Lte("appliedAt", "2026-02-01T00:00:00Z").
		GteInt("experienceYears", 5).
		Ne("status", "rejected")
	sql, args := f.selectSQL("applications")

	assert.Contains(t, sql, "doc->>'appliedAt' >= $1")
	assert.Contains(t, sql, "doc->>'appliedAt' <= $2")
	assert.Contains(t, sql, "(doc->>'experienceYears')::numeric >= $3")
	assert.Contains(t, sql, "doc->>'status' != $4")
	assert.Equal(t, 5, args[2])
}

func TestFilter_PaginateClampsInvalidInput(t *testing.T) {
	sql, args := NewFilter().Paginate(0, -5).selectSQL("tasks")

	assert.Equal(t, "SELECT doc FROM tasks LIMIT $1 OFFSET $2", sql)
	assert.Equal(t, []any{20, 0}, args)
}
