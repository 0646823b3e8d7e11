package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gridmodel/plexosdb/internal/schema"
	"github.com/gridmodel/plexosdb/internal/storage"
)

// ensureScenario resolves a scenario object by name, creating it (with
// its system membership) if absent. Scenario creation never fails on
// duplicate name since it first checks for an existing row.
func (e *Engine) ensureScenario(ctx context.Context, scoped *storage.Driver, name string) (int64, error) {
	scenarioClassID, err := e.classID(ctx, scoped, schema.ClassScenario)
	if err != nil {
		return 0, err
	}
	if id, err := e.objectID(ctx, scoped, schema.ClassScenario, name, scenarioClassID); err == nil {
		return id, nil
	}

	categoryID, err := e.resolveOrCreateCategory(ctx, scoped, schema.ClassScenario, scenarioClassID, defaultCategoryName)
	if err != nil {
		return 0, err
	}
	res, err := scoped.Execute(ctx,
		"INSERT INTO t_object (name, class_id, category_id, description, guid) VALUES (?, ?, ?, '', ?)",
		name, scenarioClassID, categoryID, uuid.NewString())
	if err != nil {
		return 0, fmt.Errorf("engine: create scenario %q: %w", name, err)
	}
	scenarioID, err := storage.LastInsertRowID(res)
	if err != nil {
		return 0, err
	}
	if err := e.insertSystemMembership(ctx, scoped, schema.ClassScenario, scenarioClassID, scenarioID, schema.CollectionScenarios); err != nil {
		return 0, err
	}
	return scenarioID, nil
}

// markPropertiesDynamic flips is_dynamic and is_enabled to 1 for every
// property id in ids — the visibility flag the catalog exposes once a
// property has any Data row.
func (e *Engine) markPropertiesDynamic(ctx context.Context, scoped *storage.Driver, ids []int64) error {
	for _, id := range ids {
		if _, err := scoped.Execute(ctx, "UPDATE t_property SET is_dynamic = 1, is_enabled = 1 WHERE property_id = ?", id); err != nil {
			return fmt.Errorf("engine: mark property %d dynamic: %w", id, err)
		}
	}
	return nil
}

// scalarText renders a coerced value back to the string t_data.value
// column stores; the column is untyped text, and coerce.Coerce recovers
// the typed form on read. A float that happens to be integral still needs
// a decimal point, or coerce.Coerce's int64 step (tried first) would parse
// it back as an int64 rather than the float64 it was.
func scalarText(v any) string {
	switch t := v.(type) {
	case float64:
		return floatText(t)
	case float32:
		return floatText(float64(t))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func floatText(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
