package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gridmodel/plexosdb/internal/schema"
)

// GetClassID resolves a Class name to its catalog id.
func (e *Engine) GetClassID(ctx context.Context, class schema.Class) (int64, error) {
	row, err := e.driver.FetchOne(ctx, "SELECT class_id FROM t_class WHERE name = ?", string(class))
	if err != nil {
		return 0, fmt.Errorf("engine: get_class_id: %w", err)
	}
	if row == nil {
		return 0, fmt.Errorf("%w: class %q; see schema.AllClasses for valid values", ErrNotFound, class)
	}
	return row[0].(int64), nil
}

// CheckClassExists reports whether class is present in the catalog. It
// never errors for the not-found case.
func (e *Engine) CheckClassExists(ctx context.Context, class schema.Class) (bool, error) {
	_, err := e.GetClassID(ctx, class)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// GetCollectionID resolves a (collection name, parent class, child class)
// triple to its catalog id.
func (e *Engine) GetCollectionID(ctx context.Context, coll schema.Collection, parentClass, childClass schema.Class) (int64, error) {
	parentID, err := e.GetClassID(ctx, parentClass)
	if err != nil {
		return 0, err
	}
	childID, err := e.GetClassID(ctx, childClass)
	if err != nil {
		return 0, err
	}
	row, err := e.driver.FetchOne(ctx,
		"SELECT collection_id FROM t_collection WHERE name = ? AND parent_class_id = ? AND child_class_id = ?",
		string(coll), parentID, childID)
	if err != nil {
		return 0, fmt.Errorf("engine: get_collection_id: %w", err)
	}
	if row == nil {
		return 0, fmt.Errorf("%w: collection %q from %q to %q", ErrNotFound, coll, parentClass, childClass)
	}
	return row[0].(int64), nil
}

// CheckCollectionExists reports whether the given collection triple is in
// the catalog. It never errors for the not-found case, but does propagate
// a class lookup failure (an invalid precondition).
func (e *Engine) CheckCollectionExists(ctx context.Context, coll schema.Collection, parentClass, childClass schema.Class) (bool, error) {
	_, err := e.GetCollectionID(ctx, coll, parentClass, childClass)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// GetObjectID resolves (class, name) to an Object id. category, if
// non-empty, additionally filters to objects under that named category.
func (e *Engine) GetObjectID(ctx context.Context, class schema.Class, name string, category string) (int64, error) {
	classID, err := e.GetClassID(ctx, class)
	if err != nil {
		return 0, err
	}
	query := "SELECT object_id FROM t_object WHERE name = ? AND class_id = ?"
	args := []any{name, classID}
	if category != "" {
		query += " AND category_id = (SELECT category_id FROM t_category WHERE name = ? AND class_id = ?)"
		args = append(args, category, classID)
	}
	rows, err := e.driver.Query(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("engine: get_object_id: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: object %q of class %q", ErrNotFound, name, class)
	}
	if len(rows) > 1 {
		return 0, fmt.Errorf("%w: object %q of class %q", ErrMultipleElements, name, class)
	}
	return rows[0][0].(int64), nil
}

// CheckObjectExists reports whether (class, name) resolves to an Object.
func (e *Engine) CheckObjectExists(ctx context.Context, class schema.Class, name string) (bool, error) {
	_, err := e.GetObjectID(ctx, class, name, "")
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// GetObjectsID resolves many object names under one class at once,
// returning a name→id map. Names with no matching object are simply
// absent from the result; callers that require every name to resolve
// should compare len(result) to len(names).
func (e *Engine) GetObjectsID(ctx context.Context, names []string, class schema.Class) (map[string]int64, error) {
	classID, err := e.GetClassID(ctx, class)
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(names))
	if len(names) == 0 {
		return result, nil
	}
	placeholders := make([]string, len(names))
	args := make([]any, 0, len(names)+1)
	for i, n := range names {
		placeholders[i] = "?"
		args = append(args, n)
	}
	args = append(args, classID)
	query := fmt.Sprintf("SELECT name, object_id FROM t_object WHERE name IN (%s) AND class_id = ?", strings.Join(placeholders, ","))
	rows, err := e.driver.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("engine: get_objects_id: %w", err)
	}
	for _, row := range rows {
		result[row[0].(string)] = row[1].(int64)
	}
	return result, nil
}

// GetCategoryID resolves (class, name) to a Category id.
func (e *Engine) GetCategoryID(ctx context.Context, class schema.Class, name string) (int64, error) {
	classID, err := e.GetClassID(ctx, class)
	if err != nil {
		return 0, err
	}
	row, err := e.driver.FetchOne(ctx, "SELECT category_id FROM t_category WHERE name = ? AND class_id = ?", name, classID)
	if err != nil {
		return 0, fmt.Errorf("engine: get_category_id: %w", err)
	}
	if row == nil {
		return 0, fmt.Errorf("%w: category %q of class %q", ErrNotFound, name, class)
	}
	return row[0].(int64), nil
}

// GetCategoryMaxID returns the highest rank currently assigned to any
// category under class, or 0 if the class has none yet. New categories
// are ranked one past this value.
func (e *Engine) GetCategoryMaxID(ctx context.Context, class schema.Class) (int64, error) {
	classID, err := e.GetClassID(ctx, class)
	if err != nil {
		return 0, err
	}
	row, err := e.driver.FetchOne(ctx, "SELECT COALESCE(MAX(rank), 0) FROM t_category WHERE class_id = ?", classID)
	if err != nil {
		return 0, fmt.Errorf("engine: get_category_max_id: %w", err)
	}
	return row[0].(int64), nil
}

// GetPropertyID resolves (name, collection, parent class, child class) to
// a Property id.
func (e *Engine) GetPropertyID(ctx context.Context, name string, coll schema.Collection, parentClass, childClass schema.Class) (int64, error) {
	collectionID, err := e.GetCollectionID(ctx, coll, parentClass, childClass)
	if err != nil {
		return 0, err
	}
	row, err := e.driver.FetchOne(ctx, "SELECT property_id FROM t_property WHERE name = ? AND collection_id = ?", name, collectionID)
	if err != nil {
		return 0, fmt.Errorf("engine: get_property_id: %w", err)
	}
	if row == nil {
		return 0, fmt.Errorf("%w: property %q in collection %q", ErrNotFound, name, coll)
	}
	return row[0].(int64), nil
}

// ListValidProperties returns every property name admitted by the given
// collection.
func (e *Engine) ListValidProperties(ctx context.Context, coll schema.Collection, parentClass, childClass schema.Class) ([]string, error) {
	collectionID, err := e.GetCollectionID(ctx, coll, parentClass, childClass)
	if err != nil {
		return nil, err
	}
	rows, err := e.driver.Query(ctx, "SELECT name FROM t_property WHERE collection_id = ? ORDER BY name", collectionID)
	if err != nil {
		return nil, fmt.Errorf("engine: list_valid_properties: %w", err)
	}
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row[0].(string)
	}
	return names, nil
}

// GetMembershipID resolves (parent object name, child object name,
// collection) to a Membership id, disambiguating same-named objects
// across classes via the collection's declared parent/child classes.
func (e *Engine) GetMembershipID(ctx context.Context, parentName, childName string, coll schema.Collection) (int64, error) {
	row, err := e.driver.FetchOne(ctx, `
		SELECT m.membership_id
		FROM t_membership m
		JOIN t_collection c ON c.collection_id = m.collection_id
		JOIN t_object p ON p.object_id = m.parent_object_id
		JOIN t_object ch ON ch.object_id = m.child_object_id
		WHERE c.name = ? AND p.name = ? AND ch.name = ?
	`, string(coll), parentName, childName)
	if err != nil {
		return 0, fmt.Errorf("engine: get_membership_id: %w", err)
	}
	if row == nil {
		return 0, fmt.Errorf("%w: membership %q -> %q in collection %q", ErrNotFound, parentName, childName, coll)
	}
	return row[0].(int64), nil
}

// CheckMembershipExists reports whether the given membership triple is
// present.
func (e *Engine) CheckMembershipExists(ctx context.Context, parentName, childName string, coll schema.Collection) (bool, error) {
	_, err := e.GetMembershipID(ctx, parentName, childName, coll)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// GetScenarioID resolves a scenario name to its Object id.
func (e *Engine) GetScenarioID(ctx context.Context, name string) (int64, error) {
	return e.GetObjectID(ctx, schema.ClassScenario, name, "")
}

// GetAttributeID resolves (class, name) to an Attribute id.
func (e *Engine) GetAttributeID(ctx context.Context, class schema.Class, name string) (int64, error) {
	classID, err := e.GetClassID(ctx, class)
	if err != nil {
		return 0, err
	}
	row, err := e.driver.FetchOne(ctx, "SELECT attribute_id FROM t_attribute WHERE name = ? AND class_id = ?", name, classID)
	if err != nil {
		return 0, fmt.Errorf("engine: get_attribute_id: %w", err)
	}
	if row == nil {
		return 0, fmt.Errorf("%w: attribute %q of class %q", ErrNotFound, name, class)
	}
	return row[0].(int64), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
