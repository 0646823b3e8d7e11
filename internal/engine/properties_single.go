package engine

import (
	"context"
	"fmt"

	"github.com/gridmodel/plexosdb/internal/schema"
	"github.com/gridmodel/plexosdb/internal/storage"
)

// AddPropertyOptions customizes AddProperty beyond the required class,
// object name, property name, and value.
type AddPropertyOptions struct {
	Scenario         string
	Texts            map[schema.Class]string
	ParentClass      schema.Class // defaults to schema.ClassSystem
	Collection       schema.Collection
	ParentObjectName string // defaults to "System"
}

// AddProperty inserts one Data row for (object, property, value),
// optionally tagging it to a scenario and attaching text entries. It
// returns the new data_id. Side effect: the Property row is marked
// is_dynamic=1, is_enabled=1.
func (e *Engine) AddProperty(ctx context.Context, class schema.Class, objectName, propertyName string, value any, opts AddPropertyOptions) (int64, error) {
	parentClass := opts.ParentClass
	if parentClass == "" {
		parentClass = schema.ClassSystem
	}
	parentObjectName := opts.ParentObjectName
	if parentObjectName == "" {
		parentObjectName = "System"
	}

	var dataID int64
	err := e.driver.Transaction(ctx, func(scoped *storage.Driver) error {
		classID, err := e.classID(ctx, scoped, class)
		if err != nil {
			return err
		}
		if _, err := e.objectID(ctx, scoped, class, objectName, classID); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: object %q of class %q", ErrNameInvalid, objectName, class)
			}
			return err
		}

		collection := opts.Collection
		if collection == "" {
			var ok bool
			collection, ok = schema.DefaultCollectionFor(class)
			if !ok {
				return fmt.Errorf("%w: no default collection for class %q", ErrNameInvalid, class)
			}
		}

		valid, err := e.listValidPropertiesScoped(ctx, scoped, collection, parentClass, class)
		if err != nil {
			return err
		}
		if !contains(valid, propertyName) {
			return fmt.Errorf("%w: property %q is not admitted by collection %q", ErrNameInvalid, propertyName, collection)
		}

		propertyID, err := e.propertyIDScoped(ctx, scoped, propertyName, collection, parentClass, class)
		if err != nil {
			return err
		}
		membershipID, err := e.membershipIDScoped(ctx, scoped, parentObjectName, objectName, collection)
		if err != nil {
			return err
		}

		res, err := scoped.Execute(ctx, "INSERT INTO t_data (membership_id, property_id, value) VALUES (?, ?, ?)",
			membershipID, propertyID, scalarText(value))
		if err != nil {
			return fmt.Errorf("engine: add_property: %w", err)
		}
		dataID, err = storage.LastInsertRowID(res)
		if err != nil {
			return err
		}

		if opts.Scenario != "" {
			scenarioID, err := e.ensureScenario(ctx, scoped, opts.Scenario)
			if err != nil {
				return err
			}
			if _, err := scoped.Execute(ctx, "INSERT INTO t_tag (data_id, object_id) VALUES (?, ?)", dataID, scenarioID); err != nil {
				return fmt.Errorf("engine: add_property: tag scenario: %w", err)
			}
		}

		for textClass, textValue := range opts.Texts {
			textClassID, err := e.classID(ctx, scoped, textClass)
			if err != nil {
				return err
			}
			if _, err := scoped.Execute(ctx, "INSERT INTO t_text (data_id, class_id, value) VALUES (?, ?, ?)", dataID, textClassID, textValue); err != nil {
				return fmt.Errorf("engine: add_property: attach text: %w", err)
			}
		}

		return e.markPropertiesDynamic(ctx, scoped, []int64{propertyID})
	})
	if err != nil {
		return 0, err
	}
	return dataID, nil
}

func (e *Engine) listValidPropertiesScoped(ctx context.Context, scoped *storage.Driver, coll schema.Collection, parentClass, childClass schema.Class) ([]string, error) {
	parentClassID, err := e.classID(ctx, scoped, parentClass)
	if err != nil {
		return nil, err
	}
	childClassID, err := e.classID(ctx, scoped, childClass)
	if err != nil {
		return nil, err
	}
	collectionID, err := e.collectionID(ctx, scoped, coll, parentClassID, childClassID)
	if err != nil {
		return nil, err
	}
	rows, err := scoped.Query(ctx, "SELECT name FROM t_property WHERE collection_id = ?", collectionID)
	if err != nil {
		return nil, fmt.Errorf("engine: list_valid_properties: %w", err)
	}
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row[0].(string)
	}
	return names, nil
}

func (e *Engine) propertyIDScoped(ctx context.Context, scoped *storage.Driver, name string, coll schema.Collection, parentClass, childClass schema.Class) (int64, error) {
	parentClassID, err := e.classID(ctx, scoped, parentClass)
	if err != nil {
		return 0, err
	}
	childClassID, err := e.classID(ctx, scoped, childClass)
	if err != nil {
		return 0, err
	}
	collectionID, err := e.collectionID(ctx, scoped, coll, parentClassID, childClassID)
	if err != nil {
		return 0, err
	}
	row, err := scoped.FetchOne(ctx, "SELECT property_id FROM t_property WHERE name = ? AND collection_id = ?", name, collectionID)
	if err != nil {
		return 0, fmt.Errorf("engine: get_property_id: %w", err)
	}
	if row == nil {
		return 0, fmt.Errorf("%w: property %q in collection %q", ErrNotFound, name, coll)
	}
	return row[0].(int64), nil
}

func (e *Engine) membershipIDScoped(ctx context.Context, scoped *storage.Driver, parentName, childName string, coll schema.Collection) (int64, error) {
	row, err := scoped.FetchOne(ctx, `
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

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
