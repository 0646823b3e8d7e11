package engine

import (
	"context"
	"fmt"

	"github.com/gridmodel/plexosdb/internal/schema"
	"github.com/gridmodel/plexosdb/internal/storage"
)

// DeleteObject removes an Object and, when cascade is true (the
// default a caller should normally pass), every row that depends on it:
// its system membership, every membership naming it as parent or child,
// every Data row reachable through those memberships plus their
// Tag/Text/Band children, its AttributeData rows, and — if the object is
// itself a Scenario — the Tag rows that reference it as a scenario.
// With cascade false, DeleteObject refuses with ErrUsage if any
// membership still references the object.
func (e *Engine) DeleteObject(ctx context.Context, class schema.Class, name string, cascade bool) error {
	return e.driver.Transaction(ctx, func(scoped *storage.Driver) error {
		classID, err := e.classID(ctx, scoped, class)
		if err != nil {
			return err
		}
		objectID, err := e.objectID(ctx, scoped, class, name, classID)
		if err != nil {
			return err
		}

		membershipIDs, err := membershipIDsTouching(ctx, scoped, objectID)
		if err != nil {
			return err
		}
		if !cascade && len(membershipIDs) > 0 {
			return fmt.Errorf("%w: object %q of class %q still has %d membership(s); pass cascade to delete anyway",
				ErrUsage, name, class, len(membershipIDs))
		}

		if len(membershipIDs) > 0 {
			if err := deleteDataForMemberships(ctx, scoped, membershipIDs); err != nil {
				return err
			}
			placeholders, args := dataIDPlaceholders(membershipIDs)
			if _, err := scoped.Execute(ctx, fmt.Sprintf("DELETE FROM t_membership WHERE membership_id IN (%s)", placeholders), args...); err != nil {
				return fmt.Errorf("engine: delete_object: memberships: %w", err)
			}
		}

		if _, err := scoped.Execute(ctx, "DELETE FROM t_attribute_data WHERE object_id = ?", objectID); err != nil {
			return fmt.Errorf("engine: delete_object: attribute data: %w", err)
		}

		if class == schema.ClassScenario {
			if _, err := scoped.Execute(ctx, "DELETE FROM t_tag WHERE object_id = ?", objectID); err != nil {
				return fmt.Errorf("engine: delete_object: scenario tags: %w", err)
			}
		}

		if _, err := scoped.Execute(ctx, "DELETE FROM t_object WHERE object_id = ?", objectID); err != nil {
			return fmt.Errorf("engine: delete_object: %w", err)
		}
		return nil
	})
}

// DeleteProperty removes every Data row matching (class, objectName,
// propertyName) and their Tag/Text/Band children, leaving the Property
// catalog row itself untouched.
func (e *Engine) DeleteProperty(ctx context.Context, class schema.Class, objectName, propertyName string) error {
	return e.driver.Transaction(ctx, func(scoped *storage.Driver) error {
		classID, err := e.classID(ctx, scoped, class)
		if err != nil {
			return err
		}
		objectID, err := e.objectID(ctx, scoped, class, objectName, classID)
		if err != nil {
			return err
		}

		rows, err := scoped.Query(ctx, `
			SELECT d.data_id
			FROM t_data d
			JOIN t_membership m ON m.membership_id = d.membership_id
			JOIN t_property p ON p.property_id = d.property_id
			WHERE m.child_object_id = ? AND p.name = ?
		`, objectID, propertyName)
		if err != nil {
			return fmt.Errorf("engine: delete_property: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("%w: property %q on object %q of class %q", ErrNotFound, propertyName, objectName, class)
		}

		dataIDs := make([]int64, len(rows))
		for i, row := range rows {
			dataIDs[i] = row[0].(int64)
		}
		return deleteDataRows(ctx, scoped, dataIDs)
	})
}

func membershipIDsTouching(ctx context.Context, scoped *storage.Driver, objectID int64) ([]int64, error) {
	rows, err := scoped.Query(ctx, "SELECT membership_id FROM t_membership WHERE parent_object_id = ? OR child_object_id = ?", objectID, objectID)
	if err != nil {
		return nil, fmt.Errorf("engine: delete_object: load memberships: %w", err)
	}
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row[0].(int64)
	}
	return ids, nil
}

func deleteDataForMemberships(ctx context.Context, scoped *storage.Driver, membershipIDs []int64) error {
	placeholders, args := dataIDPlaceholders(membershipIDs)
	rows, err := scoped.Query(ctx, fmt.Sprintf("SELECT data_id FROM t_data WHERE membership_id IN (%s)", placeholders), args...)
	if err != nil {
		return fmt.Errorf("engine: delete_object: load data: %w", err)
	}
	dataIDs := make([]int64, len(rows))
	for i, row := range rows {
		dataIDs[i] = row[0].(int64)
	}
	return deleteDataRows(ctx, scoped, dataIDs)
}

// deleteDataRows removes the Tag/Text/Band children of dataIDs, then the
// Data rows themselves.
func deleteDataRows(ctx context.Context, scoped *storage.Driver, dataIDs []int64) error {
	if len(dataIDs) == 0 {
		return nil
	}
	placeholders, args := dataIDPlaceholders(dataIDs)
	for _, table := range []string{"t_tag", "t_text", "t_band"} {
		query := fmt.Sprintf("DELETE FROM %s WHERE data_id IN (%s)", table, placeholders)
		if _, err := scoped.Execute(ctx, query, args...); err != nil {
			return fmt.Errorf("engine: delete data children from %s: %w", table, err)
		}
	}
	if _, err := scoped.Execute(ctx, fmt.Sprintf("DELETE FROM t_data WHERE data_id IN (%s)", placeholders), args...); err != nil {
		return fmt.Errorf("engine: delete data rows: %w", err)
	}
	return nil
}
