package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridmodel/plexosdb/internal/schema"
	"github.com/gridmodel/plexosdb/internal/storage"
)

// CopyObjectOptions customizes CopyObject beyond the required class,
// source name, and destination name.
type CopyObjectOptions struct {
	CopyProperties bool
}

// CopyObject duplicates an Object under a new name within the same
// class and category: it gets its own fresh system membership (exactly
// as AddObject would create), and every other, non-system membership the
// source object held is recreated (as either the parent or child side,
// matching the original's role). If opts.CopyProperties, every Data row
// reachable through those memberships, or through the source's system
// membership under the same collection as the copy's, is cloned along
// with its Tag/Text/Band children. The whole operation runs in one transaction,
// using in-memory old→new id maps since both mappings live only for this
// call's duration. Returns the new object's id.
func (e *Engine) CopyObject(ctx context.Context, class schema.Class, sourceName, destName string, opts CopyObjectOptions) (int64, error) {
	var newObjectID int64
	err := e.driver.Transaction(ctx, func(scoped *storage.Driver) error {
		classID, err := e.classID(ctx, scoped, class)
		if err != nil {
			return err
		}
		srcObjectID, err := e.objectID(ctx, scoped, class, sourceName, classID)
		if err != nil {
			return err
		}
		srcRow, err := scoped.FetchOne(ctx, "SELECT category_id, description FROM t_object WHERE object_id = ?", srcObjectID)
		if err != nil {
			return fmt.Errorf("engine: copy_object: %w", err)
		}
		var categoryID any
		var description string
		if srcRow != nil {
			categoryID = srcRow[0]
			description = srcRow[1].(string)
		}

		res, err := scoped.Execute(ctx,
			"INSERT INTO t_object (name, class_id, category_id, description, guid) VALUES (?, ?, ?, ?, ?)",
			destName, classID, categoryID, description, uuid.NewString())
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: object %q already exists for class %q", ErrNameInvalid, destName, class)
			}
			return fmt.Errorf("engine: copy_object: %w", err)
		}
		newObjectID, err = storage.LastInsertRowID(res)
		if err != nil {
			return err
		}

		if class != schema.ClassSystem {
			collection, ok := schema.DefaultCollectionFor(class)
			if !ok {
				return fmt.Errorf("%w: no default collection for class %q", ErrNameInvalid, class)
			}
			if err := e.insertSystemMembership(ctx, scoped, class, classID, newObjectID, collection); err != nil {
				return err
			}
		}

		membershipMapping, err := e.copyMemberships(ctx, scoped, srcObjectID, newObjectID)
		if err != nil {
			return err
		}
		if !opts.CopyProperties || len(membershipMapping) == 0 {
			return nil
		}
		return e.copyProperties(ctx, scoped, membershipMapping)
	})
	if err != nil {
		return 0, err
	}
	return newObjectID, nil
}

// copyMemberships recreates every non-system membership touching
// srcObjectID (on either side) as the equivalent edge for newObjectID,
// preserving the original's role, and returns old→new membership_id. The
// returned map also pairs the source's system membership with the copy's
// already-inserted system membership when both use the same collection.
func (e *Engine) copyMemberships(ctx context.Context, scoped *storage.Driver, srcObjectID, newObjectID int64) (map[int64]int64, error) {
	systemClassID, err := e.classID(ctx, scoped, schema.ClassSystem)
	if err != nil {
		return nil, err
	}

	rows, err := scoped.Query(ctx, `
		SELECT membership_id, parent_class_id, parent_object_id, child_class_id, child_object_id, collection_id
		FROM t_membership
		WHERE (parent_object_id = ? OR child_object_id = ?) AND parent_class_id != ?
	`, srcObjectID, srcObjectID, systemClassID)
	if err != nil {
		return nil, fmt.Errorf("engine: copy_object: load memberships: %w", err)
	}

	mapping := make(map[int64]int64, len(rows))
	for _, row := range rows {
		oldMembershipID := row[0].(int64)
		parentClassID := row[1].(int64)
		parentObjectID := row[2].(int64)
		childClassID := row[3].(int64)
		childObjectID := row[4].(int64)
		collectionID := row[5].(int64)

		if parentObjectID == srcObjectID {
			parentObjectID = newObjectID
		}
		if childObjectID == srcObjectID {
			childObjectID = newObjectID
		}

		res, err := scoped.Execute(ctx,
			"INSERT INTO t_membership (parent_class_id, parent_object_id, child_class_id, child_object_id, collection_id) VALUES (?, ?, ?, ?, ?)",
			parentClassID, parentObjectID, childClassID, childObjectID, collectionID)
		if err != nil {
			return nil, fmt.Errorf("engine: copy_object: clone membership: %w", err)
		}
		newMembershipID, err := storage.LastInsertRowID(res)
		if err != nil {
			return nil, err
		}
		mapping[oldMembershipID] = newMembershipID
	}

	sysRows, err := scoped.Query(ctx, `
		SELECT o.membership_id, n.membership_id
		FROM t_membership o
		JOIN t_membership n ON n.parent_object_id = o.parent_object_id AND n.collection_id = o.collection_id
		WHERE o.child_object_id = ? AND n.child_object_id = ? AND o.parent_class_id = ?
	`, srcObjectID, newObjectID, systemClassID)
	if err != nil {
		return nil, fmt.Errorf("engine: copy_object: load system memberships: %w", err)
	}
	for _, row := range sysRows {
		mapping[row[0].(int64)] = row[1].(int64)
	}
	return mapping, nil
}

// copyProperties clones every Data row (and its Tag/Text/Band children)
// for the memberships in membershipMapping's keys, remapped to the new
// membership ids. The per-row old→new data_id mapping records each
// clone's own last-insert id as it is inserted, so duplicate
// (membership_id, property_id, value) rows are still paired one to one.
func (e *Engine) copyProperties(ctx context.Context, scoped *storage.Driver, membershipMapping map[int64]int64) error {
	oldIDs := make([]int64, 0, len(membershipMapping))
	for old := range membershipMapping {
		oldIDs = append(oldIDs, old)
	}
	placeholders, args := dataIDPlaceholders(oldIDs)
	rows, err := scoped.Query(ctx,
		fmt.Sprintf("SELECT data_id, membership_id, property_id, value FROM t_data WHERE membership_id IN (%s)", placeholders),
		args...)
	if err != nil {
		return fmt.Errorf("engine: copy_object: load data: %w", err)
	}

	dataMapping := make(map[int64]int64, len(rows))
	for _, row := range rows {
		oldDataID := row[0].(int64)
		newMembershipID := membershipMapping[row[1].(int64)]
		propertyID := row[2].(int64)
		value := row[3].(string)

		res, err := scoped.Execute(ctx,
			"INSERT INTO t_data (membership_id, property_id, value) VALUES (?, ?, ?)",
			newMembershipID, propertyID, value)
		if err != nil {
			return fmt.Errorf("engine: copy_object: clone data: %w", err)
		}
		newDataID, err := storage.LastInsertRowID(res)
		if err != nil {
			return err
		}
		dataMapping[oldDataID] = newDataID
	}
	if len(dataMapping) == 0 {
		return nil
	}

	oldDataIDs := make([]int64, 0, len(dataMapping))
	for old := range dataMapping {
		oldDataIDs = append(oldDataIDs, old)
	}

	if err := cloneDataChildren(ctx, scoped, oldDataIDs, dataMapping,
		"SELECT data_id, object_id, state, action_id FROM t_tag WHERE data_id IN (%s)",
		"INSERT INTO t_tag (data_id, object_id, state, action_id) VALUES (?, ?, ?, ?)"); err != nil {
		return err
	}
	if err := cloneDataChildren(ctx, scoped, oldDataIDs, dataMapping,
		"SELECT data_id, class_id, value, state, action_id FROM t_text WHERE data_id IN (%s)",
		"INSERT INTO t_text (data_id, class_id, value, state, action_id) VALUES (?, ?, ?, ?, ?)"); err != nil {
		return err
	}
	if err := cloneDataChildren(ctx, scoped, oldDataIDs, dataMapping,
		"SELECT data_id, band, state FROM t_band WHERE data_id IN (%s)",
		"INSERT INTO t_band (data_id, band, state) VALUES (?, ?, ?)"); err != nil {
		return err
	}
	return nil
}

// cloneDataChildren reads rows matching selectQuery (whose first column
// must be data_id) for oldDataIDs, remaps that column through dataMapping,
// and reinserts each row via insertQuery.
func cloneDataChildren(ctx context.Context, scoped *storage.Driver, oldDataIDs []int64, dataMapping map[int64]int64, selectQuery, insertQuery string) error {
	placeholders, args := dataIDPlaceholders(oldDataIDs)
	rows, err := scoped.Query(ctx, fmt.Sprintf(selectQuery, placeholders), args...)
	if err != nil {
		return fmt.Errorf("engine: copy_object: load data children: %w", err)
	}
	for _, row := range rows {
		newRow := make([]any, len(row))
		copy(newRow, row)
		newRow[0] = dataMapping[row[0].(int64)]
		if _, err := scoped.Execute(ctx, insertQuery, newRow...); err != nil {
			return fmt.Errorf("engine: copy_object: clone data children: %w", err)
		}
	}
	return nil
}
