package engine

import (
	"context"
	"fmt"

	"github.com/gridmodel/plexosdb/internal/schema"
	"github.com/gridmodel/plexosdb/internal/storage"
)

// membershipRecordKeys is the exact key set add_memberships_from_records
// requires on every record.
var membershipRecordKeys = []string{
	"parent_class_id", "parent_object_id", "collection_id", "child_class_id", "child_object_id",
}

// AddMembership inserts one directed parent→child edge and returns its
// new id.
func (e *Engine) AddMembership(ctx context.Context, parentClass, childClass schema.Class, parentName, childName string, coll schema.Collection) (int64, error) {
	var membershipID int64
	err := e.driver.Transaction(ctx, func(scoped *storage.Driver) error {
		parentClassID, err := e.classID(ctx, scoped, parentClass)
		if err != nil {
			return err
		}
		childClassID, err := e.classID(ctx, scoped, childClass)
		if err != nil {
			return err
		}
		parentObjectID, err := e.objectID(ctx, scoped, parentClass, parentName, parentClassID)
		if err != nil {
			return err
		}
		childObjectID, err := e.objectID(ctx, scoped, childClass, childName, childClassID)
		if err != nil {
			return err
		}
		collectionID, err := e.collectionID(ctx, scoped, coll, parentClassID, childClassID)
		if err != nil {
			return err
		}
		res, err := scoped.Execute(ctx,
			"INSERT INTO t_membership (parent_class_id, parent_object_id, child_class_id, child_object_id, collection_id) VALUES (?, ?, ?, ?, ?)",
			parentClassID, parentObjectID, childClassID, childObjectID, collectionID)
		if err != nil {
			return fmt.Errorf("engine: add_membership: %w", err)
		}
		membershipID, err = storage.LastInsertRowID(res)
		return err
	})
	if err != nil {
		return 0, err
	}
	return membershipID, nil
}

// AddMembershipsFromRecords bulk-inserts memberships from pre-resolved id
// records. Each record must carry exactly the keys
// parent_class_id/parent_object_id/collection_id/child_class_id/
// child_object_id; any other key set fails the whole call with
// ErrMissingKey before any row is inserted. chunkSize is not used: every
// record goes into a single unchunked insertmany.
func (e *Engine) AddMembershipsFromRecords(ctx context.Context, records []map[string]any, chunkSize int) error {
	for _, rec := range records {
		if !hasExactKeys(rec, membershipRecordKeys) {
			return fmt.Errorf("%w: membership record must have exactly %v", ErrMissingKey, membershipRecordKeys)
		}
	}
	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{
			rec["parent_class_id"], rec["parent_object_id"],
			rec["child_class_id"], rec["child_object_id"], rec["collection_id"],
		}
	}
	const query = "INSERT INTO t_membership (parent_class_id, parent_object_id, child_class_id, child_object_id, collection_id) VALUES (?, ?, ?, ?, ?)"
	if err := e.driver.ExecuteMany(ctx, query, rows); err != nil {
		return fmt.Errorf("engine: add_memberships_from_records: %w", err)
	}
	return nil
}

func hasExactKeys(rec map[string]any, keys []string) bool {
	if len(rec) != len(keys) {
		return false
	}
	for _, k := range keys {
		if _, ok := rec[k]; !ok {
			return false
		}
	}
	return true
}
