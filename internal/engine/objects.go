package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gridmodel/plexosdb/internal/schema"
	"github.com/gridmodel/plexosdb/internal/storage"
)

// defaultCategoryName is the category every class implicitly has and
// objects fall back to when no explicit category is requested.
const defaultCategoryName = "-"

// AddObjectOptions customizes AddObject beyond the required class and
// name. Every field is optional; zero values select the documented
// defaults.
type AddObjectOptions struct {
	Category    string
	Description string
	Collection  schema.Collection
}

// AddObject creates a new Object under class, resolving or creating its
// category (default "-"), and — unless class is the system class —
// inserting the system membership under opts.Collection or
// schema.DefaultCollectionFor(class). Returns the new object id.
func (e *Engine) AddObject(ctx context.Context, class schema.Class, name string, opts AddObjectOptions) (int64, error) {
	var objectID int64
	err := e.driver.Transaction(ctx, func(scoped *storage.Driver) error {
		classID, err := e.classID(ctx, scoped, class)
		if err != nil {
			return err
		}

		categoryName := opts.Category
		if categoryName == "" {
			categoryName = defaultCategoryName
		}
		categoryID, err := e.resolveOrCreateCategory(ctx, scoped, class, classID, categoryName)
		if err != nil {
			return err
		}

		res, err := scoped.Execute(ctx,
			"INSERT INTO t_object (name, class_id, category_id, description, guid) VALUES (?, ?, ?, ?, ?)",
			name, classID, categoryID, opts.Description, uuid.NewString())
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: object %q already exists for class %q", ErrNameInvalid, name, class)
			}
			return fmt.Errorf("engine: add_object: %w", err)
		}
		objectID, err = storage.LastInsertRowID(res)
		if err != nil {
			return fmt.Errorf("engine: add_object: %w", err)
		}

		if class == schema.ClassSystem {
			return nil
		}
		collection := opts.Collection
		if collection == "" {
			var ok bool
			collection, ok = schema.DefaultCollectionFor(class)
			if !ok {
				return fmt.Errorf("%w: no default collection for class %q", ErrNameInvalid, class)
			}
		}
		return e.insertSystemMembership(ctx, scoped, class, classID, objectID, collection)
	})
	if err != nil {
		return 0, err
	}
	return objectID, nil
}

// AddObjects creates many Objects of the same class and category in one
// transaction — first inserting every Object, then every system
// membership, one row per statement rather than as a batched insertmany —
// and returns a name→id map for the new rows.
func (e *Engine) AddObjects(ctx context.Context, names []string, class schema.Class, category string) (map[string]int64, error) {
	if len(names) == 0 {
		return map[string]int64{}, nil
	}
	if category == "" {
		category = defaultCategoryName
	}

	result := make(map[string]int64, len(names))
	err := e.driver.Transaction(ctx, func(scoped *storage.Driver) error {
		classID, err := e.classID(ctx, scoped, class)
		if err != nil {
			return err
		}
		categoryID, err := e.resolveOrCreateCategory(ctx, scoped, class, classID, category)
		if err != nil {
			return err
		}

		for _, name := range names {
			res, err := scoped.Execute(ctx,
				"INSERT INTO t_object (name, class_id, category_id, description, guid) VALUES (?, ?, ?, '', ?)",
				name, classID, categoryID, uuid.NewString())
			if err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: object %q already exists for class %q", ErrNameInvalid, name, class)
				}
				return fmt.Errorf("engine: add_objects: %w", err)
			}
			id, err := storage.LastInsertRowID(res)
			if err != nil {
				return fmt.Errorf("engine: add_objects: %w", err)
			}
			result[name] = id
		}

		if class == schema.ClassSystem {
			return nil
		}
		collection, ok := schema.DefaultCollectionFor(class)
		if !ok {
			return fmt.Errorf("%w: no default collection for class %q", ErrNameInvalid, class)
		}
		for _, name := range names {
			if err := e.insertSystemMembership(ctx, scoped, class, classID, result[name], collection); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// insertSystemMembership inserts the conventional parent→child edge from
// the unique system object to objectID, under collection.
func (e *Engine) insertSystemMembership(ctx context.Context, scoped *storage.Driver, childClass schema.Class, childClassID, objectID int64, collection schema.Collection) error {
	systemClassID, err := e.classID(ctx, scoped, schema.ClassSystem)
	if err != nil {
		return err
	}
	systemObjectID, err := e.objectID(ctx, scoped, schema.ClassSystem, "System", systemClassID)
	if err != nil {
		return err
	}
	collectionID, err := e.collectionID(ctx, scoped, collection, systemClassID, childClassID)
	if err != nil {
		return err
	}
	_, err = scoped.Execute(ctx,
		"INSERT INTO t_membership (parent_class_id, parent_object_id, child_class_id, child_object_id, collection_id) VALUES (?, ?, ?, ?, ?)",
		systemClassID, systemObjectID, childClassID, objectID, collectionID)
	if err != nil {
		return fmt.Errorf("engine: insert system membership: %w", err)
	}
	return nil
}

// resolveOrCreateCategory looks up (class, name) in t_category, creating
// it with the next available rank if absent.
func (e *Engine) resolveOrCreateCategory(ctx context.Context, scoped *storage.Driver, class schema.Class, classID int64, name string) (int64, error) {
	row, err := scoped.FetchOne(ctx, "SELECT category_id FROM t_category WHERE name = ? AND class_id = ?", name, classID)
	if err != nil {
		return 0, fmt.Errorf("engine: resolve category: %w", err)
	}
	if row != nil {
		return row[0].(int64), nil
	}

	maxRow, err := scoped.FetchOne(ctx, "SELECT COALESCE(MAX(rank), 0) FROM t_category WHERE class_id = ?", classID)
	if err != nil {
		return 0, fmt.Errorf("engine: resolve category: %w", err)
	}
	nextRank := maxRow[0].(int64) + 1

	res, err := scoped.Execute(ctx, "INSERT INTO t_category (name, class_id, rank) VALUES (?, ?, ?)", name, classID, nextRank)
	if err != nil {
		return 0, fmt.Errorf("engine: create category %q for class %q: %w", name, class, err)
	}
	return storage.LastInsertRowID(res)
}

// classID is the scoped-transaction variant of GetClassID, querying
// through scoped rather than e.driver so it sees uncommitted writes from
// the same transaction.
func (e *Engine) classID(ctx context.Context, scoped *storage.Driver, class schema.Class) (int64, error) {
	row, err := scoped.FetchOne(ctx, "SELECT class_id FROM t_class WHERE name = ?", string(class))
	if err != nil {
		return 0, fmt.Errorf("engine: get_class_id: %w", err)
	}
	if row == nil {
		return 0, fmt.Errorf("%w: class %q; see schema.AllClasses for valid values", ErrNotFound, class)
	}
	return row[0].(int64), nil
}

func (e *Engine) objectID(ctx context.Context, scoped *storage.Driver, class schema.Class, name string, classID int64) (int64, error) {
	row, err := scoped.FetchOne(ctx, "SELECT object_id FROM t_object WHERE name = ? AND class_id = ?", name, classID)
	if err != nil {
		return 0, fmt.Errorf("engine: get_object_id: %w", err)
	}
	if row == nil {
		return 0, fmt.Errorf("%w: object %q of class %q", ErrNotFound, name, class)
	}
	return row[0].(int64), nil
}

func (e *Engine) collectionID(ctx context.Context, scoped *storage.Driver, coll schema.Collection, parentClassID, childClassID int64) (int64, error) {
	row, err := scoped.FetchOne(ctx,
		"SELECT collection_id FROM t_collection WHERE name = ? AND parent_class_id = ? AND child_class_id = ?",
		string(coll), parentClassID, childClassID)
	if err != nil {
		return 0, fmt.Errorf("engine: get_collection_id: %w", err)
	}
	if row == nil {
		return 0, fmt.Errorf("%w: collection %q", ErrNotFound, coll)
	}
	return row[0].(int64), nil
}

// isUniqueViolation reports whether err came from a SQLite UNIQUE
// constraint failure.
func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
