package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridmodel/plexosdb/internal/coerce"
	"github.com/gridmodel/plexosdb/internal/schema"
)

// IteratePropertiesOptions narrows IterateProperties beyond the required
// class. Zero values impose no filter; an empty ObjectNames/PropertyNames
// slice matches every object/property reachable under class.
type IteratePropertiesOptions struct {
	ObjectNames   []string
	PropertyNames []string
	ParentClass   schema.Class
	Collection    schema.Collection
	ChunkSize     int // defaults to 1000
}

// IterateProperties is the lazy analogue of GetObjectProperties: rather
// than building the whole result set in memory, it streams merged records
// to yield in chunk_size batches built on the Storage Driver's IterDicts,
// so a caller can stop early (returning false from yield) without paying
// for properties it never reads. Returns ErrNoProperties if nothing under
// class matches the filter.
func (e *Engine) IterateProperties(ctx context.Context, class schema.Class, opts IteratePropertiesOptions, yield func(PropertyRecord) bool) error {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultQueryChunkSize
	}

	d := e.driver
	classID, err := e.classID(ctx, d, class)
	if err != nil {
		return err
	}

	query := strings.Builder{}
	query.WriteString(`
		SELECT d.data_id, ch.name AS object_name, p.name AS property_name, d.value, u.value AS unit_value
		FROM t_data d
		JOIN t_membership m ON m.membership_id = d.membership_id
		JOIN t_object ch ON ch.object_id = m.child_object_id
		JOIN t_property p ON p.property_id = d.property_id
		LEFT JOIN t_unit u ON u.unit_id = p.unit_id
		WHERE m.child_class_id = ?
	`)
	args := []any{classID}
	if len(opts.ObjectNames) > 0 {
		placeholders := make([]string, len(opts.ObjectNames))
		for i, name := range opts.ObjectNames {
			placeholders[i] = "?"
			args = append(args, name)
		}
		query.WriteString(fmt.Sprintf(" AND ch.name IN (%s)", joinPlaceholders(placeholders)))
	}
	if len(opts.PropertyNames) > 0 {
		placeholders := make([]string, len(opts.PropertyNames))
		for i, name := range opts.PropertyNames {
			placeholders[i] = "?"
			args = append(args, name)
		}
		query.WriteString(fmt.Sprintf(" AND p.name IN (%s)", joinPlaceholders(placeholders)))
	}
	if opts.ParentClass != "" {
		query.WriteString(" AND m.parent_class_id = (SELECT class_id FROM t_class WHERE name = ?)")
		args = append(args, string(opts.ParentClass))
	}
	if opts.Collection != "" {
		query.WriteString(" AND m.collection_id = (SELECT collection_id FROM t_collection WHERE name = ? AND parent_class_id = m.parent_class_id AND child_class_id = m.child_class_id)")
		args = append(args, string(opts.Collection))
	}

	var (
		chunk    []PropertyRecord
		dataIDs  []int64
		index    = make(map[int64]int, chunkSize)
		seen     bool
		stopped  bool
		flushErr error
	)

	flush := func() {
		if len(chunk) == 0 {
			return
		}
		if flushErr = e.attachTexts(ctx, dataIDs, index, chunk); flushErr != nil {
			return
		}
		if flushErr = e.attachTags(ctx, dataIDs, index, chunk); flushErr != nil {
			return
		}
		if flushErr = e.attachBands(ctx, dataIDs, index, chunk); flushErr != nil {
			return
		}
		if flushErr = e.attachScenario(ctx, dataIDs, index, chunk); flushErr != nil {
			return
		}
		for _, rec := range chunk {
			if !yield(rec) {
				stopped = true
				break
			}
		}
		chunk = chunk[:0]
		dataIDs = dataIDs[:0]
		index = make(map[int64]int, chunkSize)
	}

	err = d.IterDicts(ctx, query.String(), args, func(row map[string]any) bool {
		seen = true
		dataID := row["data_id"].(int64)
		unit := ""
		if row["unit_value"] != nil {
			unit, _ = row["unit_value"].(string)
		}
		index[dataID] = len(chunk)
		chunk = append(chunk, PropertyRecord{
			DataID:   dataID,
			Name:     row["object_name"].(string),
			Property: row["property_name"].(string),
			Value:    coerce.Coerce(row["value"].(string)),
			Unit:     unit,
		})
		dataIDs = append(dataIDs, dataID)

		if len(chunk) < chunkSize {
			return true
		}
		flush()
		return flushErr == nil && !stopped
	})
	if err != nil {
		return fmt.Errorf("engine: iterate_properties: %w", err)
	}
	if flushErr != nil {
		return flushErr
	}
	if !stopped {
		flush()
		if flushErr != nil {
			return flushErr
		}
	}
	if !seen {
		return fmt.Errorf("%w: class %q has no matching properties", ErrNoProperties, class)
	}
	return nil
}
