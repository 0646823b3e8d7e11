package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridmodel/plexosdb/internal/coerce"
	"github.com/gridmodel/plexosdb/internal/schema"
)

const defaultQueryChunkSize = 1000

// GetObjectPropertiesOptions narrows GetObjectProperties beyond the
// required class and object name. Zero values impose no filter.
type GetObjectPropertiesOptions struct {
	ParentClass  schema.Class // no parent-class filter when empty
	Collection   schema.Collection
	PropertyName string
	ChunkSize    int // defaults to 1000
}

// PropertyRecord is one merged Data row, joined with its unit and any
// attached Text/Tag/Band children and scenario tagging.
type PropertyRecord struct {
	DataID          int64
	Name            string
	Property        string
	Value           any
	Unit            string
	Texts           []string
	Tags            []string
	Bands           []int64
	Scenario        string
	ScenarioCategory string
}

// GetObjectProperties returns every Data row reachable from objectName's
// memberships under the given class (and, if set, opts.ParentClass /
// opts.Collection / opts.PropertyName filters), each merged with its
// unit, texts, tags, bands, and scenario tagging. Returns ErrNoProperties
// if the object exists but has no properties matching the filter.
func (e *Engine) GetObjectProperties(ctx context.Context, class schema.Class, objectName string, opts GetObjectPropertiesOptions) ([]PropertyRecord, error) {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultQueryChunkSize
	}

	d := e.driver
	classID, err := e.classID(ctx, d, class)
	if err != nil {
		return nil, err
	}
	objectID, err := e.objectID(ctx, d, class, objectName, classID)
	if err != nil {
		return nil, err
	}

	query := strings.Builder{}
	query.WriteString(`
		SELECT d.data_id, ch.name AS object_name, p.name AS property_name, d.value, u.value AS unit_value
		FROM t_data d
		JOIN t_membership m ON m.membership_id = d.membership_id
		JOIN t_object ch ON ch.object_id = m.child_object_id
		JOIN t_property p ON p.property_id = d.property_id
		LEFT JOIN t_unit u ON u.unit_id = p.unit_id
		WHERE m.child_object_id = ?
	`)
	args := []any{objectID}
	if opts.ParentClass != "" {
		query.WriteString(" AND m.parent_class_id = (SELECT class_id FROM t_class WHERE name = ?)")
		args = append(args, string(opts.ParentClass))
	}
	if opts.Collection != "" {
		query.WriteString(" AND m.collection_id = (SELECT collection_id FROM t_collection WHERE name = ? AND parent_class_id = m.parent_class_id AND child_class_id = m.child_class_id)")
		args = append(args, string(opts.Collection))
	}
	if opts.PropertyName != "" {
		query.WriteString(" AND p.name = ?")
		args = append(args, opts.PropertyName)
	}

	rows, err := d.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("engine: get_object_properties: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: object %q of class %q has no matching properties", ErrNoProperties, objectName, class)
	}

	records := make([]PropertyRecord, len(rows))
	dataIDs := make([]int64, len(rows))
	index := make(map[int64]int, len(rows))
	for i, row := range rows {
		dataID := row[0].(int64)
		unit := ""
		if row[4] != nil {
			unit = row[4].(string)
		}
		records[i] = PropertyRecord{
			DataID:   dataID,
			Name:     row[1].(string),
			Property: row[2].(string),
			Value:    coerce.Coerce(row[3].(string)),
			Unit:     unit,
		}
		dataIDs[i] = dataID
		index[dataID] = i
	}

	for start := 0; start < len(dataIDs); start += chunkSize {
		end := start + chunkSize
		if end > len(dataIDs) {
			end = len(dataIDs)
		}
		chunk := dataIDs[start:end]
		if err := e.attachTexts(ctx, chunk, index, records); err != nil {
			return nil, err
		}
		if err := e.attachTags(ctx, chunk, index, records); err != nil {
			return nil, err
		}
		if err := e.attachBands(ctx, chunk, index, records); err != nil {
			return nil, err
		}
		if err := e.attachScenario(ctx, chunk, index, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func dataIDPlaceholders(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return joinPlaceholders(placeholders), args
}

func (e *Engine) attachTexts(ctx context.Context, chunk []int64, index map[int64]int, records []PropertyRecord) error {
	placeholders, args := dataIDPlaceholders(chunk)
	rows, err := e.driver.Query(ctx, fmt.Sprintf("SELECT data_id, value FROM t_text WHERE data_id IN (%s)", placeholders), args...)
	if err != nil {
		return fmt.Errorf("engine: get_object_properties: texts: %w", err)
	}
	for _, row := range rows {
		i := index[row[0].(int64)]
		records[i].Texts = append(records[i].Texts, row[1].(string))
	}
	return nil
}

func (e *Engine) attachTags(ctx context.Context, chunk []int64, index map[int64]int, records []PropertyRecord) error {
	placeholders, args := dataIDPlaceholders(chunk)
	query := fmt.Sprintf(`
		SELECT t.data_id, o.name
		FROM t_tag t
		JOIN t_object o ON o.object_id = t.object_id
		JOIN t_class c ON c.class_id = o.class_id
		WHERE t.data_id IN (%s) AND c.name != ?
	`, placeholders)
	args = append(args, string(schema.ClassScenario))
	rows, err := e.driver.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("engine: get_object_properties: tags: %w", err)
	}
	for _, row := range rows {
		i := index[row[0].(int64)]
		records[i].Tags = append(records[i].Tags, row[1].(string))
	}
	return nil
}

func (e *Engine) attachBands(ctx context.Context, chunk []int64, index map[int64]int, records []PropertyRecord) error {
	placeholders, args := dataIDPlaceholders(chunk)
	rows, err := e.driver.Query(ctx, fmt.Sprintf("SELECT data_id, band FROM t_band WHERE data_id IN (%s)", placeholders), args...)
	if err != nil {
		return fmt.Errorf("engine: get_object_properties: bands: %w", err)
	}
	for _, row := range rows {
		i := index[row[0].(int64)]
		records[i].Bands = append(records[i].Bands, row[1].(int64))
	}
	return nil
}

// attachScenario links each data row to the scenario tagging it, keyed on
// the literal "Scenario" class name tying a tagged object to
// schema.ClassScenario.
func (e *Engine) attachScenario(ctx context.Context, chunk []int64, index map[int64]int, records []PropertyRecord) error {
	placeholders, args := dataIDPlaceholders(chunk)
	query := fmt.Sprintf(`
		SELECT t.data_id, o.name, cat.name
		FROM t_tag t
		JOIN t_object o ON o.object_id = t.object_id
		JOIN t_class c ON c.class_id = o.class_id
		LEFT JOIN t_category cat ON cat.category_id = o.category_id
		WHERE t.data_id IN (%s) AND c.name = ?
	`, placeholders)
	args = append(args, string(schema.ClassScenario))
	rows, err := e.driver.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("engine: get_object_properties: scenario: %w", err)
	}
	for _, row := range rows {
		i := index[row[0].(int64)]
		records[i].Scenario = row[1].(string)
		if row[2] != nil {
			records[i].ScenarioCategory = row[2].(string)
		}
	}
	return nil
}
