package engine

// schemaDDL is the packaged schema script create_schema runs when no
// caller-supplied script is given. It is opaque to the storage driver —
// ExecuteScript never inspects it — and reproduces every table in the
// data model, one CREATE TABLE per entity, plus the indexes the bulk
// ingestion and property-retrieval paths depend on.
//
// Column names and types here are the source of truth for the XML
// column renderings CreateTableElement produces on export.
const schemaDDL = `
CREATE TABLE t_class (
    class_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE t_collection (
    collection_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    parent_class_id INTEGER NOT NULL REFERENCES t_class(class_id),
    child_class_id INTEGER NOT NULL REFERENCES t_class(class_id),
    UNIQUE (name, parent_class_id, child_class_id)
);

CREATE TABLE t_category (
    category_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    class_id INTEGER NOT NULL REFERENCES t_class(class_id),
    rank INTEGER NOT NULL DEFAULT 0,
    UNIQUE (name, class_id)
);

CREATE TABLE t_object (
    object_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    class_id INTEGER NOT NULL REFERENCES t_class(class_id),
    category_id INTEGER REFERENCES t_category(category_id),
    description TEXT NOT NULL DEFAULT '',
    guid TEXT NOT NULL,
    UNIQUE (name, class_id)
);

CREATE TABLE t_membership (
    membership_id INTEGER PRIMARY KEY AUTOINCREMENT,
    parent_class_id INTEGER NOT NULL REFERENCES t_class(class_id),
    parent_object_id INTEGER NOT NULL REFERENCES t_object(object_id),
    child_class_id INTEGER NOT NULL REFERENCES t_class(class_id),
    child_object_id INTEGER NOT NULL REFERENCES t_object(object_id),
    collection_id INTEGER NOT NULL REFERENCES t_collection(collection_id),
    UNIQUE (parent_object_id, child_object_id, collection_id)
);

CREATE INDEX idx_membership_parent ON t_membership(parent_object_id);
CREATE INDEX idx_membership_child ON t_membership(child_object_id);

CREATE TABLE t_unit (
    unit_id INTEGER PRIMARY KEY AUTOINCREMENT,
    value TEXT NOT NULL
);

CREATE TABLE t_property (
    property_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL COLLATE NOSPACE,
    collection_id INTEGER NOT NULL REFERENCES t_collection(collection_id),
    unit_id INTEGER REFERENCES t_unit(unit_id),
    is_dynamic BIT NOT NULL DEFAULT 0,
    is_enabled BIT NOT NULL DEFAULT 0,
    UNIQUE (name, collection_id)
);

CREATE TABLE t_data (
    data_id INTEGER PRIMARY KEY AUTOINCREMENT,
    membership_id INTEGER NOT NULL REFERENCES t_membership(membership_id),
    property_id INTEGER NOT NULL REFERENCES t_property(property_id),
    value TEXT NOT NULL,
    state INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX idx_data_membership ON t_data(membership_id);
CREATE INDEX idx_data_triple ON t_data(membership_id, property_id, value);

CREATE TABLE t_band (
    band_id INTEGER PRIMARY KEY AUTOINCREMENT,
    data_id INTEGER NOT NULL REFERENCES t_data(data_id),
    band INTEGER NOT NULL DEFAULT 1,
    state INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX idx_band_data ON t_band(data_id);

CREATE TABLE t_tag (
    tag_id INTEGER PRIMARY KEY AUTOINCREMENT,
    data_id INTEGER NOT NULL REFERENCES t_data(data_id),
    object_id INTEGER NOT NULL REFERENCES t_object(object_id),
    state INTEGER NOT NULL DEFAULT 0,
    action_id INTEGER
);

CREATE INDEX idx_tag_data ON t_tag(data_id);
CREATE INDEX idx_tag_object ON t_tag(object_id);

CREATE TABLE t_text (
    text_id INTEGER PRIMARY KEY AUTOINCREMENT,
    data_id INTEGER NOT NULL REFERENCES t_data(data_id),
    class_id INTEGER NOT NULL REFERENCES t_class(class_id),
    value TEXT NOT NULL,
    state INTEGER NOT NULL DEFAULT 0,
    action_id INTEGER
);

CREATE INDEX idx_text_data ON t_text(data_id);

CREATE TABLE t_attribute (
    attribute_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    class_id INTEGER NOT NULL REFERENCES t_class(class_id),
    UNIQUE (name, class_id)
);

CREATE TABLE t_attribute_data (
    object_id INTEGER NOT NULL REFERENCES t_object(object_id),
    attribute_id INTEGER NOT NULL REFERENCES t_attribute(attribute_id),
    value TEXT,
    PRIMARY KEY (object_id, attribute_id)
);

CREATE TABLE t_report (
    object_id INTEGER NOT NULL REFERENCES t_object(object_id),
    property_id INTEGER NOT NULL REFERENCES t_property(property_id),
    phase_id INTEGER NOT NULL DEFAULT 0,
    report_period TEXT,
    report_summary BIT NOT NULL DEFAULT 0,
    report_statistics BIT NOT NULL DEFAULT 0,
    report_samples BIT NOT NULL DEFAULT 0,
    write_flat_files BIT NOT NULL DEFAULT 0,
    PRIMARY KEY (object_id, property_id, phase_id)
);

CREATE TABLE t_config (
    element TEXT PRIMARY KEY,
    value TEXT
);
`
