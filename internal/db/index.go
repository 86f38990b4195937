package db

// StorageType selects the FT index storage backing.
type StorageType string

// StorageHash backs FT indexes with Redis hashes.
const StorageHash StorageType = "HASH"

// IndexFieldType is the FT schema field type.
type IndexFieldType string

// IndexFieldNumeric indexes a numeric hash field for range queries.
const IndexFieldNumeric IndexFieldType = "NUMERIC"

// IndexDefinition describes an FT index to create.
type IndexDefinition struct {
	Name        string
	StorageType StorageType
	Prefixes    []string
	Fields      []IndexField
}

// IndexField is a single schema field of an FT index.
type IndexField struct {
	Name string
	Type IndexFieldType
}
