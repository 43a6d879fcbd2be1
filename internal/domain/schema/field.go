package schema

// FieldType is the native type tag a row source reports for a column
type FieldType string

const (
	// Character and identifier-like fields
	FieldTypeChar              FieldType = "CHAR"
	FieldTypeText              FieldType = "TEXT"
	FieldTypeEmail             FieldType = "EMAIL"
	FieldTypeSlug              FieldType = "SLUG"
	FieldTypeURL               FieldType = "URL"
	FieldTypeIPAddress         FieldType = "IP_ADDRESS"
	FieldTypeGenericIPAddress  FieldType = "GENERIC_IP_ADDRESS"
	FieldTypeFilePath          FieldType = "FILE_PATH"
	FieldTypeCommaSeparatedInt FieldType = "COMMA_SEPARATED_INT"
	FieldTypeUUID              FieldType = "UUID"

	// Numeric fields
	FieldTypeAuto             FieldType = "AUTO"
	FieldTypeInt              FieldType = "INT"
	FieldTypeSmallInt         FieldType = "SMALLINT"
	FieldTypeBigInt           FieldType = "BIGINT"
	FieldTypePositiveInt      FieldType = "POSITIVE_INT"
	FieldTypePositiveSmallInt FieldType = "POSITIVE_SMALLINT"
	FieldTypeFloat            FieldType = "FLOAT"
	FieldTypeDecimal          FieldType = "DECIMAL"
	FieldTypeForeignKey       FieldType = "FOREIGN_KEY"

	FieldTypeBool     FieldType = "BOOL"
	FieldTypeNullBool FieldType = "NULL_BOOL"

	FieldTypeDate     FieldType = "DATE"
	FieldTypeDateTime FieldType = "DATETIME"
	FieldTypeTime     FieldType = "TIME"
)

// Field describes one local column of a row source
type Field struct {
	Name    string    `json:"name" yaml:"name"`                           // logical name, used as column key
	Attname string    `json:"attname,omitempty" yaml:"attname,omitempty"` // storage attribute name (e.g. "owner_id"), defaults to Name
	Type    FieldType `json:"type" yaml:"type"`
}

// AttributeName returns the storage attribute name of the field
func (f Field) AttributeName() string {
	if f.Attname == "" {
		return f.Name
	}
	return f.Attname
}

// Matches reports whether key addresses this field by logical or storage name
func (f Field) Matches(key string) bool {
	return key == f.Name || key == f.AttributeName()
}

// AggregateSpec describes an aggregate alias exposed by a row source
type AggregateSpec struct {
	Alias string
	// Type is the native type of the aggregate's result
	Type FieldType
}
