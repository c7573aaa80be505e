package pgsql

// TypeComposite tags columns which are attributes of a composite type,
// the table name is then the name of the type.
const TypeComposite string = "composite"
