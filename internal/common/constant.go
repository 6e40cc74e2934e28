package common

// HTTP header names of the table-store protocol.
const (
	APIKeyHeaderName = "apikey"
	AuthHeaderName   = "Authorization"
)

// SingletonRowID is the fixed identifier of the one logical document row
// each table holds. Identity is this id, never a generated key; that is
// what makes document writes idempotent-by-replacement.
const SingletonRowID = 1

// Well-known table names.
const (
	TableOrders  = "ordenes"
	TableGuardia = "estado_guardia"
	TableLogbook = "libro_novedades"
	TableCatalog = "inventario"
)
