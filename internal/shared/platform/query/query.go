package query

// ---------- Tipos de filtrado / paginación / ordenamiento ----------

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int
}

// CursorPagination para paginación tipo cursor: el cursor es el ID opaco del
// último registro visto y la consulta continúa estrictamente después de él.
type CursorPagination struct {
	Limit  int
	Cursor string
}

// Interfaz genérica para paginación
type Pagination interface{}

// Sort indica campo y dirección.
type Sort struct {
	Field string // ej. "published_at", "created_at"
	Desc  bool
}
