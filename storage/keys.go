package storage

// Canonical keys used by the state modules. Keys are flat strings; payloads
// carry no version marker, so shape changes must stay decodable or fall back
// to defaults on load.
const (
	// Session scope.
	KeyCart        = "cart"
	KeyGuest       = "guest"
	KeyGuestOrders = "guest_orders"

	// Durable scope.
	KeyToken        = "token"
	KeyRefreshToken = "refresh_token"
	KeyTableColumns = "table_columns"
	KeyLanguage     = "language"
)
