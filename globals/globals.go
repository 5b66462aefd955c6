package globals

// JwtSecret signs and verifies bearer tokens. Set from config at startup.
var JwtSecret []byte

// Context keys
type ContextKey string

const (
	UserIDKey    ContextKey = "userId"
	RequestIDKey ContextKey = "requestId"
)
