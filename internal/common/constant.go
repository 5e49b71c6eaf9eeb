package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in AuthorizationHeaderName.
const BearerPrefix = "Bearer "

// Identifier prefixes for sequentially numbered profiles.
const (
	MemberIDPrefix    = "MEM"
	AdminIDPrefix     = "ADM"
	LibrarianIDPrefix = "LIB"
)
