package constants

// HTTP header and scheme constants for the OpenKitx403 protocol.
const (
	// SchemeName is the Authorization/WWW-Authenticate scheme token.
	SchemeName = "OpenKitx403"

	// HeaderWWWAuthenticate carries the fresh challenge on a 403 response.
	HeaderWWWAuthenticate = "WWW-Authenticate"

	// HeaderAuthorization carries the client's proof on retry.
	HeaderAuthorization = "Authorization"

	// HeaderAuthenticatedAddress is set on the response by the host after a
	// successful verification. Optional per the protocol.
	HeaderAuthenticatedAddress = "X-Authenticated-Address"

	// HeaderOrigin and HeaderReferer are read for origin binding.
	HeaderOrigin  = "Origin"
	HeaderReferer = "Referer"

	// HeaderUserAgent is read for user-agent binding.
	HeaderUserAgent = "User-Agent"
)
