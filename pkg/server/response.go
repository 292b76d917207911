package server

import (
	"encoding/json"
	"net/http"

	"github.com/openkitx403/openkitx403/pkg/challenge"
	"github.com/openkitx403/openkitx403/pkg/constants"
	"github.com/openkitx403/openkitx403/pkg/verify"
)

// errorBody is the JSON body shape returned on every 403 rejection.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// writeChallenge emits a 403 carrying a fresh WWW-Authenticate challenge
// for method/path and the given error code/description. The fresh
// challenge is always built for the current request's method and path,
// never the failing proof's, so a client that retries against the same
// route gets a challenge it can actually satisfy.
func writeChallenge(w http.ResponseWriter, builder *challenge.Builder, method, path string, code verify.Code, description string) error {
	_, header, err := builder.Build(method, path, nil)
	if err != nil {
		return err
	}

	w.Header().Set(constants.HeaderWWWAuthenticate, header)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)

	return json.NewEncoder(w).Encode(errorBody{
		Error:            string(code),
		ErrorDescription: description,
	})
}
