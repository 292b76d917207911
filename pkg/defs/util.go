package defs

import (
	"fmt"
	"strings"
)

// parseEnumCaseInsensitive matches input against valid case-insensitively,
// returning the canonically-cased member on a match.
func parseEnumCaseInsensitive[T ~string](input string, valid ...T) (T, error) {
	for _, v := range valid {
		if strings.EqualFold(input, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unrecognized value %q, expected one of %v", input, valid)
}
