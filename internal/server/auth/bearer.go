package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filehost/internal/common"
)

// BearerToken extracts the token from an Authorization header value.
//
//	""                 -> common.ErrMissingToken
//	non-printable text -> common.ErrInvalidToken
//	no "Bearer " scheme or empty token -> common.ErrInvalidToken
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", common.ErrMissingToken
	}

	for i := 0; i < len(header); i++ {
		if c := header[i]; (c < 0x20 && c != '\t') || c >= 0x7f {
			return "", fmt.Errorf("%w: header is not visible ASCII", common.ErrInvalidToken)
		}
	}

	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", common.ErrInvalidToken
	}

	return strings.TrimSpace(token), nil
}
