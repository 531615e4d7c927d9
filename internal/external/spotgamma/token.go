package spotgamma

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SignedToken builds the HS256 JWT the levels endpoint expects in its
// x-json-web-token header. The claim set is merged with an "iat"
// (issued-at, epoch seconds) claim when absent, so the token is
// deterministic for a fixed claim set and timestamp.
func SignedToken(secret string, claims map[string]interface{}) (string, error) {
	merged := jwt.MapClaims{}
	for k, v := range claims {
		merged[k] = v
	}

	if _, ok := merged["iat"]; !ok {
		merged["iat"] = time.Now().Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, merged)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
