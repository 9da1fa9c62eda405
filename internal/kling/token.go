package kling

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"
)

const (
	// tokenLifetime is the credential lifetime the Kling API accepts.
	tokenLifetime = 1800 * time.Second
	// notBeforeSkew tolerates minor clock drift against the verifying service.
	notBeforeSkew = 5 * time.Second
)

// SignToken builds the short-lived HS256 bearer token Kling expects:
// base64url(header) "." base64url(payload) "." base64url(hmac-sha256).
// Deterministic for a given (accessKey, secretKey, now); performs no I/O.
func SignToken(accessKey, secretKey string, now time.Time) string {
	unix := now.Unix()
	header := `{"alg":"HS256","typ":"JWT"}`
	payload := fmt.Sprintf(`{"iss":%q,"exp":%d,"nbf":%d,"iat":%d}`,
		accessKey,
		unix+int64(tokenLifetime.Seconds()),
		unix-int64(notBeforeSkew.Seconds()),
		unix,
	)

	enc := base64.RawURLEncoding
	signingInput := enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload))

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(signingInput))

	return signingInput + "." + enc.EncodeToString(mac.Sum(nil))
}
