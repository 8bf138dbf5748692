// Package secrethash computes the SECRET_HASH value required when calling a
// Cognito app client that was created with a client secret.
package secrethash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Compute returns base64(HMAC-SHA256(clientSecret, username+clientID)).
//
// The result is deterministic and the function never fails. Empty inputs are
// accepted even though the identity provider will reject them.
func Compute(username, clientID, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
