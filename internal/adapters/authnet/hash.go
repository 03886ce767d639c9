package authnet

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// ComputeHash returns the uppercase hex MD5 of secret, login ID, transaction
// ID and amount concatenated, which is what the gateway sends as MD5_Hash.
func ComputeHash(secret, loginID, transID, amount string) string {
	sum := md5.Sum([]byte(secret + loginID + transID + amount))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyHash compares the provided hash with the expected one, ignoring case,
// in constant time. An empty secret disables verification.
func VerifyHash(secret, loginID, transID, amount, provided string) bool {
	if secret == "" {
		return true
	}
	expected := ComputeHash(secret, loginID, transID, amount)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToUpper(provided))) == 1
}
