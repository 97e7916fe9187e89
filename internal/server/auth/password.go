package auth

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost is the bcrypt work factor used for new password hashes.
// Cost 10 keeps an interactive sign-in in the low tens of milliseconds while
// staying expensive for offline brute force.
const DefaultHashCost = 10

// HashPassword produces a salted bcrypt digest of plaintext. The digest is
// self-describing (algorithm, cost and salt are embedded), so verification
// needs nothing besides the digest itself. cost <= 0 selects DefaultHashCost.
// bcrypt rejects inputs over 72 bytes; callers enforce that limit at the
// validation boundary.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultHashCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches digest. The comparison is
// constant-time inside bcrypt; malformed digests simply report false, they
// never panic or leak details.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
