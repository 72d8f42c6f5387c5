package crypto

import "golang.org/x/crypto/bcrypt"

// DummyHash is compared against when a login names an unknown user, so that
// path costs the same as a real mismatch.
var DummyHash, _ = bcrypt.GenerateFromPassword([]byte("inkwell-placeholder-credential"), bcrypt.DefaultCost)

// HashPassword hashes plaintext using bcrypt with the given cost. A cost of
// zero selects bcrypt.DefaultCost.
func HashPassword(plain string, cost int) ([]byte, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(plain), cost)
}

// CheckPassword reports whether plain reproduces hash. A malformed hash
// compares as false rather than faulting.
func CheckPassword(hash []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}
