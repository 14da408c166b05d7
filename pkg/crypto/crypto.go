package crypto

import "golang.org/x/crypto/bcrypt"

// HashSecret meng-hash password atau jawaban rahasia dengan bcrypt.
// Plaintext tidak pernah disimpan.
func HashSecret(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckSecret membandingkan plaintext dengan hash bcrypt yang tersimpan.
func CheckSecret(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
