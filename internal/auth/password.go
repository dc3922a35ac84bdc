package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	HasherArgon2id = "argon2id"
	HasherBcrypt   = "bcrypt"
)

// Argon2id parameters - tuned for security vs performance balance
// Time: 3, Memory: 64MB, Threads: 4, KeyLen: 32 bytes
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

var ErrUnknownHasher = errors.New("unknown password hasher")

// passwordHasher hashes new passwords with one algorithm but verifies
// any format it recognises, so switching PASSWORD_HASHER never locks users out.
type passwordHasher struct {
	algorithm  string
	bcryptCost int
}

// NewPasswordHasher returns a hasher producing argon2id or bcrypt hashes.
func NewPasswordHasher(algorithm string) (PasswordHasher, error) {
	switch algorithm {
	case HasherArgon2id, "":
		return &passwordHasher{algorithm: HasherArgon2id, bcryptCost: bcrypt.DefaultCost}, nil
	case HasherBcrypt:
		return &passwordHasher{algorithm: HasherBcrypt, bcryptCost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, algorithm)
	}
}

// NewBcryptHasher returns a bcrypt hasher with an explicit cost.
func NewBcryptHasher(cost int) PasswordHasher {
	return &passwordHasher{algorithm: HasherBcrypt, bcryptCost: cost}
}

func (h *passwordHasher) Hash(password string) (string, error) {
	if h.algorithm == HasherBcrypt {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
		if err != nil {
			return "", err
		}
		return string(hash), nil
	}
	return hashArgon2id(password)
}

func (h *passwordHasher) Verify(encodedHash, password string) bool {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return verifyArgon2id(encodedHash, password)
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
	default:
		return false
	}
}

func hashArgon2id(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		argon2Time,
		argon2Memory,
		argon2Threads,
		argon2KeyLen,
	)

	// Encode as: $argon2id$v=19$m=65536,t=3,p=4$salt$hash
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyArgon2id(encodedHash, password string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	inputHash := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(decodedHash)))

	return subtle.ConstantTimeCompare(decodedHash, inputHash) == 1
}
