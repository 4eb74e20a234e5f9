package utils

import (
	"crypto/rand"     // Salt generation
	"crypto/subtle"   // Constant-time comparison
	"encoding/base64" // PHC string encoding
	"fmt"             // Hash formatting and parsing
	"strings"         // Prefix checks

	"golang.org/x/crypto/argon2" // Argon2id key derivation
	"golang.org/x/crypto/bcrypt" // Legacy hash verification
)

// Argon2id parameters
const (
	argonMemory  uint32 = 64 * 1024 // 2^16 KiB
	argonTime    uint32 = 3         // Iterations
	argonThreads uint8  = 1         // Parallelism
	argonKeyLen  uint32 = 32        // Derived key length
	argonSaltLen        = 16        // Random salt per hash
)

// DummyHash is a well-formed Argon2id hash with the current parameters that no known
// password matches. Verifying against it costs as much as verifying a stored hash.
var DummyHash = fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
	argon2.Version, argonMemory, argonTime, argonThreads,
	"Y0ea1poJCyWCd+yPum+ZQQ", "LHDhK3oGRvkiefQnx7OOczTY5Tic/xZ6HcMOc/gmtoM",
)

// HashPassword hashes a plaintext password with Argon2id and a random salt.
// The result is a PHC string: $argon2id$v=19$m=65536,t=3,p=1$<salt>$<key>
func HashPassword(plain string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks plain against an Argon2id or bcrypt hash.
// Any malformed hash yields false.
func VerifyPassword(plain, hash string) bool {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return verifyArgon2id(plain, hash)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil // Seeded legacy accounts
	default:
		return false
	}
}

func verifyArgon2id(plain, hash string) bool {
	parts := strings.Split(hash, "$") // "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 {
		return false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}
	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}
	// Stored parameters are untrusted input; bound the work they can demand
	if memory == 0 || memory > 1<<18 || iterations == 0 || iterations > 10 || threads == 0 || threads > 16 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return false
	}
	candidate := argon2.IDKey([]byte(plain), salt, iterations, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}
