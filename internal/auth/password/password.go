// Package password hashes and verifies the single admin credential with
// Argon2id. Hashes use the standard encoded form so they can be produced
// out of band and handed to the server through configuration.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16
)

// encodedHash is one parsed $argon2id$v=19$m=..,t=..,p=..$salt$hash string.
type encodedHash struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	hash    []byte
}

// Hash returns the encoded Argon2id hash used for the admin credential.
func Hash(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify checks a password against an encoded hash. It derives the key with
// the parameters stored in the hash, so credentials hashed under older cost
// settings keep verifying. Malformed input verifies as false, never panics.
func Verify(password, encoded string) bool {
	parsed, ok := parseEncoded(encoded)
	if !ok {
		return false
	}

	check := argon2.IDKey([]byte(password), parsed.salt, parsed.time, parsed.memory, parsed.threads, uint32(len(parsed.hash)))
	return subtle.ConstantTimeCompare(parsed.hash, check) == 1
}

func parseEncoded(encoded string) (encodedHash, bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return encodedHash{}, false
	}

	memory, ok := parseParam(parts[3], 0, "m=", 32)
	if !ok {
		return encodedHash{}, false
	}
	timeCost, ok := parseParam(parts[3], 1, "t=", 32)
	if !ok {
		return encodedHash{}, false
	}
	threads, ok := parseParam(parts[3], 2, "p=", 8)
	if !ok {
		return encodedHash{}, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return encodedHash{}, false
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return encodedHash{}, false
	}

	return encodedHash{
		memory:  uint32(memory),
		time:    uint32(timeCost),
		threads: uint8(threads),
		salt:    salt,
		hash:    hash,
	}, true
}

func parseParam(params string, index int, prefix string, bits int) (uint64, bool) {
	fields := strings.Split(params, ",")
	if len(fields) != 3 {
		return 0, false
	}
	value, ok := strings.CutPrefix(fields[index], prefix)
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseUint(value, 10, bits)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
