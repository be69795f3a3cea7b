package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/accessdesk/user-portal/internal/api/metrics"
	"github.com/accessdesk/user-portal/internal/core/domain"
)

// Argon2id parameters.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// PasswordCodec performs one-way Argon2id hashing with a per-hash random
// salt. Output is the PHC string format:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
type PasswordCodec struct{}

func NewPasswordCodec() *PasswordCodec {
	return &PasswordCodec{}
}

// Hash encodes raw with a fresh salt. Hashing the same input twice yields
// different outputs; both verify.
func (c *PasswordCodec) Hash(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("hash password: %w", domain.ErrInvalidInput)
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	start := time.Now()
	digest := argon2.IDKey([]byte(raw), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	metrics.HashDurationSeconds.Observe(time.Since(start).Seconds())

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// Verify reports whether raw matches the encoded hash. It never returns an
// error: empty or malformed input is a mismatch. Comparison is constant
// time over the digest.
func (c *PasswordCodec) Verify(raw, encoded string) bool {
	if raw == "" || encoded == "" {
		return false
	}

	salt, digest, params, err := decodePHC(encoded)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(raw), salt, params.time, params.memory, params.threads, uint32(len(digest)))
	return subtle.ConstantTimeCompare(digest, candidate) == 1
}

type phcParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

// decodePHC splits a PHC-formatted Argon2id string into its components.
func decodePHC(encoded string) (salt, digest []byte, params phcParams, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, nil, params, fmt.Errorf("malformed PHC string")
	}
	if parts[1] != "argon2id" {
		return nil, nil, params, fmt.Errorf("unsupported algorithm %q", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, params, fmt.Errorf("parse version: %w", err)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return nil, nil, params, fmt.Errorf("parse parameters: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decode salt: %w", err)
	}
	digest, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decode digest: %w", err)
	}
	if len(digest) == 0 {
		return nil, nil, params, fmt.Errorf("empty digest")
	}
	return salt, digest, params, nil
}
