package service

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// HashPIN maps a plaintext PIN to its stored digest: a deterministic
// 256-bit SHA3 digest in lowercase hex. PIN equality is always checked by
// comparing digests, plaintext PINs are never stored.
func HashPIN(pin string) string {
	sum := sha3.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

func CheckPIN(pin, digest string) bool {
	return HashPIN(pin) == digest
}

type AuthStatus int

const (
	AuthSuccess AuthStatus = iota
	AuthWrongPIN
)

// AuthResult is the outcome of an authentication attempt on an unlocked
// account. RemainingAttempts is meaningful only for AuthWrongPIN; a locked
// account surfaces as common.ErrAccountLocked instead.
type AuthResult struct {
	Status            AuthStatus
	RemainingAttempts int
	Message           string
}

func wrongPINResult(remaining int) AuthResult {
	return AuthResult{
		Status:            AuthWrongPIN,
		RemainingAttempts: remaining,
		Message:           fmt.Sprintf("Wrong PIN. You have %d chances left", remaining),
	}
}
