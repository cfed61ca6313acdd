// Package cryptox holds the key derivation and sealing primitives used by the
// encrypted contact store. Nothing outside internal/store should need it.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/argon2"
)

// KeySize is the length of a derived master key (AES-256).
const KeySize = 32

// ErrDecrypt is returned when a sealed payload cannot be opened, which in
// practice means a wrong key or a corrupted store.
var ErrDecrypt = errors.New("decryption failed")

// MakeVerifier returns a value that can be stored next to the salt to check a
// candidate master key without keeping the key itself.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey stretches password with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// EncryptJSON serializes v to JSON and seals it with AES-GCM under key.
//
// A fresh random nonce is generated for every call and returned alongside the
// ciphertext; both are needed by DecryptJSON.
//
// Example:
//
//	key := cryptox.DeriveMasterKey(password, salt)
//	ciphertext, nonce, err := cryptox.EncryptJSON(db, key)
//	if err != nil {
//	    return err
//	}
func EncryptJSON(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// DecryptJSON opens ciphertext produced by EncryptJSON and unmarshals the
// plaintext into v. Authentication failures are reported as ErrDecrypt.
func DecryptJSON(ciphertext, nonce, key []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return ErrDecrypt
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ErrDecrypt
	}

	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
