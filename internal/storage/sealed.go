package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Argon2id parameters for turning the configured secret into a master key.
const (
	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 1
	keyLen              = chacha20poly1305.KeySize
)

var sealSalt = []byte("school-portal.storage.sealed")

// ErrSealed is returned when a stored value cannot be opened with the current secret.
var ErrSealed = errors.New("sealed value cannot be opened")

// Sealed encrypts every value before handing it to the wrapped Storage.
// Each key gets its own HKDF-derived XChaCha20-Poly1305 key and the key name is bound as AAD,
// so a value copied under another key fails to open.
type Sealed struct {
	inner  Storage
	master []byte
}

// NewSealed wraps inner; secret must not be empty.
func NewSealed(inner Storage, secret []byte) (*Sealed, error) {
	if len(secret) == 0 {
		return nil, errors.New("sealed storage: empty secret")
	}
	return &Sealed{
		inner:  inner,
		master: argon2.IDKey(secret, sealSalt, argonTime, argonMemory, argonThreads, keyLen),
	}, nil
}

func (s *Sealed) Get(ctx context.Context, key string) (string, error) {
	enc, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	pt, err := s.open(key, enc)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	enc, err := s.seal(key, []byte(value))
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, enc)
}

func (s *Sealed) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

func (s *Sealed) keyFor(name string) ([]byte, error) {
	r := hkdf.New(sha256.New, s.master, nil, []byte(name))
	k := make([]byte, keyLen)
	_, err := r.Read(k)
	return k, err
}

func (s *Sealed) seal(name string, plaintext []byte) (string, error) {
	k, err := s.keyFor(name)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(k)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, plaintext, []byte(name))...)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *Sealed) open(name, enc string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(enc)
	if err != nil || len(blob) < chacha20poly1305.NonceSizeX {
		return nil, ErrSealed
	}
	k, err := s.keyFor(name)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(k)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, blob[:chacha20poly1305.NonceSizeX], blob[chacha20poly1305.NonceSizeX:], []byte(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSealed, name)
	}
	return pt, nil
}
