package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keyLength = 32

// Rótulos usados na derivação; cada uso do segredo recebe uma chave própria
const (
	sessionKeyInfo = "chat-mobile session signing key"
	stateKeyInfo   = "chat-mobile oauth state signing key"
)

// deriveKey deriva uma chave HMAC a partir do segredo da aplicação
func deriveKey(secret, info string) ([]byte, error) {
	key := make([]byte, keyLength)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("erro ao derivar chave: %w", err)
	}
	return key, nil
}

// randomSecret gera um segredo efêmero para quando AUTH0_SECRET não está configurado
func randomSecret() (string, error) {
	b := make([]byte, keyLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("erro ao gerar segredo: %w", err)
	}
	return fmt.Sprintf("%x", b), nil
}
