package domain

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identifica o serviço que consome a API. O Subject vem em RegisteredClaims.
type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// HasScope verifica se o token carrega algum dos escopos informados
func (c *Claims) HasScope(scopes ...string) bool {
	if c == nil {
		return false
	}
	for _, granted := range strings.Fields(c.Scope) {
		for _, s := range scopes {
			if granted == s {
				return true
			}
		}
	}
	return false
}
