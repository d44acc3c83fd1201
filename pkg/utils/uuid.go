package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID gera ids curtos para correlacionar os logs de um fan-out
func GenerateID() string {
	id, err := gonanoid.Generate(characters, 10)
	if err != nil {
		return "fanout"
	}
	return id
}
