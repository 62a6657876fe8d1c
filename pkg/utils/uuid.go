package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// GenerateJobID gera identificadores de job com o alfabeto padrão do nanoid
func GenerateJobID() (string, error) {
	return gonanoid.New()
}
