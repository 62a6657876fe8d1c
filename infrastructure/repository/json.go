// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import jsoniter "github.com/json-iterator/go"

// colunas jsonb são codificadas com jsoniter
var json = jsoniter.ConfigCompatibleWithStandardLibrary
