package domain

import "errors"

// Taxonomia de erros compartilhada entre integração, persistência e pipeline
var (
	ErrExternalAPI     = errors.New("erro na API externa")
	ErrAsyncJobFailed  = errors.New("job assíncrono de insights falhou")
	ErrAsyncJobTimeout = errors.New("job assíncrono de insights excedeu o número de verificações")
	ErrEntityNotFound  = errors.New("entidade não encontrada")
	ErrValidation      = errors.New("dados inválidos")
	ErrPersistence     = errors.New("erro de persistência")
	ErrRunInProgress   = errors.New("geração de relatório já em andamento")
)
