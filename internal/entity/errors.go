package entity

import "errors"

var (
	ErrLeadNotFound       = errors.New("lead não encontrado")
	ErrFlowNotFound       = errors.New("fluxo não encontrado")
	ErrSettingsNotFound   = errors.New("configurações não encontradas")
	ErrAccountNotFound    = errors.New("conta não encontrada")
	ErrSessionNotFound    = errors.New("sessão não encontrada")
	ErrEmailAlreadyExists = errors.New("email já cadastrado")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
)
