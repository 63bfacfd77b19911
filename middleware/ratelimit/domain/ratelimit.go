package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid rate limit config")

// Key identifica um contador: IP do cliente + path do endpoint.
type Key string

// Config é a janela fixa aplicada a uma classe de endpoint.
type Config struct {
	Window      time.Duration
	MaxRequests int
}

func (c Config) Validate() error {
	if c.Window <= 0 || c.MaxRequests <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Profile nomeia uma classe de endpoint com limites próprios.
type Profile string

const (
	ProfileForm     Profile = "form"
	ProfileReview   Profile = "review"
	ProfileTracking Profile = "tracking"
	ProfileAPI      Profile = "api"
)

// Profiles mapeia cada perfil para sua Config.
type Profiles map[Profile]Config

// DefaultProfiles retorna os quatro perfis padrão.
func DefaultProfiles() Profiles {
	return Profiles{
		ProfileForm:     {Window: time.Minute, MaxRequests: 5},
		ProfileReview:   {Window: time.Minute, MaxRequests: 3},
		ProfileTracking: {Window: time.Minute, MaxRequests: 30},
		ProfileAPI:      {Window: time.Minute, MaxRequests: 60},
	}
}

// Get retorna a config do perfil. Perfis desconhecidos caem no perfil api.
func (p Profiles) Get(name Profile) Config {
	if c, ok := p[Profile(strings.ToLower(string(name)))]; ok {
		return c
	}
	if c, ok := p[ProfileAPI]; ok {
		return c
	}
	return DefaultProfiles()[ProfileAPI]
}

// Entry é o estado de uma janela: criada na primeira requisição,
// incrementada dentro de [now, ResetTime) e recriada quando now >= ResetTime.
type Entry struct {
	Count     int
	ResetTime time.Time
}

// Expired indica se a janela já acabou em now.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ResetTime)
}

// Decision é o veredito de uma checagem.
type Decision struct {
	Success   bool
	Remaining int
	// ResetIn é o tempo até o fim da janela atual.
	ResetIn time.Duration
	Limit   int
}

// ResetInSeconds arredonda ResetIn para cima, em segundos.
func (d Decision) ResetInSeconds() int {
	if d.ResetIn <= 0 {
		return 0
	}
	return int((d.ResetIn + time.Second - 1) / time.Second)
}

// Counter decide e contabiliza uma requisição para a chave.
//
// A implementação pode ser em memória (uma instância) ou compartilhada
// (ex: Redis) desde que mantenha a semântica de janela fixa.
type Counter interface {
	Take(ctx context.Context, key Key, cfg Config) (Decision, error)
}
