// Package ratelimit fornece adapters HTTP (net/http) para rate limit e limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: perfis, janela fixa, contratos (sem dependência de net/http)
//   - application: casos de uso (Check nunca falha, acquire/timeout) sem net/http
//   - infra: contadores em memória/Redis, stats, semáforo
//   - ratelimit (este pacote): extração de chave + middleware + tradução para status/headers
//
// Fluxo por endpoint:
//
//   1) Extrai o IP do cliente dos headers da borda e compõe a chave IP:path
//   2) Chama a camada application para obter a decisão
//   3) PolicyStrict: se negado, responde 429 com X-RateLimit-* e Retry-After
//   4) PolicyLenient: segue sempre; o handler consulta Limited(ctx) e pula o efeito colateral
//
// Os perfis (form, review, tracking, api) são configurados no binário cmd/gateway
// via RATE_<PERFIL>_MAX e RATE_<PERFIL>_WINDOW.
package ratelimit
