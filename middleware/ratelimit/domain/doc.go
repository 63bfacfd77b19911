// Package domain define contratos e tipos de domínio para rate limit e concorrência.
//
// Este pacote não depende de net/http nem de implementações concretas.
// Os quatro perfis (form, review, tracking, api) e a janela fixa vivem aqui;
// a contagem em si fica na infra.
package domain
