// Package application resolve o veredito de jurisdição a partir das tabelas do domain.
//
// Resolver é puro e total: qualquer entrada (vazia, desconhecida, malformada)
// produz um veredito, caindo nos padrões permissivos.
package application
