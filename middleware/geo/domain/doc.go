// Package domain define o veredito de jurisdição e as tabelas estáticas que o alimentam.
//
// As regras são dados (mapas/conjuntos), não ramificações de código: estender uma
// jurisdição não exige mexer no algoritmo do resolver.
// As tabelas são ilustrativas, não uma garantia legal.
package domain
