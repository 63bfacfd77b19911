// Package server monta o roteador HTTP do site: endpoints de API com rate limit
// por perfil e o tráfego de páginas passando pelo interceptor geo.
//
// Endpoints estritos (contato, newsletter, reviews) respondem 429 ao estourar o
// limite. O tracking de clique é leniente: nunca quebra o redirect do usuário,
// apenas deixa de registrar o clique.
package server
