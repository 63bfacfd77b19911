// Package geo fornece o interceptor HTTP de conformidade geográfica.
//
// Para toda requisição de página (não-API) o middleware:
//
//   1) Lê país/região/cidade dos headers da borda (confiáveis, não validados aqui)
//   2) Resolve o veredito (geo/application)
//   3) Grava geo_country, geo_region, geo_restricted, geo_min_age e geo_warning em cookies
//      legíveis pelo cliente (sem HttpOnly, SameSite=Lax, 1h)
//   4) Redireciona tráfego restrito que tenta acessar prefixos bloqueados
//      (listagens de cassino online e bônus) para a página informativa
//
// O veredito fica no contexto da requisição (FromContext) para os handlers.
package geo
