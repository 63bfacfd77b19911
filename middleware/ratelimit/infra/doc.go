// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - MemoryStore: janela fixa por chave em memória, com varredura probabilística
//   - RedisStore: mesma janela fixa compartilhada entre instâncias (script Lua)
//   - MemoryStatsStore / RedisStatsStore: contadores de decisões
//   - ChanPool: semáforo simples para limite de concorrência
package infra
