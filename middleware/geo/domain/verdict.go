package domain

// DefaultMinAge é a idade mínima quando a jurisdição não está na tabela.
const DefaultMinAge = 18

// Helpline é um recurso de jogo responsável. Phone vazio = sem telefone cadastrado.
type Helpline struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Phone string `json:"phone,omitempty"`
}

// Verdict é o status resolvido para (país, região, cidade).
//
// Strings vazias representam ausência. Country e Region vêm em maiúsculas;
// City é repassada sem alteração.
// Invariante: Restricted => RestrictionReason != "".
type Verdict struct {
	Country           string   `json:"country,omitempty"`
	Region            string   `json:"region,omitempty"`
	City              string   `json:"city,omitempty"`
	Restricted        bool     `json:"isRestricted"`
	RestrictionReason string   `json:"restrictionReason,omitempty"`
	MinAge            int      `json:"minAge"`
	Helpline          Helpline `json:"helpline"`
}
