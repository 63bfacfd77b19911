package application

import (
	"strings"

	"casino-gateway/middleware/geo/domain"
)

const restrictedReason = "Online gambling content is not available in your region."

// Resolver mapeia (país, região, cidade) para um domain.Verdict.
// O valor zero usa domain.DefaultTables().
type Resolver struct {
	Tables *domain.Tables
}

func NewResolver() Resolver { return Resolver{} }

func (r Resolver) tables() domain.Tables {
	if r.Tables == nil {
		return domain.DefaultTables()
	}
	return *r.Tables
}

// Resolve aplica, em ordem: país totalmente restrito, estado restrito dos EUA
// (idade 21 fixa), e por fim o caso permissivo.
func (r Resolver) Resolve(country, region, city string) domain.Verdict {
	t := r.tables()
	country = normalize(country)
	region = normalize(region)

	v := domain.Verdict{Country: country, Region: region, City: city}

	switch {
	case country != "" && t.IsRestrictedCountry(country):
		v.Restricted = true
		v.RestrictionReason = restrictedReason
		v.MinAge = t.MinAge(country)
		v.Helpline = withoutPhone(t.DefaultHelpline)

	case country == "US" && region != "" && t.IsRestrictedUSState(region):
		v.Restricted = true
		v.RestrictionReason = "Online gambling is not available in " + region + "."
		v.MinAge = 21
		v.Helpline = t.USHelpline

	default:
		v.MinAge = t.MinAge(country)
		v.Helpline = t.HelplineFor(country)
	}
	return v
}

// IsWarningCountry indica jurisdições que permitem jogo mas exigem avisos em destaque.
func (r Resolver) IsWarningCountry(country string) bool {
	return r.tables().IsWarningCountry(normalize(country))
}

// HelplineFor retorna o recurso de ajuda independente do status de restrição.
func (r Resolver) HelplineFor(country string) domain.Helpline {
	return r.tables().HelplineFor(normalize(country))
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func withoutPhone(h domain.Helpline) domain.Helpline {
	h.Phone = ""
	return h
}
