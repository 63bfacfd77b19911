package domain

// Tables agrupa os dados de jurisdição consultados pelo resolver.
type Tables struct {
	// RestrictedCountries bloqueia totalmente conteúdo de jogo online.
	RestrictedCountries map[string]struct{}
	// RestrictedUSStates são estados dos EUA sem nenhuma forma de jogo.
	RestrictedUSStates map[string]struct{}
	// WarningCountries permitem jogo mas exigem avisos em destaque.
	// Não pode ter interseção com RestrictedCountries.
	WarningCountries map[string]struct{}
	MinAges          map[string]int
	Helplines        map[string]Helpline
	DefaultHelpline  Helpline
	// USHelpline é usado para estados restritos dos EUA.
	USHelpline Helpline
}

func set(codes ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return m
}

var defaultTables = Tables{
	RestrictedCountries: set(
		"AF", "CN", "CU", "IR", "KP", "KW", "QA", "SA", "SY", "AE", "BN", "PK",
	),
	RestrictedUSStates: set("UT", "HI"),
	WarningCountries: set(
		"AU", "BE", "DE", "ES", "FR", "GB", "IT", "NL", "PT", "SE",
	),
	MinAges: map[string]int{
		"US": 21,
		"BE": 21,
		"EE": 21,
		"GR": 21,
		"PT": 18,
		"DE": 18,
		"GB": 18,
		"CA": 19,
		"KR": 19,
		"JP": 20,
		"PH": 21,
		"SG": 21,
		"MO": 21,
	},
	Helplines: map[string]Helpline{
		"US": {Name: "National Council on Problem Gambling", URL: "https://www.ncpgambling.org", Phone: "1-800-522-4700"},
		"GB": {Name: "GamCare", URL: "https://www.gamcare.org.uk", Phone: "0808 8020 133"},
		"CA": {Name: "Responsible Gambling Council", URL: "https://www.responsiblegambling.org"},
		"AU": {Name: "Gambling Help Online", URL: "https://www.gamblinghelponline.org.au", Phone: "1800 858 858"},
		"DE": {Name: "Check dein Spiel", URL: "https://www.check-dein-spiel.de", Phone: "0800 1 372 700"},
		"FR": {Name: "Joueurs Info Service", URL: "https://www.joueurs-info-service.fr", Phone: "09 74 75 13 13"},
		"IE": {Name: "Gamblers Anonymous Ireland", URL: "https://www.gamblersanonymous.ie"},
		"NZ": {Name: "Gambling Helpline", URL: "https://www.gamblinghelpline.co.nz", Phone: "0800 654 655"},
	},
	DefaultHelpline: Helpline{Name: "Gambling Therapy", URL: "https://www.gamblingtherapy.org"},
	USHelpline:      Helpline{Name: "National Council on Problem Gambling", URL: "https://www.ncpgambling.org", Phone: "1-800-522-4700"},
}

// DefaultTables retorna as tabelas embutidas no binário.
// Os mapas são compartilhados: trate como somente leitura.
func DefaultTables() Tables { return defaultTables }

func (t Tables) IsRestrictedCountry(country string) bool {
	_, ok := t.RestrictedCountries[country]
	return ok
}

func (t Tables) IsRestrictedUSState(region string) bool {
	_, ok := t.RestrictedUSStates[region]
	return ok
}

func (t Tables) IsWarningCountry(country string) bool {
	_, ok := t.WarningCountries[country]
	return ok
}

// MinAge retorna a idade mínima do país ou DefaultMinAge.
func (t Tables) MinAge(country string) int {
	if age, ok := t.MinAges[country]; ok && age > 0 {
		return age
	}
	return DefaultMinAge
}

// HelplineFor retorna o recurso do país ou o padrão global.
func (t Tables) HelplineFor(country string) Helpline {
	if h, ok := t.Helplines[country]; ok {
		return h
	}
	return t.DefaultHelpline
}
