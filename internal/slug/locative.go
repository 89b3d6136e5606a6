package slug

// locatives maps country names to their Polish locative ("w Polsce").
var locatives = map[string]string{
	"Albania":    "Albanii",
	"Austria":    "Austrii",
	"Czechy":     "Czechach",
	"Czarnogóra": "Czarnogórze",
	"Francja":    "Francji",
	"Grecja":     "Grecji",
	"Irlandia":   "Irlandii",
	"Jordan":     "Jordanii",
	"Kolumbia":   "Kolumbii",
	"Litwa":      "Litwie",
	"Luksemburg": "Luksemburgu",
	"Meksyk":     "Meksyku",
	"Niemcy":     "Niemczech",
	"Polska":     "Polsce",
	"Portugalia": "Portugali",
	"Słowacja":   "Słowacji",
	"Słowenia":   "Słowenii",
	"Szwecja":    "Szwecji",
	"Tajlandia":  "Tajlandii",
	"Tunezja":    "Tunezji",
	"Węgry":      "Węgrzech",
	"Włochy":     "Włoszech",
}

// Locative returns the Polish locative form of a country name, or the name
// itself when none is known.
func Locative(country string) string {
	if loc, ok := locatives[country]; ok {
		return loc
	}
	return country
}
