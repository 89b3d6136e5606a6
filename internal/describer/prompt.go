package describer

import (
	"fmt"
	"strings"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

const systemPrompt = `Jesteś redaktorem przewodnika kulinarno-podróżniczego po miejscach odwiedzonych przez Roberta Makłowicza w programie "Robert Makłowicz w podróży".

## Zasady
1. Pisz po polsku, w 2-3 zdaniach, nie więcej niż 400 znaków.
2. Opisz czym jest miejsce i dlaczego warto je odwiedzić.
3. Dla restauracji wspomnij o kuchni lub charakterystycznych potrawach, dla atrakcji o historii lub architekturze.
4. Nie wymyślaj godzin otwarcia, cen ani numerów telefonów.
5. Nie używaj cudzysłowów wokół nazwy miejsca.`

var typeNames = map[model.LocationType]string{
	model.LocationRestaurant: "restauracja / lokal gastronomiczny",
	model.LocationAttraction: "atrakcja turystyczna",
	model.LocationOther:      "inne miejsce",
}

// BuildPrompt renders the user prompt for one location.
func BuildPrompt(req Request) string {
	loc := req.Location

	var b strings.Builder
	b.WriteString("Napisz krótki opis miejsca.\n\n")
	fmt.Fprintf(&b, "Nazwa: %s\n", loc.Name)
	fmt.Fprintf(&b, "Rodzaj: %s\n", typeNames[loc.Type])
	if loc.Address != "" {
		fmt.Fprintf(&b, "Adres: %s\n", loc.Address)
	}
	if loc.Country != "" {
		fmt.Fprintf(&b, "Kraj: %s\n", loc.Country)
	}
	if loc.WebsiteURL != "" {
		fmt.Fprintf(&b, "Strona: %s\n", loc.WebsiteURL)
	}
	if title := req.Video.DisplayTitle(); title != "" {
		fmt.Fprintf(&b, "Odcinek: %s\n", title)
	}
	b.WriteString(`
Odpowiedz WYŁĄCZNIE poprawnym JSON w formacie (bez markdown, bez komentarzy):
{"description": "..."}`)
	return b.String()
}
