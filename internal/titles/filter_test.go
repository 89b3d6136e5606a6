package titles

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var shoutedRe = regexp.MustCompile(`^[^\p{Ll}]*\p{Lu}[^\p{Ll}]*$`)

func TestFilterTitleExample(t *testing.T) {
	got := FilterTitle(`CHORWACJA to pyszne odc. 12 "Najlepsze"`)

	assert.Equal(t, "to pyszne Najlepsze (odc. 12)", got)
	assert.NotContains(t, got, `"`)
	assert.Equal(t, 1, strings.Count(got, "(odc. 12)"))
	for _, word := range strings.Fields(got) {
		assert.False(t, shoutedRe.MatchString(word), "shouted word %q survived", word)
	}
}

func TestFilterTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no marker", "Makłowicz w Wiedniu", "Makłowicz w Wiedniu"},
		{"numbers survive", "Top 10 WŁOCHY smaków", "Top 10 smaków"},
		{"compact marker", "Podróż do Splitu odc.7", "Podróż do Splitu (odc. 7)"},
		{"upper-case marker word", "Sarajewo ODC. 3", "Sarajewo 3"},
		{"marker first", "odc. 104 Lizbona i okolice", "Lizbona i okolice (odc. 104)"},
		{"quotes stripped", `"Kuchnia" na Krecie`, "Kuchnia na Krecie"},
		{"dash kept", "Wiedeń - kawiarnie", "Wiedeń - kawiarnie"},
		{"all shouted", "ROBERT MAKŁOWICZ", ""},
		{"empty", "", ""},
		{"several markers keep the first", "Zagrzeb odc. 1 i Split odc. 2", "Zagrzeb i Split (odc. 1)"},
		{"marker glued to shouted word", "Kuchnia BOŚNIodc. 5 smaki", "Kuchnia smaki (odc. 5)"},
		{"marker only", "odc. 9", "(odc. 9)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterTitle(tt.in))
		})
	}
}

func TestFilterTitleIdempotent(t *testing.T) {
	inputs := []string{
		`CHORWACJA to pyszne odc. 12 "Najlepsze"`,
		"odc. 104 Lizbona i okolice",
		"Podróż do Splitu odc.7",
		"Wiedeń - kawiarnie",
		"WĘGRY Budapeszt (odc. 5) nocą",
		"Zagrzeb odc. 1 i Split odc. 2",
		"Kuchnia BOŚNIodc. 5 smaki",
	}
	for _, in := range inputs {
		once := FilterTitle(in)
		assert.Equal(t, once, FilterTitle(once), "input %q", in)
	}
}

func TestFilterTitleSingleMarker(t *testing.T) {
	for _, in := range []string{"Zagrzeb odc. 1 i Split odc. 2", "odc. 3 Bar (odc. 4) odc.5"} {
		got := FilterTitle(in)
		assert.Equal(t, 1, strings.Count(got, "(odc."), "input %q gave %q", in, got)
		assert.True(t, strings.HasSuffix(got, ")"), "input %q gave %q", in, got)
	}
}
