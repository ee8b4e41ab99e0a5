package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"open bucket", "2010+", 2010, true},
		{"newest bucket", "2025+", 2025, true},
		{"range truncates mean", "2000 do 2009", 2004, true},
		{"range upper case", "1990 DO 1999", 1994, true},
		{"english range", "1980 to 1989", 1984, true},
		{"older than", "Prije 1950", OlderThanYear, true},
		{"plain year", "Izgrađeno 1978. godine", 1978, true},
		{"garbage", "garbage", 0, false},
		{"empty", "", 0, false},
		{"whitespace", "   ", 0, false},
		{"broken range", "2000 do", 0, false},
		{"range with text", "od 1970 do danas", 0, false},
		{"short digits", "78", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseYear(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseYearTotal(t *testing.T) {
	inputs := []string{"do", "to", "prije", "\x00\xff", "9999999999999999999999 do 1", "----", "(((", "ćčžšđ"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { ParseYear(in) }, in)
	}
}

func TestCleanRooms(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"parenthesized", "Trosoban (3)", 3.0, true},
		{"parenthesized decimal", "Jednoiposoban (1.5)", 1.5, true},
		{"parenthesized wins over word", "Dvosoban (2.5)", 2.5, true},
		{"bare number", "3.0", 3.0, true},
		{"studio", "Garsonjera", 1.0, true},
		{"one room", "Jednosoban", 1.0, true},
		{"one and half", "Jednoiposoban", 1.5, true},
		{"two", "Dvosoban stan", 2.0, true},
		{"two and half", "dvoiposoban", 2.5, true},
		{"three", "TROSOBAN", 3.0, true},
		{"three and half", "Troiposoban", 3.5, true},
		{"four accented", "Četverosoban", 4.0, true},
		{"four unaccented", "cetverosoban", 4.0, true},
		{"five", "Petosoban i više", 5.0, true},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Collector{}
			got, ok := CleanRooms(tt.input, c)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, c.Diagnostics())
		})
	}
}

func TestCleanRoomsUnmatchedEmitsDiagnostic(t *testing.T) {
	c := &Collector{}

	_, ok := CleanRooms("Luksuzni penthouse", c)
	assert.False(t, ok)

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, FieldRooms, diags[0].Field)
	assert.Equal(t, "Luksuzni penthouse", diags[0].Input)
}

func TestCleanFloor(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"ground", "Prizemlje", 0, true},
		{"high ground", "Visoko prizemlje", 0, true},
		{"semi basement", "Suteren", -1, true},
		{"basement", "podrum", -1, true},
		{"attic is unknown", "Potkrovlje", 0, false},
		{"negative", "-2", -2, true},
		{"minus word", "minus 1", -1, true},
		{"ordinal", "5. sprat", 5, true},
		{"float text", "3.0", 3, true},
		{"plain", "12", 12, true},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanFloor(tt.input, Discard)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanFloorFailuresEmitDiagnostics(t *testing.T) {
	for _, in := range []string{"visoki", "1-2", "2.5"} {
		t.Run(in, func(t *testing.T) {
			c := &Collector{}
			_, ok := CleanFloor(in, c)
			assert.False(t, ok)
			diags := c.Diagnostics()
			require.Len(t, diags, 1)
			assert.Equal(t, FieldFloor, diags[0].Field)
		})
	}
}

func TestAtticDoesNotEmitDiagnostic(t *testing.T) {
	c := &Collector{}
	_, ok := CleanFloor("potkrovlje", c)
	assert.False(t, ok)
	assert.Empty(t, c.Diagnostics())
}

func TestParseCount(t *testing.T) {
	c := &Collector{}

	v, ok := ParseCount("2", FieldBathrooms, c)
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	v, ok = ParseCount("1,0", FieldBathrooms, c)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = ParseCount("", FieldBathrooms, c)
	assert.False(t, ok)
	assert.Empty(t, c.Diagnostics())

	_, ok = ParseCount("dva", FieldBathrooms, c)
	assert.False(t, ok)
	assert.Len(t, c.Diagnostics(), 1)
}

func TestTee(t *testing.T) {
	a, b := &Collector{}, &Collector{}
	Tee(a, b, Discard).Report(Diagnostic{Field: FieldFloor, Input: "x"})
	assert.Len(t, a.Diagnostics(), 1)
	assert.Len(t, b.Diagnostics(), 1)
}
