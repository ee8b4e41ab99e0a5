// internal/models/locations.go
package models

import "apartment-estimator/internal/common/text"

// Locations is the closed set of municipalities the estimate form accepts.
var Locations = []string{
	"Bihać",
	"Bosanska Krupa",
	"Bosanski Petrovac",
	"Bužim",
	"Cazin",
	"Ključ",
	"Sanski Most",
	"Velika Kladuša",
	"Domaljevac-Šamac",
	"Odžak",
	"Orašje",
	"Banovići",
	"Čelić",
	"Doboj Istok",
	"Gračanica",
	"Gradačac",
	"Kalesija",
	"Kladanj",
	"Lukavac",
	"Sapna",
	"Srebrenik",
	"Teočak",
	"Tuzla",
	"Živinice",
	"Breza",
	"Doboj Jug",
	"Kakanj",
	"Maglaj",
	"Olovo",
	"Tešanj",
	"Usora",
	"Vareš",
	"Visoko",
	"Zavidovići",
	"Zenica",
	"Žepče",
	"Goražde",
	"Ustikolina",
	"Bugojno",
	"Busovača",
	"Dobretići",
	"Donji Vakuf",
	"Fojnica",
	"Gornji Vakuf-Uskoplje",
	"Jajce",
	"Kiseljak",
	"Kreševo",
	"Novi Travnik",
	"Travnik",
	"Vitez",
	"Čapljina",
	"Čitluk",
	"Jablanica",
	"Konjic",
	"Mostar",
	"Neum",
	"Prozor",
	"Ravno",
	"Stolac",
	"Grude",
	"Ljubuški",
	"Posušje",
	"Široki Brijeg",
	"Hadžići",
	"Ilidža",
	"Ilijaš",
	"Sarajevo - Centar",
	"Sarajevo - Novi Grad",
	"Sarajevo - Novo Sarajevo",
	"Sarajevo - Stari Grad",
	"Trnovo",
	"Vogošća",
	"Bosansko Grahovo",
	"Drvar",
	"Glamoč",
	"Kupres",
	"Livno",
	"Tomislavgrad",
	"Banja Luka",
	"Čelinac",
	"Gradiška",
	"Jezero",
	"Kneževo",
	"Kostajnica",
	"Kotor Varoš",
	"Kozarska Dubica",
	"Krupa na Uni",
	"Laktaši",
	"Mrkonjić Grad",
	"Novi Grad",
	"Oštra Luka",
	"Prijedor",
	"Prnjavor",
	"Ribnik",
	"Šipovo",
	"Srbac",
	"Bijeljina",
	"Brod",
	"Derventa",
	"Doboj",
	"Donji Žabar",
	"Lopare",
	"Modriča",
	"Pelagićevo",
	"Petrovo",
	"Šamac",
	"Stanari",
	"Teslić",
	"Ugljevik",
	"Vukosavlje",
	"Bratunac",
	"Han Pijesak",
	"Istočna Ilidža",
	"Istočni Stari Grad",
	"Istočno Sarajevo",
	"Milići",
	"Novo Goražde",
	"Osmaci",
	"Pale",
	"Rogatica",
	"Rudo",
	"Šekovići",
	"Sokolac",
	"Srebrenica",
	"Višegrad",
	"Vlasenica",
	"Zvornik",
	"Berkovići",
	"Bileća",
	"Čajniče",
	"Foča",
	"Gacko",
	"Istočni Mostar",
	"Kalinovik",
	"Ljubinje",
	"Nevesinje",
	"Trebinje",
	"Brčko",
}

var locationIndex = func() map[string]string {
	idx := make(map[string]string, len(Locations))
	for _, l := range Locations {
		idx[text.Fold(l)] = l
	}
	return idx
}()

// CanonicalLocation returns the form spelling of a municipality name.
func CanonicalLocation(s string) (string, bool) {
	l, ok := locationIndex[text.Fold(s)]
	return l, ok
}
