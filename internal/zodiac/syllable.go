package zodiac

// syllables holds the traditional starting sound for a name, per nakshatra pada.
var syllables = [NumNakshatras][4]string{
	Ashwini:          {"Chu", "Che", "Cho", "La"},
	Bharani:          {"Lee", "Lu", "Le", "Lo"},
	Krittika:         {"A", "Ee", "U", "E"},
	Rohini:           {"O", "Va", "Vi", "Vu"},
	Mrigashira:       {"Ve", "Vo", "Ka", "Ke"},
	Ardra:            {"Ku", "Gha", "Ng", "Chha"},
	Punarvasu:        {"Ke", "Ko", "Ha", "Hi"},
	Pushya:           {"Hu", "He", "Ho", "Da"},
	Ashlesha:         {"Dee", "Du", "De", "Do"},
	Magha:            {"Ma", "Mi", "Mu", "Me"},
	PurvaPhalguni:    {"Mo", "Ta", "Ti", "Tu"},
	UttaraPhalguni:   {"Te", "To", "Pa", "Pi"},
	Hasta:            {"Pu", "Sha", "Na", "Tha"},
	Chitra:           {"Pe", "Po", "Ra", "Ri"},
	Swati:            {"Ru", "Re", "Ro", "Ta"},
	Vishakha:         {"Ti", "Tu", "Te", "To"},
	Anuradha:         {"Na", "Ni", "Nu", "Ne"},
	Jyeshtha:         {"No", "Ya", "Yi", "Yu"},
	Mula:             {"Ye", "Yo", "Ba", "Bi"},
	PurvaAshadha:     {"Bu", "Dha", "Bha", "Dha"},
	UttaraAshadha:    {"Be", "Bo", "Ja", "Ji"},
	Shravana:         {"Ju", "Je", "Jo", "Gha"},
	Dhanishta:        {"Ga", "Gi", "Gu", "Ge"},
	Shatabhisha:      {"Go", "Sa", "Si", "Su"},
	PurvaBhadrapada:  {"Se", "So", "Da", "Di"},
	UttaraBhadrapada: {"Du", "Tha", "Jha", "Na"},
	Revati:           {"De", "Do", "Cha", "Chi"},
}

// Namakshar returns the birth syllable for a nakshatra and pada (1..4).
// Returns "" when either is out of range.
func Namakshar(n Nakshatra, pada int) string {
	if !n.Valid() || pada < 1 || pada > 4 {
		return ""
	}
	return syllables[n][pada-1]
}
