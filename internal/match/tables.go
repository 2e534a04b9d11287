package match

import "github.com/hpungsan/lagna/internal/zodiac"

// Varna is the spiritual class of a Moon sign.
type Varna int

const (
	Shudra Varna = iota
	Vaishya
	Kshatriya
	Brahmin
)

var varnaNames = [...]string{"Shudra", "Vaishya", "Kshatriya", "Brahmin"}

func (v Varna) String() string { return varnaNames[v] }

// VarnaOf classifies by element: water signs are Brahmin, fire Kshatriya,
// earth Vaishya, air Shudra.
func VarnaOf(s zodiac.Sign) Varna {
	switch s {
	case zodiac.Cancer, zodiac.Scorpio, zodiac.Pisces:
		return Brahmin
	case zodiac.Aries, zodiac.Leo, zodiac.Sagittarius:
		return Kshatriya
	case zodiac.Taurus, zodiac.Virgo, zodiac.Capricorn:
		return Vaishya
	default:
		return Shudra
	}
}

// Vashya is the control category of a Moon sign.
type Vashya int

const (
	Chatushpada Vashya = iota
	Manava
	Jalachara
	Vanachara
	Keeta
)

var vashyaNames = [...]string{"Chatushpada", "Manava", "Jalachara", "Vanachara", "Keeta"}

func (v Vashya) String() string { return vashyaNames[v] }

// VashyaOf classifies a Moon sign. Sagittarius and Capricorn split at 15°.
func VashyaOf(s zodiac.Sign, degree float64) Vashya {
	switch s {
	case zodiac.Aries, zodiac.Taurus:
		return Chatushpada
	case zodiac.Gemini, zodiac.Virgo, zodiac.Libra, zodiac.Aquarius:
		return Manava
	case zodiac.Cancer, zodiac.Pisces:
		return Jalachara
	case zodiac.Leo:
		return Vanachara
	case zodiac.Scorpio:
		return Keeta
	case zodiac.Sagittarius:
		if degree < 15 {
			return Manava
		}
		return Chatushpada
	default: // Capricorn
		if degree < 15 {
			return Chatushpada
		}
		return Jalachara
	}
}

var vashyaScore = [5][5]float64{
	{2, 1, 1, 0.5, 1},
	{1, 2, 0.5, 0, 1},
	{1, 0.5, 2, 1, 1},
	{0.5, 0, 1, 2, 0},
	{1, 1, 1, 0, 2},
}

// Tara is the position of one nakshatra counted from another, mod 9.
type Tara int

var taraNames = [...]string{
	"Param Mitra", "Janma", "Sampat", "Vipat", "Kshema",
	"Pratyari", "Sadhaka", "Vadha", "Mitra",
}

func (t Tara) String() string { return taraNames[t] }

// Good reports whether the tara is auspicious; Vipat, Pratyari and Vadha are not.
func (t Tara) Good() bool { return t != 3 && t != 5 && t != 7 }

// TaraOf counts from nakshatra from to nakshatra to, inclusive.
func TaraOf(from, to zodiac.Nakshatra) Tara {
	count := ((int(to)-int(from))%zodiac.NumNakshatras+zodiac.NumNakshatras)%zodiac.NumNakshatras + 1
	return Tara(count % 9)
}

// Yoni is the animal symbol of a nakshatra.
type Yoni int

const (
	Horse Yoni = iota
	Elephant
	Sheep
	Serpent
	Dog
	Cat
	Rat
	Cow
	Buffalo
	Tiger
	Deer
	Monkey
	Mongoose
	Lion
)

var yoniNames = [...]string{
	"Horse", "Elephant", "Sheep", "Serpent", "Dog", "Cat", "Rat",
	"Cow", "Buffalo", "Tiger", "Deer", "Monkey", "Mongoose", "Lion",
}

func (y Yoni) String() string { return yoniNames[y] }

var nakshatraYoni = [zodiac.NumNakshatras]Yoni{
	Horse, Elephant, Sheep, Serpent, Serpent, Dog, Cat, Sheep, Cat,
	Rat, Rat, Cow, Buffalo, Tiger, Buffalo, Tiger, Deer, Deer,
	Dog, Monkey, Mongoose, Monkey, Lion, Horse, Lion, Cow, Elephant,
}

// YoniOf returns the yoni of n.
func YoniOf(n zodiac.Nakshatra) Yoni { return nakshatraYoni[n] }

var yoniScore = [14][14]float64{
	{4, 2, 2, 3, 2, 2, 2, 1, 0, 1, 3, 3, 2, 1},
	{2, 4, 3, 3, 2, 2, 2, 2, 3, 1, 2, 3, 2, 0},
	{2, 3, 4, 2, 1, 2, 1, 3, 3, 1, 2, 0, 3, 1},
	{3, 3, 2, 4, 2, 1, 1, 1, 1, 2, 2, 2, 0, 2},
	{2, 2, 1, 2, 4, 2, 1, 2, 2, 1, 0, 2, 1, 1},
	{2, 2, 2, 1, 2, 4, 0, 2, 2, 1, 3, 3, 2, 1},
	{2, 2, 1, 1, 1, 0, 4, 2, 2, 2, 2, 2, 1, 2},
	{1, 2, 3, 1, 2, 2, 2, 4, 3, 0, 3, 2, 2, 1},
	{0, 3, 3, 1, 2, 2, 2, 3, 4, 1, 2, 2, 2, 1},
	{1, 1, 1, 2, 1, 1, 2, 0, 1, 4, 1, 1, 2, 1},
	{3, 2, 2, 2, 0, 3, 2, 3, 2, 1, 4, 2, 2, 1},
	{3, 3, 0, 2, 2, 3, 2, 2, 2, 1, 2, 4, 3, 2},
	{2, 2, 3, 0, 1, 2, 1, 2, 2, 2, 2, 3, 4, 2},
	{1, 0, 1, 2, 1, 1, 2, 1, 1, 1, 1, 2, 2, 4},
}

// Relation is one planet's natural disposition toward another.
type Relation int

const (
	Enemy Relation = iota
	Neutral
	Friend
)

var naturalFriends = map[zodiac.Body][]zodiac.Body{
	zodiac.Sun:     {zodiac.Moon, zodiac.Mars, zodiac.Jupiter},
	zodiac.Moon:    {zodiac.Sun, zodiac.Mercury},
	zodiac.Mars:    {zodiac.Sun, zodiac.Moon, zodiac.Jupiter},
	zodiac.Mercury: {zodiac.Sun, zodiac.Venus},
	zodiac.Jupiter: {zodiac.Sun, zodiac.Moon, zodiac.Mars},
	zodiac.Venus:   {zodiac.Mercury, zodiac.Saturn},
	zodiac.Saturn:  {zodiac.Mercury, zodiac.Venus},
}

var naturalEnemies = map[zodiac.Body][]zodiac.Body{
	zodiac.Sun:     {zodiac.Venus, zodiac.Saturn},
	zodiac.Mars:    {zodiac.Mercury},
	zodiac.Mercury: {zodiac.Moon},
	zodiac.Jupiter: {zodiac.Mercury, zodiac.Venus},
	zodiac.Venus:   {zodiac.Sun, zodiac.Moon},
	zodiac.Saturn:  {zodiac.Sun, zodiac.Moon, zodiac.Mars},
}

// RelationOf returns how a regards b.
func RelationOf(a, b zodiac.Body) Relation {
	if a == b || contains(naturalFriends[a], b) {
		return Friend
	}
	if contains(naturalEnemies[a], b) {
		return Enemy
	}
	return Neutral
}

// maitriScore is indexed by the two one-way relations.
var maitriScore = [3][3]float64{
	Enemy:   {Enemy: 0, Neutral: 0.5, Friend: 1},
	Neutral: {Enemy: 0.5, Neutral: 3, Friend: 4},
	Friend:  {Enemy: 1, Neutral: 4, Friend: 5},
}

// Gana is the temperament of a nakshatra.
type Gana int

const (
	Deva Gana = iota
	Manushya
	Rakshasa
)

var ganaNames = [...]string{"Deva", "Manushya", "Rakshasa"}

func (g Gana) String() string { return ganaNames[g] }

// GanaOf returns the gana of n.
func GanaOf(n zodiac.Nakshatra) Gana {
	switch n {
	case zodiac.Ashwini, zodiac.Mrigashira, zodiac.Punarvasu, zodiac.Pushya,
		zodiac.Hasta, zodiac.Swati, zodiac.Anuradha, zodiac.Shravana, zodiac.Revati:
		return Deva
	case zodiac.Bharani, zodiac.Rohini, zodiac.Ardra, zodiac.PurvaPhalguni,
		zodiac.UttaraPhalguni, zodiac.PurvaAshadha, zodiac.UttaraAshadha,
		zodiac.PurvaBhadrapada, zodiac.UttaraBhadrapada:
		return Manushya
	default:
		return Rakshasa
	}
}

// ganaScore is indexed [boy][girl].
var ganaScore = [3][3]float64{
	{6, 6, 1},
	{5, 6, 0},
	{1, 0, 6},
}

// Nadi is the constitution of a nakshatra.
type Nadi int

const (
	Adi Nadi = iota
	Madhya
	Antya
)

var nadiNames = [...]string{"Adi", "Madhya", "Antya"}

func (n Nadi) String() string { return nadiNames[n] }

var nadiCycle = [6]Nadi{Adi, Madhya, Antya, Antya, Madhya, Adi}

// NadiOf returns the nadi of n; the sequence zigzags in groups of three.
func NadiOf(n zodiac.Nakshatra) Nadi { return nadiCycle[int(n)%len(nadiCycle)] }

func contains(bs []zodiac.Body, b zodiac.Body) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}
