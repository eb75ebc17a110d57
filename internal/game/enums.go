// Package game holds the closed domain enums the simulator samples from.
// Ordinal order within each slice IS part of the PRNG contract (spec §3):
// reordering any of these tables changes every downstream sampled value,
// so they are declared once, as package-level slices, and never mutated.
package game

// Deck names the starting deck, one per run.
type Deck string

const (
	DeckRed        Deck = "Red"
	DeckBlue       Deck = "Blue"
	DeckYellow     Deck = "Yellow"
	DeckGreen      Deck = "Green"
	DeckBlack      Deck = "Black"
	DeckMagic      Deck = "Magic"
	DeckNebula     Deck = "Nebula"
	DeckGhost      Deck = "Ghost"
	DeckAbandoned  Deck = "Abandoned"
	DeckCheckered  Deck = "Checkered"
	DeckZodiac     Deck = "Zodiac"
	DeckPainted    Deck = "Painted"
	DeckAnaglyph   Deck = "Anaglyph"
	DeckPlasma     Deck = "Plasma"
	DeckErratic    Deck = "Erratic"
)

// Decks lists every deck in canonical ordinal order (15 entries).
var Decks = []Deck{
	DeckRed, DeckBlue, DeckYellow, DeckGreen, DeckBlack, DeckMagic, DeckNebula,
	DeckGhost, DeckAbandoned, DeckCheckered, DeckZodiac, DeckPainted,
	DeckAnaglyph, DeckPlasma, DeckErratic,
}

// Stake names a run's difficulty modifier.
type Stake string

const (
	StakeWhite  Stake = "White"
	StakeRed    Stake = "Red"
	StakeGreen  Stake = "Green"
	StakeBlack  Stake = "Black"
	StakeBlue   Stake = "Blue"
	StakePurple Stake = "Purple"
	StakeOrange Stake = "Orange"
	StakeGold   Stake = "Gold"
)

// Stakes lists every stake in canonical ordinal order (8 entries).
var Stakes = []Stake{StakeWhite, StakeRed, StakeGreen, StakeBlack, StakeBlue, StakePurple, StakeOrange, StakeGold}

// Edition is a cosmetic/mechanical modifier rolled independently on top
// of an item's identity.
type Edition string

const (
	EditionNone       Edition = "None"
	EditionFoil       Edition = "Foil"
	EditionHolo       Edition = "Holographic"
	EditionPolychrome Edition = "Polychrome"
	EditionNegative   Edition = "Negative"
)

// Editions lists every edition in canonical ordinal order.
var Editions = []Edition{EditionNone, EditionFoil, EditionHolo, EditionPolychrome, EditionNegative}

// Enhancement is rolled onto playing cards in packs or the starting deck.
type Enhancement string

const (
	EnhancementNone  Enhancement = "None"
	EnhancementBonus Enhancement = "Bonus"
	EnhancementMult  Enhancement = "Mult"
	EnhancementWild  Enhancement = "Wild"
	EnhancementGlass Enhancement = "Glass"
	EnhancementSteel Enhancement = "Steel"
	EnhancementStone Enhancement = "Stone"
	EnhancementGold  Enhancement = "Gold"
	EnhancementLucky Enhancement = "Lucky"
)

// Enhancements lists every enhancement in canonical ordinal order.
var Enhancements = []Enhancement{
	EnhancementNone, EnhancementBonus, EnhancementMult, EnhancementWild,
	EnhancementGlass, EnhancementSteel, EnhancementStone, EnhancementGold, EnhancementLucky,
}

// Seal is rolled onto playing cards, independent of enhancement.
type Seal string

const (
	SealNone   Seal = "None"
	SealGold   Seal = "Gold"
	SealRed    Seal = "Red"
	SealBlue   Seal = "Blue"
	SealPurple Seal = "Purple"
)

// Seals lists every seal in canonical ordinal order.
var Seals = []Seal{SealNone, SealGold, SealRed, SealBlue, SealPurple}

// Rank is a playing card's face value.
type Rank string

const (
	Rank2  Rank = "2"
	Rank3  Rank = "3"
	Rank4  Rank = "4"
	Rank5  Rank = "5"
	Rank6  Rank = "6"
	Rank7  Rank = "7"
	Rank8  Rank = "8"
	Rank9  Rank = "9"
	Rank10 Rank = "10"
	RankJ  Rank = "Jack"
	RankQ  Rank = "Queen"
	RankK  Rank = "King"
	RankA  Rank = "Ace"
)

// Ranks lists all 13 ranks in canonical ordinal order.
var Ranks = []Rank{Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8, Rank9, Rank10, RankJ, RankQ, RankK, RankA}

// Suit is a playing card's suit.
type Suit string

const (
	SuitSpades   Suit = "Spades"
	SuitHearts   Suit = "Hearts"
	SuitClubs    Suit = "Clubs"
	SuitDiamonds Suit = "Diamonds"
)

// Suits lists all 4 suits in canonical ordinal order.
var Suits = []Suit{SuitSpades, SuitHearts, SuitClubs, SuitDiamonds}

// PlayingCard is one of the 52 cards a starting deck or pack draw can
// produce, before enhancement/edition/seal rolls.
type PlayingCard struct {
	Rank Rank
	Suit Suit
}

// StandardDeck52 lists the 52 base playing cards in canonical
// rank-major, suit-minor order — the order the erratic deck generator
// walks (spec §4.2, "Erratic deck generator").
var StandardDeck52 = buildStandardDeck()

func buildStandardDeck() []PlayingCard {
	cards := make([]PlayingCard, 0, len(Ranks)*len(Suits))
	for _, r := range Ranks {
		for _, s := range Suits {
			cards = append(cards, PlayingCard{Rank: r, Suit: s})
		}
	}
	return cards
}
