package game

// Rarity partitions the joker pool; the rarity roll is the first stage
// of the joker sampler (spec §4.2, "Joker sampler").
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityLegendary Rarity = "Legendary"
)

// Rarities lists every rarity in canonical ordinal order, and is itself
// the weighted pool the rarity roll draws from.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityLegendary}

// RarityWeights mirrors the relative appearance frequency of each
// rarity tier in a shop/pack slot.
var RarityWeights = map[Rarity]float64{
	RarityCommon:    70,
	RarityUncommon:  25,
	RarityRare:      4.5,
	RarityLegendary: 0.5,
}

// Joker is one entry in the joker appearance pool.
type Joker struct {
	Name   string
	Rarity Rarity
}

// Jokers lists every joker in canonical ordinal order, partitioned by
// rarity (spec §3, "jokers (≈150, partitioned into
// Common/Uncommon/Rare/Legendary)"). Soul jokers are exactly the
// Legendary partition (spec §4.2, "Soul joker sampler").
var Jokers = buildJokers()

func buildJokers() []Joker {
	common := []string{
		"Joker", "Greedy Joker", "Lusty Joker", "Wrathful Joker", "Gluttonous Joker",
		"Jolly Joker", "Zany Joker", "Mad Joker", "Crazy Joker", "Droll Joker",
		"Sly Joker", "Wily Joker", "Clever Joker", "Devious Joker", "Crafty Joker",
		"Half Joker", "Credit Card", "Banner", "Mystic Summit", "Loyalty Card",
		"Misprint", "Raised Fist", "Chaos the Clown", "Scary Face",
		"Abstract Joker", "Delayed Gratification", "Hack", "Pareidolia",
		"Gros Michel", "Even Steven", "Odd Todd", "Scary Face", "Supernova",
		"Ride the Bus", "Space Joker", "Egg", "Burglar", "Blackboard",
		"Runner", "Ice Cream", "Splash", "Blue Joker", "Faceless Joker",
		"Green Joker", "Superposition", "To Do List", "Cavendish", "Card Sharp",
		"Red Card", "Hologram", "Baron", "Popcorn", "Walkie Talkie",
	}
	uncommon := []string{
		"Flash Card", "Trading Card", "Swashbuckler", "Reserved Parking",
		"Mail-In Rebate", "Turtle Bean", "Erosion", "Fortune Teller",
		"Stone Joker", "Bloodstone", "Steel Joker", "Golden Joker",
		"Shoot the Moon", "Matador", "Hit the Road", "Duo Joker",
		"Trio Joker", "Family Joker", "Order Joker", "Tribe Joker",
		"Stuntman", "Smiley Face", "Onyx Agate", "Arrowhead",
	}
	rare := []string{
		"Dusk", "Seeing Double", "Flower Pot", "Seance", "Vampire",
		"Shortcut", "Hologram", "Vagabond", "Baseball Card", "Bull",
		"Diet Cola", "Trading Card", "Cartomancer", "Astronomer",
		"Burnt Joker", "Bootstraps", "Blueprint",
	}
	legendary := []string{
		"Canio", "Triboulet", "Yorick", "Chicot", "Perkeo",
	}

	out := make([]Joker, 0, len(common)+len(uncommon)+len(rare)+len(legendary))
	for _, n := range common {
		out = append(out, Joker{Name: n, Rarity: RarityCommon})
	}
	for _, n := range uncommon {
		out = append(out, Joker{Name: n, Rarity: RarityUncommon})
	}
	for _, n := range rare {
		out = append(out, Joker{Name: n, Rarity: RarityRare})
	}
	for _, n := range legendary {
		out = append(out, Joker{Name: n, Rarity: RarityLegendary})
	}
	return out
}

// JokersByRarity groups Jokers by their rarity, preserving ordinal order
// within each group — the appearance pool the second sampling stage
// draws from once a rarity has been chosen.
var JokersByRarity = groupJokersByRarity()

func groupJokersByRarity() map[Rarity][]Joker {
	m := make(map[Rarity][]Joker, len(Rarities))
	for _, j := range Jokers {
		m[j.Rarity] = append(m[j.Rarity], j)
	}
	return m
}

// LegendaryJokers is the soul-joker appearance pool.
var LegendaryJokers = JokersByRarity[RarityLegendary]
