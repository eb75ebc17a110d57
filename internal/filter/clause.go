package filter

import "github.com/seedfinder/balatro/internal/game"

// Category is a clause's canonical item-type tag after normalization
// (spec §3, "Clause invariants": "every clause carries exactly one
// canonical item-type tag"). Category order fixes evaluation order
// within a compiled pipeline (spec §4.3, "Category grouping").
type Category string

const (
	CategoryVoucher              Category = "Voucher"
	CategoryJoker                Category = "Joker"
	CategorySoulJoker            Category = "SoulJoker"
	CategorySoulJokerEditionOnly Category = "SoulJokerEditionOnly"
	CategoryTarotCard            Category = "TarotCard"
	CategoryPlanetCard           Category = "PlanetCard"
	CategorySpectralCard         Category = "SpectralCard"
	CategoryPlayingCard          Category = "PlayingCard"
	CategoryTag                  Category = "Tag"
	CategoryBoss                 Category = "Boss"
	CategoryEvent                Category = "Event"
	CategoryErraticRank          Category = "ErraticRank"
	CategoryErraticSuit          Category = "ErraticSuit"
	CategoryErraticRankAndSuit   Category = "ErraticRankAndSuit"
	CategoryAnd                  Category = "And"
	CategoryOr                   Category = "Or"
)

// categoryOrder fixes the evaluation order spec §4.3 requires, with
// SoulJokerEditionOnly first since it is the cheap early-exit category.
var categoryOrder = []Category{
	CategorySoulJokerEditionOnly,
	CategoryVoucher,
	CategoryJoker,
	CategorySoulJoker,
	CategoryTarotCard,
	CategoryPlanetCard,
	CategorySpectralCard,
	CategoryPlayingCard,
	CategoryTag,
	CategoryBoss,
	CategoryEvent,
	CategoryErraticRankAndSuit,
	CategoryErraticRank,
	CategoryErraticSuit,
	CategoryAnd,
	CategoryOr,
}

// Clause is one normalized clause, ready for compilation into an
// evaluator (spec §3, "Clause invariants").
type Clause struct {
	Category Category
	Role     Role
	Name     string // column name for the result tally (spec §4.3)

	Values  []string // expanded OR-of-singletons identity list
	Edition *game.Edition

	Antes     []int
	ShopSlots []int
	PackSlots []int
	Sources   []string
	Indices   []uint64

	Min         int
	Score       int
	RequireMega bool

	Children []*Clause // populated for And/Or
}
