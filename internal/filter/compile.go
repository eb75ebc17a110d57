package filter

import "github.com/seedfinder/balatro/internal/game"

// Group is every normalized clause of one role that shares a category,
// in the fixed evaluation order categoryOrder establishes (spec §4.3,
// "Category grouping": "clauses sharing a category are evaluated
// together so their shared stream work is amortized").
type Group struct {
	Category Category
	Clauses  []*Clause
}

// Pipeline is a compiled, ready-to-evaluate filter: its three role
// groups in category order, plus the result column names a search run
// reports per matching seed (spec §4.3, "Output").
type Pipeline struct {
	Deck  game.Deck
	Stake game.Stake

	Must    []Group
	Should  []Group
	MustNot []Group

	Columns []string
}

// Compile groups a normalized document's clauses by category in fixed
// evaluation order and fuses any ErraticRank/ErraticSuit pair present in
// the same role into one ErraticRankAndSuit group, since both walk the
// same 52-card erratic-deck stream and can be checked in one pass
// (spec §4.4, "fused ErraticRankAndSuit evaluation").
func Compile(doc *NormalizedDocument) *Pipeline {
	p := &Pipeline{Deck: doc.Deck, Stake: doc.Stake}
	p.Must = groupByCategory(doc.Must)
	p.Should = groupByCategory(doc.Should)
	p.MustNot = groupByCategory(doc.MustNot)

	p.Columns = append(p.Columns, "seed", "score")
	for _, g := range p.Should {
		for _, c := range g.Clauses {
			p.Columns = append(p.Columns, c.Name)
		}
	}
	return p
}

func groupByCategory(clauses []*Clause) []Group {
	byCategory := make(map[Category][]*Clause, len(categoryOrder))
	for _, c := range clauses {
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}
	fuseErraticPair(byCategory)

	groups := make([]Group, 0, len(byCategory))
	for _, cat := range categoryOrder {
		cs, ok := byCategory[cat]
		if !ok || len(cs) == 0 {
			continue
		}
		groups = append(groups, Group{Category: cat, Clauses: cs})
	}
	return groups
}

// fuseErraticPair merges a role's ErraticRank and ErraticSuit groups
// into a single ErraticRankAndSuit group when both are present, leaving
// either one alone (unfused) if only one appears. The fused evaluator
// still sees every original clause; fusion only changes which
// evaluator walks the shared erratic-deck stream.
func fuseErraticPair(byCategory map[Category][]*Clause) {
	ranks, hasRank := byCategory[CategoryErraticRank]
	suits, hasSuit := byCategory[CategoryErraticSuit]
	if !hasRank || !hasSuit || len(ranks) == 0 || len(suits) == 0 {
		return
	}
	fused := make([]*Clause, 0, len(ranks)+len(suits))
	fused = append(fused, ranks...)
	fused = append(fused, suits...)
	byCategory[CategoryErraticRankAndSuit] = fused
	delete(byCategory, CategoryErraticRank)
	delete(byCategory, CategoryErraticSuit)
}

// StreamDeclarations returns the (tag, ante) pairs every group in the
// pipeline will draw from, so a batch context can warm them all before
// the hot evaluation loop starts (spec §4.1, "Stream caching").
func (p *Pipeline) StreamDeclarations() []StreamDeclaration {
	var decls []StreamDeclaration
	add := func(groups []Group) {
		for _, g := range groups {
			for _, c := range g.Clauses {
				decls = append(decls, declarationsFor(g.Category, c)...)
			}
		}
	}
	add(p.Must)
	add(p.Should)
	add(p.MustNot)
	return decls
}

// StreamDeclaration names one stream tag/ante pair a compiled clause
// will draw from.
type StreamDeclaration struct {
	Tag  string
	Ante int
}

func declarationsFor(cat Category, c *Clause) []StreamDeclaration {
	var decls []StreamDeclaration
	for _, ante := range c.Antes {
		switch cat {
		case CategoryVoucher:
			decls = append(decls, StreamDeclaration{"Voucher", ante}, StreamDeclaration{"Voucher_edition", ante})
		case CategoryJoker:
			for _, slot := range append(append([]int{}, c.ShopSlots...), c.PackSlots...) {
				decls = append(decls,
					StreamDeclaration{joinTag("Joker_rarity", slot), ante},
					StreamDeclaration{joinTag("Joker_appearance", slot), ante},
					StreamDeclaration{joinTag("Joker_edition", slot), ante},
				)
			}
		case CategorySoulJoker, CategorySoulJokerEditionOnly:
			for _, slot := range append(append([]int{}, c.ShopSlots...), c.PackSlots...) {
				decls = append(decls,
					StreamDeclaration{joinTag("Soul_appearance", slot), ante},
					StreamDeclaration{joinTag("Soul_edition", slot), ante},
				)
			}
		case CategoryTarotCard:
			for _, slot := range c.PackSlots {
				decls = append(decls, StreamDeclaration{joinTag("Tarot", slot), ante}, StreamDeclaration{joinTag("Tarot_edition", slot), ante})
			}
		case CategoryPlanetCard:
			for _, slot := range c.PackSlots {
				decls = append(decls, StreamDeclaration{joinTag("Planet", slot), ante}, StreamDeclaration{joinTag("Planet_edition", slot), ante})
			}
		case CategorySpectralCard:
			for _, slot := range c.PackSlots {
				decls = append(decls, StreamDeclaration{joinTag("Spectral", slot), ante}, StreamDeclaration{joinTag("Spectral_edition", slot), ante})
			}
		case CategoryPlayingCard:
			for _, slot := range c.PackSlots {
				decls = append(decls,
					StreamDeclaration{joinTag("Card_rank", slot), ante},
					StreamDeclaration{joinTag("Card_suit", slot), ante},
					StreamDeclaration{joinTag("Card_enhancement", slot), ante},
					StreamDeclaration{joinTag("Card_edition", slot), ante},
					StreamDeclaration{joinTag("Card_seal", slot), ante},
				)
			}
		case CategoryTag:
			decls = append(decls, StreamDeclaration{"Tag_small", ante}, StreamDeclaration{"Tag_big", ante})
		case CategoryBoss:
			decls = append(decls, StreamDeclaration{"Boss", ante})
		case CategoryEvent:
			for _, v := range c.Values {
				decls = append(decls, StreamDeclaration{"Event_" + v, 0})
			}
		case CategoryErraticRank, CategoryErraticSuit, CategoryErraticRankAndSuit:
			decls = append(decls, StreamDeclaration{"Erratic_rank", 0}, StreamDeclaration{"Erratic_suit", 0})
		}
	}
	for _, child := range c.Children {
		decls = append(decls, declarationsFor(child.Category, child)...)
	}
	return decls
}

// joinTag builds the same per-slot tag the sim samplers draw from
// ("<base>_src<slot>").
func joinTag(base string, slot int) string {
	return base + "_src" + itoa(slot)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
