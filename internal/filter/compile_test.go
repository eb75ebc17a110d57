package filter

import "testing"

func TestCompileGroupsByCategoryInFixedOrder(t *testing.T) {
	doc, err := Normalize(Document{
		Should: []RawClause{
			{Tag: "Ethereal Tag"},
			{Voucher: "Overstock"},
			{Joker: "Stone Joker"},
		},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	p := Compile(doc)
	if len(p.Should) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(p.Should))
	}
	// Voucher sorts before Joker, which sorts before Tag, per categoryOrder.
	if p.Should[0].Category != CategoryVoucher || p.Should[1].Category != CategoryJoker || p.Should[2].Category != CategoryTag {
		t.Fatalf("groups not in categoryOrder: %v, %v, %v", p.Should[0].Category, p.Should[1].Category, p.Should[2].Category)
	}
}

func TestCompileFusesErraticPair(t *testing.T) {
	doc, err := Normalize(Document{
		Should: []RawClause{
			{Rank: "Ace"},
			{Suit: "Hearts"},
		},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	p := Compile(doc)
	if len(p.Should) != 1 || p.Should[0].Category != CategoryErraticRankAndSuit {
		t.Fatalf("expected fused ErraticRankAndSuit group, got %+v", p.Should)
	}
	if len(p.Should[0].Clauses) != 2 {
		t.Fatalf("expected both original clauses preserved in fused group, got %d", len(p.Should[0].Clauses))
	}
}

func TestCompileLeavesUnpairedErraticAlone(t *testing.T) {
	doc, err := Normalize(Document{Should: []RawClause{{Rank: "Ace"}}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	p := Compile(doc)
	if len(p.Should) != 1 || p.Should[0].Category != CategoryErraticRank {
		t.Fatalf("expected unfused ErraticRank group, got %+v", p.Should)
	}
}

func TestCompileColumnsIncludeSeedScoreAndShouldNames(t *testing.T) {
	doc, err := Normalize(Document{Should: []RawClause{{Voucher: "Overstock"}}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	p := Compile(doc)
	if len(p.Columns) != 3 || p.Columns[0] != "seed" || p.Columns[1] != "score" {
		t.Fatalf("unexpected columns: %v", p.Columns)
	}
}

func TestStreamDeclarationsCoverVoucherAntes(t *testing.T) {
	doc, err := Normalize(Document{Should: []RawClause{{Voucher: "Overstock", Antes: []int{1, 2, 3}}}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	p := Compile(doc)
	decls := p.StreamDeclarations()
	if len(decls) != 6 {
		t.Fatalf("expected two declarations (identity + edition) per ante, got %d", len(decls))
	}
}
