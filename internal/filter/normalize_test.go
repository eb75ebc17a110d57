package filter

import "testing"

func sampleDoc() Document {
	score := 5
	return Document{
		Name: "test",
		Must: []RawClause{
			{Joker: "Stone Joker", Antes: []int{1, 2}},
		},
		Should: []RawClause{
			{Type: "voucher", Values: []string{"Overstock", "hieroglyph"}, Score: &score},
			{SoulJoker: "Any", Edition: "negative", Antes: []int{3}},
		},
		MustNot: []RawClause{
			{Tag: "Ethereal Tag"},
		},
	}
}

func TestNormalizeBasic(t *testing.T) {
	doc, err := Normalize(sampleDoc())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(doc.Must) != 1 || doc.Must[0].Category != CategoryJoker {
		t.Fatalf("expected one Joker must clause, got %+v", doc.Must)
	}
	if len(doc.Should) != 2 {
		t.Fatalf("expected 2 should clauses, got %d", len(doc.Should))
	}
	voucher := doc.Should[0]
	if len(voucher.Values) != 2 || voucher.Values[0] != "Overstock" {
		t.Fatalf("voucher values not expanded/canonicalized: %+v", voucher.Values)
	}
	if voucher.Values[1] != "Hieroglyph" {
		t.Fatalf("expected case-folded canonical value Hieroglyph, got %q", voucher.Values[1])
	}
	soul := doc.Should[1]
	if soul.Category != CategorySoulJokerEditionOnly {
		t.Fatalf("expected Any+edition soul joker clause to become SoulJokerEditionOnly, got %s", soul.Category)
	}
	if len(doc.MustNot) != 1 || doc.MustNot[0].Category != CategoryTag {
		t.Fatalf("expected one Tag mustNot clause, got %+v", doc.MustNot)
	}
}

func TestNormalizeDefaultsAntesAndScore(t *testing.T) {
	doc, err := Normalize(sampleDoc())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	voucher := doc.Should[0]
	if len(voucher.Antes) != 8 {
		t.Fatalf("expected default antes [1..8], got %v", voucher.Antes)
	}
	if voucher.Score != 5 {
		t.Fatalf("expected explicit score 5, got %d", voucher.Score)
	}
	mustClause := doc.Must[0]
	if mustClause.Score != 0 {
		t.Fatalf("must clause should not carry a score, got %d", mustClause.Score)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	d := sampleDoc()
	a, err := Normalize(d)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	b, err := Normalize(d)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(a.Must) != len(b.Must) || len(a.Should) != len(b.Should) || len(a.MustNot) != len(b.MustNot) {
		t.Fatalf("repeated normalization produced different shapes")
	}
	for i := range a.Should {
		if a.Should[i].Name != b.Should[i].Name {
			t.Fatalf("repeated normalization produced different clause names: %q vs %q", a.Should[i].Name, b.Should[i].Name)
		}
	}
}

func TestNormalizeRejectsUnknownValue(t *testing.T) {
	_, err := Normalize(Document{Must: []RawClause{{Voucher: "NotARealVoucher"}}})
	if err == nil {
		t.Fatal("expected validation error for unknown voucher value")
	}
	var ve *ValidationError
	if !asValidationError(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestNormalizeRejectsScoreOnMust(t *testing.T) {
	score := 3
	_, err := Normalize(Document{Must: []RawClause{{Voucher: "Overstock", Score: &score}}})
	if err == nil {
		t.Fatal("expected validation error for score on must clause")
	}
}

func TestNormalizeRejectsOutOfRangeAnte(t *testing.T) {
	_, err := Normalize(Document{Must: []RawClause{{Voucher: "Overstock", Antes: []int{9}}}})
	if err == nil {
		t.Fatal("expected validation error for out-of-range ante")
	}
}

func TestNormalizeCapsSlotsForAnteOne(t *testing.T) {
	doc, err := Normalize(Document{Must: []RawClause{
		{Joker: "Stone Joker", Antes: []int{1}, ShopSlots: []int{0, 1, 2, 3, 4, 5}},
	}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	slots := doc.Must[0].ShopSlots
	for _, s := range slots {
		if s > 3 {
			t.Fatalf("ante-1 shop slots should cap at 3, got %v", slots)
		}
	}
}

func asValidationError(err error, out **ValidationError) bool {
	ve, ok := err.(*ValidationError)
	if ok {
		*out = ve
	}
	return ok
}
