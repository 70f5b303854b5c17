package lexicon

import (
	"errors"
	"math"
	"testing"

	"github.com/seenimoa/marketmood/pkg/models"
)

func TestScoreBullish(t *testing.T) {
	a := New()
	breakdown, err := a.Score("Shares surge after earnings beat, analysts upgrade to strong buy")
	if err != nil {
		t.Fatalf("Score returned %v", err)
	}
	if breakdown.Compound <= 0 {
		t.Errorf("bullish text scored %v, want > 0", breakdown.Compound)
	}
	if breakdown.Compound > 1 {
		t.Errorf("compound %v out of range", breakdown.Compound)
	}
}

func TestScoreBearish(t *testing.T) {
	a := New()
	breakdown, err := a.Score("Stock plunges on fraud investigation, analysts warn of bankruptcy")
	if err != nil {
		t.Fatalf("Score returned %v", err)
	}
	if breakdown.Compound >= 0 {
		t.Errorf("bearish text scored %v, want < 0", breakdown.Compound)
	}
	if breakdown.Compound < -1 {
		t.Errorf("compound %v out of range", breakdown.Compound)
	}
}

func TestScoreNoMatches(t *testing.T) {
	a := New()
	breakdown, err := a.Score("The company held its annual shareholder meeting on Tuesday")
	if err != nil {
		t.Fatalf("Score returned %v", err)
	}
	if breakdown != models.NeutralBreakdown() {
		t.Errorf("unmatched text scored %+v, want neutral breakdown", breakdown)
	}
}

func TestScoreEmptyText(t *testing.T) {
	a := New()
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := a.Score(text); !errors.Is(err, ErrEmptyText) {
			t.Errorf("Score(%q) error = %v, want ErrEmptyText", text, err)
		}
	}
}

func TestScoreProportionsSumToOne(t *testing.T) {
	a := New()
	texts := []string{
		"rally and surge on record high",
		"crash, selloff, bankruptcy warning",
		"strong growth but lawsuit concern",
	}
	for _, text := range texts {
		breakdown, err := a.Score(text)
		if err != nil {
			t.Fatalf("Score(%q) returned %v", text, err)
		}
		sum := breakdown.Pos + breakdown.Neu + breakdown.Neg
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("Score(%q) proportions sum to %v, want 1", text, sum)
		}
	}
}

func TestCustomTermsShiftScore(t *testing.T) {
	text := "the company announced a moonshot program"

	base := New().Compound(text)
	if base != 0 {
		t.Fatalf("baseline compound = %v, want 0 (no built-in matches)", base)
	}

	bullish := NewWithTerms(map[string]float64{"Moonshot": 0.8}).Compound(text)
	if bullish <= 0 {
		t.Errorf("custom bullish term compound = %v, want > 0", bullish)
	}

	bearish := NewWithTerms(map[string]float64{"moonshot": -0.8}).Compound(text)
	if bearish >= 0 {
		t.Errorf("custom bearish term compound = %v, want < 0", bearish)
	}
}

func TestCustomTermsCombineWithBuiltins(t *testing.T) {
	// "rally" alone is fully bullish; a heavy custom bearish phrase in the
	// same text must pull the compound down and keep it in range.
	a := NewWithTerms(map[string]float64{"margin squeeze": -0.9})
	breakdown, err := a.Score("rally fades amid margin squeeze")
	if err != nil {
		t.Fatalf("Score returned %v", err)
	}
	if breakdown.Compound >= 0 {
		t.Errorf("compound = %v, want < 0 with dominant bearish custom term", breakdown.Compound)
	}
	if breakdown.Compound < -1 || breakdown.Compound > 1 {
		t.Errorf("compound %v out of range", breakdown.Compound)
	}
}

func TestCompoundConvenience(t *testing.T) {
	a := New()
	if got := a.Compound(""); got != 0 {
		t.Errorf("Compound(\"\") = %v, want 0", got)
	}
	if got := a.Compound("massive rally"); got <= 0 {
		t.Errorf("Compound(rally) = %v, want > 0", got)
	}
}
