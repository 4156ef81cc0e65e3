package money

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestParseSeparatorDisambiguation(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"1.234,56", 123456},
		{"1,234.56", 123456},
		{"1.234", 123400}, // lone dot, >2 trailing digits: grouping
		{"12,5", 1250},    // lone comma: decimal
		{"123.12", 12312}, // lone dot, 2 trailing digits: decimal
		// a repeated separator kind marks every separator as grouping
		{"1.234.567,89", 12345678900},
		{"1,234,567.89", 12345678900},
		{"1.2.3", 12300}, // repeated separator: grouping
		{"12", 1200},
		{"0", 0},
		{"", 0},
		{"R$ 1.500,00", 150000},
		{"abc", 0},
		{"ABC123", 12300},
		{"ABC123.12", 12312},
		{"-250,10", -25010},
		{"- 1.000,00", -100000},
		{"12,345", 1234}, // extra decimals truncated, not rounded
		{"0,999", 99},
	}
	for _, c := range cases {
		if got := Parse(c.in); got.Cents() != c.cents {
			t.Errorf("Parse(%q) = %d cents, want %d", c.in, got.Cents(), c.cents)
		}
	}
}

func TestParseNTruncates(t *testing.T) {
	if got := ParseN("12,57", 0); got != FromUnits(12) {
		t.Errorf("ParseN(12,57, 0) = %v, want 12", got)
	}
	if got := ParseN("12,57", 1); got.Cents() != 1250 {
		t.Errorf("ParseN(12,57, 1) = %d cents, want 1250", got.Cents())
	}
	if got := ParseInt("3,9"); got != FromUnits(3) {
		t.Errorf("ParseInt(3,9) = %v, want 3", got)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		cents int64
		nd    int
		want  string
	}{
		{123456, 2, "1234,56"},
		{-5, 2, "-0,05"},
		{0, 2, "0,00"},
		{150000, 2, "1500,00"},
		{1250, 1, "12,5"},
		{1234, 0, "12"},
		{99, 4, "0,9900"},
		{-100000, 2, "-1000,00"},
	}
	for _, c := range cases {
		if got := FromCents(c.cents).Format(c.nd); got != c.want {
			t.Errorf("Format(%d, %d) = %q, want %q", c.cents, c.nd, got, c.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		m := FromCents(rng.Int63n(2_000_000_00) - 1_000_000_00)
		if got := Parse(m.String()); got != m {
			t.Fatalf("round trip failed: %v -> %q -> %v", m, m.String(), got)
		}
	}
}

func TestNegative(t *testing.T) {
	if Negative(FromCents(500)) != FromCents(-500) {
		t.Error("positive amount should flip sign")
	}
	if Negative(FromCents(-500)) != FromCents(-500) {
		t.Error("negative amount should be kept")
	}
	if Negative(0) != 0 {
		t.Error("zero should stay zero")
	}
}

func TestJSONShape(t *testing.T) {
	b, err := json.Marshal(FromCents(123456))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "1234.56" {
		t.Errorf("MarshalJSON = %s, want 1234.56", b)
	}
	b, _ = json.Marshal(FromCents(-5))
	if string(b) != "-0.05" {
		t.Errorf("MarshalJSON = %s, want -0.05", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("99.90"), &m); err != nil {
		t.Fatal(err)
	}
	if m.Cents() != 9990 {
		t.Errorf("UnmarshalJSON(99.90) = %d cents, want 9990", m.Cents())
	}
	if err := json.Unmarshal([]byte(`"12.34"`), &m); err != nil {
		t.Fatal(err)
	}
	if m.Cents() != 1234 {
		t.Errorf("UnmarshalJSON(\"12.34\") = %d cents, want 1234", m.Cents())
	}
}
