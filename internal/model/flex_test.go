package model

import (
	"encoding/json"
	"testing"
)

func TestFlexIntCoercion(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`" 42 "`, 42},
		{`3.9`, 3},
		{`"3.9"`, 3},
		{`null`, 0},
		{`""`, 0},
		{`"abc"`, 0},
	}
	for _, tc := range cases {
		var f FlexInt
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if f.Int() != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.in, tc.want, f.Int())
		}
	}
}

func TestFlexFloatGarbageIsDistinguishable(t *testing.T) {
	var zero, garbage FlexFloat
	if err := json.Unmarshal([]byte(`0`), &zero); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`"free"`), &garbage); err != nil {
		t.Fatal(err)
	}

	if !zero.Valid() || zero.Float() != 0 {
		t.Fatalf("literal zero must stay a valid 0, got %v", zero.Float())
	}
	if garbage.Valid() {
		t.Fatal("garbage input must not look like a real number")
	}
}

func TestFlexFloatMarshalNeverEmitsNaN(t *testing.T) {
	var garbage FlexFloat
	if err := json.Unmarshal([]byte(`"free"`), &garbage); err != nil {
		t.Fatal(err)
	}

	out, err := json.Marshal(struct {
		Price FlexFloat `json:"price"`
	}{Price: garbage})
	if err != nil {
		t.Fatalf("NaN must round-trip as 0, got error %v", err)
	}
	if string(out) != `{"price":0}` {
		t.Fatalf("expected price 0, got %s", out)
	}
}

func TestFlexStringQuotedNumberRoundTrip(t *testing.T) {
	var f FlexFloat
	if err := json.Unmarshal([]byte(`"129.50"`), &f); err != nil {
		t.Fatal(err)
	}
	if f.Float() != 129.5 {
		t.Fatalf("expected 129.5, got %v", f.Float())
	}

	out, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "129.5" {
		t.Fatalf("expected bare number on the wire, got %s", out)
	}
}
