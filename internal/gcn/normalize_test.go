package gcn_test

import (
	"testing"

	"github.com/KhanhD1nh/compare-gcn/internal/gcn"
)

func TestNormalizePrefixTruncation(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"four letter prefix keeps last two", "SOAH1234567", "AH 1234567"},
		{"three letter prefix keeps last one", "SCV0099887", "V 0099887"},
		{"two letter prefix unchanged", "AA01555158", "AA 01555158"},
		{"one letter prefix unchanged", "D0042250", "D 0042250"},
		{"already spaced", "AA 01555158", "AA 01555158"},
		{"lowercase and punctuation stripped", "bl-687.415", "BL 687415"},
		{"prefix noise from series code", "SOCJ 42992", "CJ 42992"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := gcn.Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeDegenerateInputPassesThrough(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"123456", "123456"},
		{"ABCDEF", "ABCDEF"},
		{"12AB34", "12AB34"},
		{"nope!!", "NOPE"},
	}
	for _, tc := range cases {
		if got := gcn.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"SOAH1234567", "SCV0099887", "AA01555158", "D0042250",
		"AA 01555158", "BL 687415", "CH 42992", "garbage", "123",
	}
	for _, in := range inputs {
		once := gcn.Normalize(in)
		if twice := gcn.Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizePreservesLeadingZeros(t *testing.T) {
	a := gcn.Normalize("AA1555158")
	b := gcn.Normalize("AA01555158")
	if a == b {
		t.Fatalf("zero-padded suffix must stay distinct: %q == %q", a, b)
	}
	if b != "AA 01555158" {
		t.Fatalf("leading zero dropped: got %q", b)
	}
}
