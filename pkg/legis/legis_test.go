package legis_test

import (
	"testing"
	"time"

	"github.com/legisws/walegis/pkg/legis"
)

func TestValidBiennium(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"valid odd start", "2023-24", true},
		{"valid current", "2025-26", true},
		{"century boundary", "1999-00", true},
		{"even first year", "2024-25", false},
		{"non-consecutive years", "2023-25", false},
		{"short first year", "202-24", false},
		{"short second year", "2023-2", false},
		{"wrong separator", "2023/24", false},
		{"letters", "abcd-ef", false},
		{"future odd year", "2099-00", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := legis.ValidBiennium(tt.in); got != tt.want {
				t.Errorf("ValidBiennium(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestChamberValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   legis.Chamber
		want bool
	}{
		{"house", legis.House, true},
		{"senate", legis.Senate, true},
		{"lowercase house", "house", false},
		{"lowercase senate", "senate", false},
		{"abbreviation h", "H", false},
		{"abbreviation s", "S", false},
		{"other word", "Assembly", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.in.Valid(); got != tt.want {
				t.Errorf("Chamber(%q).Valid() = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestChamberOther(t *testing.T) {
	t.Parallel()

	if got := legis.House.Other(); got != legis.Senate {
		t.Errorf("House.Other() = %q, want %q", got, legis.Senate)
	}
	if got := legis.Senate.Other(); got != legis.House {
		t.Errorf("Senate.Other() = %q, want %q", got, legis.House)
	}
}

func TestValidBillNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"four digits", "1234", true},
		{"three digits", "123", true},
		{"five digits", "12345", true},
		{"prefixed", "HB1234", false},
		{"too short", "12", false},
		{"too long", "123456", false},
		{"trailing letter", "123a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := legis.ValidBillNumber(tt.in); got != tt.want {
				t.Errorf("ValidBillNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestChamberFromBillID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		want   legis.Chamber
		wantOK bool
	}{
		{"house bill", "HB 1234", legis.House, true},
		{"substitute house bill", "SHB 1234", legis.House, true},
		{"engrossed substitute house bill", "ESHB 1234", legis.House, true},
		{"senate bill", "SB 5678", legis.Senate, true},
		{"substitute senate bill", "SSB 5678", legis.Senate, true},
		{"engrossed substitute senate bill", "ESSB 5678", legis.Senate, true},
		{"bare number", "1234", "", false},
		{"word prefix", "Bill 1234", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := legis.ChamberFromBillID(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ChamberFromBillID(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ChamberFromBillID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBillNumberFromID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"prefixed", "HB 1234", "1234", true},
		{"word prefixed", "Bill 1234", "1234", true},
		{"suffixed id", "1566-S", "1566", true},
		{"prefix only", "HB", "", false},
		{"no digits", "Senate Bill", "", false},
		{"run too short", "HB12", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := legis.BillNumberFromID(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("BillNumberFromID(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("BillNumberFromID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCurrentBiennium(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		year int
		want string
	}{
		{"odd year starts biennium", 2023, "2023-24"},
		{"even year belongs to prior", 2024, "2023-24"},
		{"next decade odd", 2029, "2029-30"},
		{"next decade even", 2030, "2029-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			now := time.Date(tt.year, time.June, 15, 0, 0, 0, 0, time.UTC)
			if got := legis.CurrentBiennium(now); got != tt.want {
				t.Errorf("CurrentBiennium(%d) = %q, want %q", tt.year, got, tt.want)
			}
		})
	}
}

func TestCurrentYear(t *testing.T) {
	t.Parallel()

	now := time.Date(2023, time.January, 9, 0, 0, 0, 0, time.UTC)
	if got := legis.CurrentYear(now); got != "2023" {
		t.Errorf("CurrentYear(2023) = %q, want %q", got, "2023")
	}
}
