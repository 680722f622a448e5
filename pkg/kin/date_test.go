package kin

import "testing"

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"year only", "1042", "1042", false},
		{"year month", "1042-03", "1042-03", false},
		{"full date", "1042-03-17", "1042-03-17", false},
		{"short year padded", "987", "0987", false},
		{"empty is unknown", "", "", false},
		{"whitespace trimmed", " 1042 ", "1042", false},

		{"garbage", "not-a-date", "", true},
		{"bad month width", "1042-3", "", true},
		{"trailing dash", "1042-", "", true},
		{"five digit year", "10420", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && d.String() != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.input, d.String(), tt.want)
			}
		})
	}
}

func TestPartialDateCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal years", "1042", "1042", 0},
		{"earlier year", "1040", "1042", -1},
		{"later year", "1044", "1042", 1},
		{"year vs year-month", "1042", "1042-03", -1},
		{"padded short year", "987", "1042", -1},
		{"unknown sorts last", "", "1042", 1},
		{"known before unknown", "1042", "", -1},
		{"both unknown", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := MustDate(tt.a), MustDate(tt.b)
			if got := a.Compare(b); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPartialDateTextRoundTrip(t *testing.T) {
	d := MustDate("1042-03")
	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var back PartialDate
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back.Compare(d) != 0 {
		t.Errorf("round trip changed date: %q → %q", d, back)
	}
}
