package util

import "testing"

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty stays empty", in: "", want: ""},
		{name: "trims surrounding whitespace", in: "  Seattle \t", want: "Seattle"},
		{name: "strips byte order mark", in: "\ufeffCounty", want: "County"},
		{name: "replaces non-breaking spaces", in: "King\u00a0County", want: "King County"},
		{name: "keeps internal spacing", in: "Battery Electric  Vehicle", want: "Battery Electric  Vehicle"},
		{name: "whitespace only becomes empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.in); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "\ufeffVIN (1-10)", want: "VIN (1-10)"},
		{in: "Model  Year", want: "Model Year"},
		{in: " Electric\tRange ", want: "Electric Range"},
	}
	for _, tt := range tests {
		if got := CleanHeader(tt.in); got != tt.want {
			t.Errorf("CleanHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashBytes(t *testing.T) {
	if HashBytes([]byte("make=TESLA")) == HashBytes([]byte("make=tesla")) {
		t.Error("HashBytes must be case sensitive")
	}
	if HashBytes([]byte("a")) == HashBytes([]byte("b")) {
		t.Error("different inputs should hash differently")
	}
	if got := HashBytes(nil); got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("HashBytes(nil) = %s", got)
	}
}
