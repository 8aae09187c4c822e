package provider

import "testing"

func TestIsEnglish(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang string
		want bool
	}{
		{lang: "en", want: true},
		{lang: "en-GB", want: true},
		{lang: "EN-us", want: true},
		{lang: "de", want: false},
		{lang: "ru-RU", want: false},
		{lang: "", want: false},
		{lang: "not a tag", want: false},
	}
	for _, tt := range tests {
		if got := IsEnglish(tt.lang); got != tt.want {
			t.Errorf("IsEnglish(%q) = %v, want %v", tt.lang, got, tt.want)
		}
	}
}
