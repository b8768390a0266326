package text

import (
	"reflect"
	"testing"
	"unicode/utf8"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		brand string
		model string
		want  []string
	}{
		{
			name:  "brand and model merge into ordered tokens",
			brand: "Apple",
			model: "iPhone 12, 128 ГБ, белый",
			want:  []string{"apple", "iphone", "12", "128gb"},
		},
		{
			name:  "stop-words and short tokens dropped",
			brand: "Xiaomi",
			model: "Redmi 9 для дома, новый, цвет серый",
			want:  []string{"xiaomi", "redmi", "дома"},
		},
		{
			name:  "duplicates removed keeping first occurrence",
			brand: "Sony Sony",
			model: "PlayStation 5 sony",
			want:  []string{"sony", "playstation"},
		},
		{
			name:  "empty input yields no tokens",
			brand: "",
			model: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.brand, tt.model)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q, %q) = %v, want %v", tt.brand, tt.model, got, tt.want)
			}
		})
	}
}

func TestTokenizeInvariants(t *testing.T) {
	brand, model := "Apple", "iPhone 12 Pro, 128 ГБ, чёрный, б/у, и с коробкой"

	first := Tokenize(brand, model)
	second := Tokenize(brand, model)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("token order not stable across calls: %v vs %v", first, second)
	}

	seen := make(map[string]bool)
	for _, token := range first {
		if token == "" {
			t.Error("token set contains an empty string")
		}
		if utf8.RuneCountInString(token) <= 1 {
			t.Errorf("token set contains single-character token %q", token)
		}
		if seen[token] {
			t.Errorf("token set contains duplicate %q", token)
		}
		seen[token] = true
	}
}
