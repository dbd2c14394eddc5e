package slug

import "testing"

// Normalizeが小文字化・記号除去・空白正規化を行うことを検証
func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"小文字化", "MACHADO", "machado"},
		{"記号の除去", "tEst2#!", "test2"},
		{"記号と空白の正規化", "tEst UsErnAmE@!", "test username"},
		{"空白の連続を単一スペースに", "Manuel   Bandeira", "manuel bandeira"},
		{"前後の空白を除去", "  Clarice Lispector  ", "clarice lispector"},
		{"ダイアクリティカルマークの除去", "José Saramago", "jose saramago"},
		{"セディーユの除去", "Conceição Evaristo", "conceicao evaristo"},
		{"記号の連続を単一スペースに", "cafe -- com # leite", "cafe com leite"},
		{"空文字列", "", ""},
		{"記号のみ", "#!@", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Normalizeが冪等であることを検証
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"tEst UsErnAmE@!",
		"José Saramago",
		"Memórias Póstumas de Brás Cubas",
		"test2",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize is not idempotent for %q: first=%q, second=%q", input, once, twice)
		}
	}
}

// 大文字小文字・記号違いの入力が同一の正規形に収束することを検証
func TestNormalize_EquivalentInputs(t *testing.T) {
	if Normalize("tEst2#!") != Normalize("test2") {
		t.Errorf("expected %q and %q to normalize identically", "tEst2#!", "test2")
	}
	if Normalize("Machado de Assis") != Normalize("machado DE assis!") {
		t.Error("expected case/punctuation variants to normalize identically")
	}
}
