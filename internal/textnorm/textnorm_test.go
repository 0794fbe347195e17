package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Olá Mundo ", "ola mundo"},
		{"ÁÀÃÂÄ", "aaaaa"},
		{"éèêë", "eeee"},
		{"íìîï", "iiii"},
		{"óòõôö", "ooooo"},
		{"úùûü", "uuuu"},
		{"Çedilha", "cedilha"},
		{"Ñandu", "nandu"},
		{"ýÿ", "yy"},
		{"BOM DIA", "bom dia"},
		{"1, 2 & 3!", "1, 2 & 3!"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Saudação", "  ÉÇÑ  ", "São João", "Ärger über Öl", "plain"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeDecomposedInput(t *testing.T) {
	// "e" followed by a combining acute accent
	if got := Normalize("Cafe\u0301"); got != "cafe" {
		t.Fatalf("expected cafe, got %q", got)
	}
}

func TestFoldRune(t *testing.T) {
	cases := map[rune]rune{
		'Ã': 'a',
		'ç': 'c',
		'Ñ': 'n',
		'ÿ': 'y',
		'B': 'b',
		' ': ' ',
		'-': '-',
	}
	for in, want := range cases {
		if got := FoldRune(in); got != want {
			t.Fatalf("FoldRune(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestLetter(t *testing.T) {
	if r, ok := Letter(" Á "); !ok || r != 'a' {
		t.Fatalf("expected a, got %q ok=%v", r, ok)
	}
	for _, bad := range []string{"", "ab", "1", " ", "!"} {
		if _, ok := Letter(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
