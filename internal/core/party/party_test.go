package party

import "testing"

func TestNormalize_CanonicalForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Party
	}{
		{"Liberal", Liberal},
		{"Liberal Party of Canada", Liberal},
		{"conservative", Conservative},
		{"Conservative Party", Conservative},
		{"NDP", NDP},
		{"New Democratic Party", NDP},
		{"Bloc", Bloc},
		{"Bloc Québécois", Bloc},
		{"Bloc Quebecois", Bloc},
		{"Green", Green},
		{"Green Party of Canada", Green},
		{"Independent", Unknown},
		{"", Unknown},
		{"  LIBERAL  ", Liberal},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSame(t *testing.T) {
	t.Parallel()

	if !Same("NDP", "New Democratic Party") {
		t.Fatal("NDP variants should match")
	}
	if !Same("Bloc Québécois", "bloc") {
		t.Fatal("Bloc variants should match")
	}
	if Same("Liberal", "Conservative") {
		t.Fatal("different parties must not match")
	}
	if Same("Independent", "Independent") {
		t.Fatal("two unknowns must not match")
	}
}

func TestKnown(t *testing.T) {
	t.Parallel()

	if Unknown.Known() {
		t.Fatal("Unknown must not be Known")
	}
	if !Green.Known() {
		t.Fatal("Green should be Known")
	}
	var zero Party
	if zero.Known() {
		t.Fatal("zero value must not be Known")
	}
}
