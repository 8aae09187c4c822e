package domain

import "testing"

func TestTranslationResult_IsEmpty(t *testing.T) {
	t.Parallel()

	if !(TranslationResult{}).IsEmpty() {
		t.Fatal("zero result should be empty")
	}
	r := TranslationResult{Phonetic: StringPtr("/kæt/")}
	if r.IsEmpty() {
		t.Fatal("result with phonetic should not be empty")
	}
	if r.HasTranslation() {
		t.Fatal("result without translation should not report one")
	}
}

func TestExample_IsPaired(t *testing.T) {
	t.Parallel()

	if (Example{Source: "Hi."}).IsPaired() {
		t.Fatal("source-only example reported as paired")
	}
	empty := ""
	if (Example{Source: "Hi.", Target: &empty}).IsPaired() {
		t.Fatal("empty target reported as paired")
	}
	if !(Example{Source: "Hi.", Target: StringPtr("Привет.")}).IsPaired() {
		t.Fatal("paired example not detected")
	}
}

func TestStringPtr(t *testing.T) {
	t.Parallel()

	if StringPtr("") != nil {
		t.Fatal("StringPtr(\"\") should be nil")
	}
	if got := Deref(StringPtr("x")); got != "x" {
		t.Fatalf("Deref(StringPtr(x)) = %q", got)
	}
	if Deref(nil) != "" {
		t.Fatal("Deref(nil) should be empty")
	}
}
