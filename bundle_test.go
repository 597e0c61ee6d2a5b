package fluent

import "testing"

func TestNewBundleNormalizesAndPreservesLocaleOrder(t *testing.T) {
	b := NewBundle([]string{"en_US", "en-US", "fr"})
	got := b.Locales()
	want := []string{"en-US", "fr"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAddResourceDetectsConflict(t *testing.T) {
	b := NewBundle([]string{"en"})

	first, err := ParseResource("greeting = Hi\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if errs := b.AddResource(first, false); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	second, err := ParseResource("greeting = Hello\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	errs := b.AddResource(second, false)
	if !hasKind(errs, KindResourceConflict) {
		t.Fatalf("expected KindResourceConflict, got %v", errs)
	}

	got, resolveErrs := b.FormatMessage("greeting", nil)
	if len(resolveErrs) != 0 {
		t.Fatalf("unexpected errors: %v", resolveErrs)
	}
	if got != "Hi" {
		t.Fatalf("got %q, want the first-registered entry to win", got)
	}
}

func TestAddResourceAllowOverridesReplacesEntry(t *testing.T) {
	b := NewBundle([]string{"en"})

	first, _ := ParseResource("greeting = Hi\n")
	b.AddResource(first, false)

	second, _ := ParseResource("greeting = Hello\n")
	if errs := b.AddResource(second, true); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	got, _ := b.FormatMessage("greeting", nil)
	if got != "Hello" {
		t.Fatalf("got %q, want the override to win", got)
	}
}

func TestFormatMessageUnknownMessage(t *testing.T) {
	b := NewBundle([]string{"en"})
	_, errs := b.FormatMessage("nope", nil)
	if !hasKind(errs, KindUnknownMessage) {
		t.Fatalf("expected KindUnknownMessage, got %v", errs)
	}
}

func TestFormatMessageNoValueReportsNoValue(t *testing.T) {
	b := mustBundle(t, []string{"en"}, "attr-only =\n    .tooltip = Hover text\n")
	_, errs := b.FormatMessage("attr-only", nil)
	if !hasKind(errs, KindNoValue) {
		t.Fatalf("expected KindNoValue, got %v", errs)
	}
}

func TestWithFunctionOverridesBuiltin(t *testing.T) {
	called := false
	b := NewBundle([]string{"en"}, WithFunction("NUMBER", func(*Scope, []Value, map[string]Value) Value {
		called = true
		return StringValue{Value: "overridden"}
	}))
	res, err := ParseResource("msg = { NUMBER($n) }\n")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	b.AddResource(res, false)

	got, errs := b.FormatMessage("msg", map[string]any{"n": 3})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !called {
		t.Fatalf("expected the overriding function to be invoked")
	}
	if got != "overridden" {
		t.Fatalf("got %q", got)
	}
}

func TestWithTransformAppliesToText(t *testing.T) {
	b := mustBundle(t, []string{"en"}, "greeting = Hello\n", WithTransform(func(s string) string {
		out := make([]byte, len(s))
		for i := 0; i < len(s); i++ {
			c := s[i]
			if c >= 'a' && c <= 'z' {
				c -= 32
			}
			out[i] = c
		}
		return string(out)
	}))

	got, errs := b.FormatMessage("greeting", nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got != "HELLO" {
		t.Fatalf("got %q", got)
	}
}

func TestGetTermAndHasMessage(t *testing.T) {
	b := mustBundle(t, []string{"en"}, "-brand = Firefox\ngreeting = Hi\n")

	if !b.HasMessage("greeting") {
		t.Fatalf("expected greeting to be registered")
	}
	if b.HasMessage("brand") {
		t.Fatalf("terms must not be visible through HasMessage")
	}
	if _, ok := b.GetTerm("brand"); !ok {
		t.Fatalf("expected term \"brand\" to be registered")
	}
}

func TestFormatPatternFatalAbortReturnsOnlyFatalError(t *testing.T) {
	var termBody, msgBody string
	for i := 0; i < 10; i++ {
		termBody += "{ $a }"
	}
	for i := 0; i < 11; i++ {
		msgBody += "{ -rep }"
	}
	b := mustBundle(t, []string{"en"}, "-rep = "+termBody+"\nmsg = "+msgBody+"\n")

	got, errs := b.FormatMessage("msg", map[string]any{"a": 1})
	if got != "" {
		t.Fatalf("expected empty result on fatal abort, got %q", got)
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one fatal error, got %v", errs)
	}
}
