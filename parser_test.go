package fluent

import "testing"

func mustParse(t *testing.T, source string) *Resource {
	t.Helper()
	res, err := ParseResource(source)
	if err != nil {
		t.Fatalf("ParseResource(%q) returned error: %v", source, err)
	}
	return res
}

func findEntry(res *Resource, id string) (Entry, bool) {
	for _, e := range res.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func TestParseSimpleMessage(t *testing.T) {
	res := mustParse(t, "greeting = Hello, world!\n")
	entry, ok := findEntry(res, "greeting")
	if !ok {
		t.Fatalf("expected entry %q", "greeting")
	}
	if !entry.Value.IsSimple() {
		t.Fatalf("expected a simple pattern, got %#v", entry.Value)
	}
	if entry.Value.Simple != "Hello, world!" {
		t.Fatalf("got %q", entry.Value.Simple)
	}
}

func TestParseMessageWithPlaceable(t *testing.T) {
	res := mustParse(t, "welcome = Welcome, { $name }!\n")
	entry, ok := findEntry(res, "welcome")
	if !ok {
		t.Fatalf("expected entry %q", "welcome")
	}
	if entry.Value.IsSimple() {
		t.Fatalf("expected a complex pattern")
	}
	if len(entry.Value.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d: %#v", len(entry.Value.Elements), entry.Value.Elements)
	}
	ref, ok := entry.Value.Elements[1].(PlaceableElement).Expression.(VariableReference)
	if !ok || ref.Name != "name" {
		t.Fatalf("expected VariableReference(name), got %#v", entry.Value.Elements[1])
	}
}

func TestParseTermAndAttributes(t *testing.T) {
	src := `-brand-name = Firefox
    .gender = neuter

login-button = Log in to { -brand-name }
    .tooltip = Access your { -brand-name } account
`
	res := mustParse(t, src)

	term, ok := findEntry(res, "brand-name")
	if !ok || !term.IsTerm {
		t.Fatalf("expected term %q", "brand-name")
	}
	if len(term.Attributes) != 1 || term.Attributes[0].Name != "gender" {
		t.Fatalf("expected one attribute 'gender', got %#v", term.Attributes)
	}

	msg, ok := findEntry(res, "login-button")
	if !ok {
		t.Fatalf("expected message %q", "login-button")
	}
	if len(msg.Attributes) != 1 || msg.Attributes[0].Name != "tooltip" {
		t.Fatalf("expected one attribute 'tooltip', got %#v", msg.Attributes)
	}
}

func TestParseSelectExpression(t *testing.T) {
	src := `emails = { $count ->
        [one] You have one new email.
       *[other] You have { $count } new emails.
    }
`
	res := mustParse(t, src)
	entry, ok := findEntry(res, "emails")
	if !ok {
		t.Fatalf("expected entry %q", "emails")
	}
	if len(entry.Value.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(entry.Value.Elements))
	}
	sel, ok := entry.Value.Elements[0].(PlaceableElement).Expression.(SelectExpression)
	if !ok {
		t.Fatalf("expected SelectExpression, got %#v", entry.Value.Elements[0])
	}
	if len(sel.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(sel.Variants))
	}
	if sel.DefaultIndex != 1 || !sel.Variants[1].Default {
		t.Fatalf("expected variant 1 to be the default, got defaultIndex=%d", sel.DefaultIndex)
	}
}

func TestParseMultilinePattern(t *testing.T) {
	src := "message = First line\n    Second line\n    Third line\n"
	res := mustParse(t, src)
	entry, _ := findEntry(res, "message")
	if !entry.Value.IsSimple() {
		t.Fatalf("expected a simple (merged) pattern, got %#v", entry.Value)
	}
	want := "First line\nSecond line\nThird line"
	if entry.Value.Simple != want {
		t.Fatalf("got %q, want %q", entry.Value.Simple, want)
	}
}

func TestParseCommonIndentStripped(t *testing.T) {
	src := "message =\n    First line\n        Indented more\n    Third line\n"
	res := mustParse(t, src)
	entry, _ := findEntry(res, "message")
	want := "First line\n    Indented more\nThird line"
	if entry.Value.Simple != want {
		t.Fatalf("got %q, want %q", entry.Value.Simple, want)
	}
}

func TestParseFunctionCallAndNamedArgument(t *testing.T) {
	res := mustParse(t, `price = It costs { NUMBER($amount, minimumFractionDigits: 2) }.`+"\n")
	entry, _ := findEntry(res, "price")
	call, ok := entry.Value.Elements[1].(PlaceableElement).Expression.(FunctionCall)
	if !ok || call.Name != "NUMBER" {
		t.Fatalf("expected FunctionCall(NUMBER), got %#v", entry.Value.Elements[1])
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	named, ok := call.Args[1].(NamedArgument)
	if !ok || named.Name != "minimumFractionDigits" {
		t.Fatalf("expected a named argument minimumFractionDigits, got %#v", call.Args[1])
	}
}

func TestParseStringLiteralEscapes(t *testing.T) {
	res := mustParse(t, `msg = { "quote: \", backslash: \\" }`+"\n")
	entry, _ := findEntry(res, "msg")
	lit, ok := entry.Value.Elements[0].(PlaceableElement).Expression.(StringLiteral)
	if !ok {
		t.Fatalf("expected StringLiteral, got %#v", entry.Value.Elements[0])
	}
	if lit.Value != `quote: ", backslash: \` {
		t.Fatalf("got %q", lit.Value)
	}
}

func TestParseNumberLiteralPrecision(t *testing.T) {
	res := mustParse(t, "pi = { 3.140 }\n")
	entry, _ := findEntry(res, "pi")
	lit, ok := entry.Value.Elements[0].(PlaceableElement).Expression.(NumberLiteral)
	if !ok {
		t.Fatalf("expected NumberLiteral, got %#v", entry.Value.Elements[0])
	}
	if lit.Value != 3.14 || lit.Precision != 3 {
		t.Fatalf("got value=%v precision=%d", lit.Value, lit.Precision)
	}
}

func TestParseRejectsMissingValueAndAttributes(t *testing.T) {
	_, err := ParseResource("orphan =\n")
	if err == nil {
		t.Fatalf("expected a syntax error for an entry with no value and no attributes")
	}
}

func TestParseRejectsMultipleDefaults(t *testing.T) {
	src := `sel = { $n ->
       *[one] A
       *[other] B
    }
`
	_, err := ParseResource(src)
	if err == nil {
		t.Fatalf("expected a syntax error for two default variants")
	}
}

func TestParseSkipsJunkBetweenEntries(t *testing.T) {
	src := "not a valid entry line\ngreeting = Hi\n"
	res := mustParse(t, src)
	if _, ok := findEntry(res, "greeting"); !ok {
		t.Fatalf("expected junk to be skipped and greeting parsed")
	}
}

func TestParseTooManyPlaceablesIsFatal(t *testing.T) {
	var b []byte
	b = append(b, []byte("msg = ")...)
	for i := 0; i < 101; i++ {
		b = append(b, []byte("{ $a }")...)
	}
	b = append(b, '\n')

	_, err := ParseResource(string(b))
	if err == nil {
		t.Fatalf("expected a syntax error for exceeding the placeable limit")
	}
}
