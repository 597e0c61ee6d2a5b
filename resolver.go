package fluent

import (
	"fmt"
	"strings"
)

const (
	bidiIsolationStart = "⁨" // FSI
	bidiIsolationEnd   = "⁩" // PDI
)

// ResolvePattern renders pattern to a string within scope. A simple
// Pattern is just its text (run through the Bundle's transform, if any);
// a complex one is resolved element by element with cycle detection and
// bidi isolation applied per placeable.
func ResolvePattern(scope *Scope, pattern *Pattern) string {
	if pattern == nil {
		return ""
	}
	if pattern.IsSimple() {
		return scope.transformText(pattern.Simple)
	}
	return ResolveComplexPattern(scope, pattern)
}

// ResolveComplexPattern walks a Pattern's elements, substituting each
// PlaceableElement's resolved Value and wrapping it in bidi isolation
// marks when the Bundle has UseIsolating enabled and the Pattern has more
// than one element.
func ResolveComplexPattern(scope *Scope, pattern *Pattern) string {
	if !scope.Enter(pattern) {
		return "{???}"
	}
	defer scope.Exit(pattern)

	isolate := scope.UseIsolating && pattern.Len() > 1

	var sb strings.Builder
	for _, el := range pattern.Elements {
		switch e := el.(type) {
		case TextElement:
			sb.WriteString(scope.transformText(e.Value))
		case PlaceableElement:
			scope.countPlaceable()
			val := ResolveExpression(scope, e.Expression)
			str := val.ToString(scope)
			if isolate {
				sb.WriteString(bidiIsolationStart)
				sb.WriteString(str)
				sb.WriteString(bidiIsolationEnd)
			} else {
				sb.WriteString(str)
			}
		}
	}
	return sb.String()
}

func (s *Scope) transformText(text string) string {
	if s.bundle.transform == nil {
		return text
	}
	return s.bundle.transform(text)
}

// ResolveExpression evaluates expr to a runtime Value, reporting any
// resolution error to scope's error sink and substituting a NoneValue in
// its place.
func ResolveExpression(scope *Scope, expr Expression) Value {
	switch e := expr.(type) {
	case StringLiteral:
		return StringValue{Value: e.Value}

	case NumberLiteral:
		return NumberValue{
			Value: e.Value,
			Options: NumberOptions{
				MinimumFractionDigits: e.Precision,
				MaximumFractionDigits: e.Precision,
				HasMinFractionDigits:  true,
				HasMaxFractionDigits:  true,
			},
		}

	case VariableReference:
		return resolveVariableReference(scope, e)

	case MessageReference:
		return resolveMessageReference(scope, e)

	case TermReference:
		return resolveTermReference(scope, e)

	case FunctionCall:
		return resolveFunctionCall(scope, e)

	case SelectExpression:
		return resolveSelectExpression(scope, e)

	default:
		return newNone("")
	}
}

func resolveVariableReference(scope *Scope, ref VariableReference) Value {
	if scope.InsideTermReference() {
		if v, ok := scope.termArg(ref.Name); ok {
			return v
		}
		// Missing variables inside a term's own frame are not errors: the
		// caller's variables are intentionally not visible there.
		return newNone(ref.Name)
	}

	raw, found := scope.callerArg(ref.Name)
	if !found {
		scope.ReportError(newResolverError(KindUnknownVariable, "unknown variable $"+ref.Name))
		return newNone(ref.Name)
	}
	v, ok := valueFromArg(raw)
	if !ok {
		scope.ReportError(newResolverError(KindUnsupportedVariableType,
			fmt.Sprintf("unsupported type %T for variable $%s", raw, ref.Name)))
		return newNone(ref.Name)
	}
	return v
}

func resolveMessageReference(scope *Scope, ref MessageReference) Value {
	entry, ok := scope.bundle.GetMessage(ref.Name)
	if !ok {
		scope.ReportError(newResolverError(KindUnknownMessage, "unknown message \""+ref.Name+"\""))
		return newNone(referencePlaceholder(ref.Name, ref.Attr))
	}

	if ref.Attr != "" {
		for _, attr := range entry.Attributes {
			if attr.Name == ref.Attr {
				return StringValue{Value: ResolvePattern(scope, attr.Value)}
			}
		}
		scope.ReportError(newResolverError(KindUnknownAttribute,
			"message \""+ref.Name+"\" has no attribute \""+ref.Attr+"\""))
		return newNone(referencePlaceholder(ref.Name, ref.Attr))
	}

	if entry.Value == nil {
		scope.ReportError(newResolverError(KindNoValue, "message \""+ref.Name+"\" has no value"))
		return newNone(referencePlaceholder(ref.Name, ""))
	}
	return StringValue{Value: ResolvePattern(scope, entry.Value)}
}

func resolveTermReference(scope *Scope, ref TermReference) Value {
	entry, ok := scope.bundle.GetTerm(ref.Name)
	if !ok {
		scope.ReportError(newResolverError(KindUnknownTerm, "unknown term \"-"+ref.Name+"\""))
		return newNone(referencePlaceholder("-"+ref.Name, ref.Attr))
	}

	params := make(map[string]Value, len(ref.Args))
	for _, arg := range ref.Args {
		if named, ok := arg.(NamedArgument); ok {
			params[named.Name] = ResolveExpression(scope, named.Value)
		}
		// Positional arguments are accepted by the parser but ignored here:
		// terms only ever see their named argument frame.
	}
	termScope := scope.CloneForTermReference(params)

	if ref.Attr != "" {
		for _, attr := range entry.Attributes {
			if attr.Name == ref.Attr {
				return StringValue{Value: ResolvePattern(termScope, attr.Value)}
			}
		}
		scope.ReportError(newResolverError(KindUnknownAttribute,
			"term \"-"+ref.Name+"\" has no attribute \""+ref.Attr+"\""))
		return newNone(referencePlaceholder("-"+ref.Name, ref.Attr))
	}

	if entry.Value == nil {
		scope.ReportError(newResolverError(KindNoValue, "term \"-"+ref.Name+"\" has no value"))
		return newNone(referencePlaceholder("-"+ref.Name, ""))
	}
	return StringValue{Value: ResolvePattern(termScope, entry.Value)}
}

func resolveFunctionCall(scope *Scope, call FunctionCall) Value {
	fn, ok := scope.bundle.GetFunction(call.Name)
	if !ok {
		scope.ReportError(newResolverError(KindUnknownFunction, "unknown function "+call.Name+"()"))
		return newNone(call.Name + "()")
	}

	var positional []Value
	named := make(map[string]Value)
	for _, arg := range call.Args {
		switch a := arg.(type) {
		case PositionalArgument:
			positional = append(positional, ResolveExpression(scope, a.Value))
		case NamedArgument:
			named[a.Name] = ResolveExpression(scope, a.Value)
		}
	}

	return callFunctionSafely(scope, call.Name, fn, positional, named)
}

func callFunctionSafely(scope *Scope, name string, fn Function, positional []Value, named map[string]Value) (result Value) {
	if fn == nil {
		scope.ReportError(newResolverError(KindFunctionNotCallable, name+" is not callable"))
		return newNone(name + "()")
	}

	defer func() {
		if r := recover(); r != nil {
			scope.ReportError(wrapResolverError(KindFunctionThrew, name+"() panicked", asError(r)))
			result = newNone(name + "()")
		}
	}()

	v := fn(scope, positional, named)
	if v == nil {
		return newNone(name + "()")
	}
	return v
}

func asError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

func resolveSelectExpression(scope *Scope, sel SelectExpression) Value {
	if sel.DefaultIndex < 0 || sel.DefaultIndex >= len(sel.Variants) {
		scope.ReportError(newResolverError(KindNoDefault, "select expression has no default variant"))
		return newNone("select")
	}

	selector := ResolveExpression(scope, sel.Selector)
	idx := sel.DefaultIndex
	if _, isNone := selector.(NoneValue); !isNone {
		locale := ""
		if locales := scope.bundle.Locales(); len(locales) > 0 {
			locale = locales[0]
		}
		for i, variant := range sel.Variants {
			if matchVariantKey(scope, locale, variant.Key, selector) {
				idx = i
				break
			}
		}
	}

	return StringValue{Value: ResolvePattern(scope, sel.Variants[idx].Value)}
}

// matchVariantKey orders variant matching: numeric equality for a
// NumberLiteral key; string equality or CLDR plural category match for a
// StringLiteral key, depending on the selector's runtime type.
func matchVariantKey(scope *Scope, locale string, key Expression, selector Value) bool {
	switch k := key.(type) {
	case NumberLiteral:
		nv, ok := selector.(NumberValue)
		return ok && nv.Value == k.Value
	case StringLiteral:
		switch sv := selector.(type) {
		case StringValue:
			return sv.Value == k.Value
		case NumberValue:
			category := scope.bundle.pluralRules.Select(locale, sv.Value, numberValuePrecision(sv))
			return string(category) == k.Value
		default:
			return false
		}
	default:
		return false
	}
}

func numberValuePrecision(v NumberValue) int {
	if v.Options.HasMinFractionDigits {
		return v.Options.MinimumFractionDigits
	}
	return 0
}

func referencePlaceholder(name, attr string) string {
	if attr == "" {
		return name
	}
	return name + "." + attr
}
