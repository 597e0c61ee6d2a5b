package fluent

import (
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// registerBuiltinFunctions installs NUMBER and DATETIME, the two built-in
// functions every Bundle carries before any caller-registered extension.
func registerBuiltinFunctions(b *Bundle) {
	b.functions["NUMBER"] = numberBuiltin
	b.functions["DATETIME"] = dateTimeBuiltin
}

// numberBuiltin implements NUMBER($value, opt: ...): it requires a numeric
// first argument and layers the recognized named options (style, currency,
// currencyDisplay, useGrouping, minimumFractionDigits,
// maximumFractionDigits) onto it. Fluent's grammar only allows string and
// number literals as call arguments, so boolean-shaped options like
// useGrouping are spelled as the strings "true"/"false".
func numberBuiltin(_ *Scope, positional []Value, named map[string]Value) Value {
	if len(positional) == 0 {
		return newNone("NUMBER()")
	}
	base, ok := positional[0].(NumberValue)
	if !ok {
		return newNone("NUMBER()")
	}

	opts := base.Options
	if v, ok := stringOption(named, "style"); ok {
		opts.Style = v
	}
	if v, ok := stringOption(named, "currency"); ok {
		opts.Currency = v
	}
	if v, ok := stringOption(named, "currencyDisplay"); ok {
		opts.CurrencyDisplay = v
	}
	if v, ok := stringOption(named, "useGrouping"); ok {
		opts.UseGrouping = v == "true"
	}
	if v, ok := numberOption(named, "minimumFractionDigits"); ok {
		opts.MinimumFractionDigits = int(v)
		opts.HasMinFractionDigits = true
	}
	if v, ok := numberOption(named, "maximumFractionDigits"); ok {
		opts.MaximumFractionDigits = int(v)
		opts.HasMaxFractionDigits = true
	}

	return NumberValue{Value: base.Value, Options: opts}
}

// dateTimeBuiltin implements DATETIME($value, opt: ...): it accepts either a
// DateTime first argument or a Number, treated as a timestamp in
// milliseconds since the Unix epoch (matching JS Date's convention), and
// layers dateStyle, timeStyle, and hour24 onto it.
func dateTimeBuiltin(_ *Scope, positional []Value, named map[string]Value) Value {
	if len(positional) == 0 {
		return newNone("DATETIME()")
	}

	var base DateTimeValue
	switch v := positional[0].(type) {
	case DateTimeValue:
		base = v
	case NumberValue:
		base = DateTimeValue{Value: timeFromEpochMillis(v.Value)}
	default:
		return newNone("DATETIME()")
	}

	opts := base.Options
	if v, ok := stringOption(named, "dateStyle"); ok {
		opts.DateStyle = v
	}
	if v, ok := stringOption(named, "timeStyle"); ok {
		opts.TimeStyle = v
	}
	if v, ok := stringOption(named, "hour24"); ok {
		opts.Hour24 = v == "true"
		opts.HasHour24 = true
	}

	return DateTimeValue{Value: base.Value, Options: opts}
}

// timeFromEpochMillis converts a numeric timestamp (milliseconds since the
// Unix epoch, as JS's Date constructor takes it) into a UTC time.Time.
func timeFromEpochMillis(ms float64) time.Time {
	secs := ms / 1000
	whole := int64(secs)
	frac := secs - float64(whole)
	return time.Unix(whole, int64(frac*1e9)).UTC()
}

func stringOption(named map[string]Value, key string) (string, bool) {
	v, ok := named[key]
	if !ok {
		return "", false
	}
	sv, ok := v.(StringValue)
	if !ok {
		return "", false
	}
	return sv.Value, true
}

func numberOption(named map[string]Value, key string) (float64, bool) {
	v, ok := named[key]
	if !ok {
		return 0, false
	}
	nv, ok := v.(NumberValue)
	if !ok {
		return 0, false
	}
	return nv.Value, true
}

// firstLocale returns the Bundle's most specific configured locale, or
// "en" when none was configured.
func firstLocale(b *Bundle) string {
	if locales := b.Locales(); len(locales) > 0 {
		return locales[0]
	}
	return "en"
}

// printerFor returns the Bundle's memoized message.Printer for locale,
// constructing one on first use. Building a Printer parses and retains a
// language.Tag, so Bundles that format repeatedly should not pay for it
// on every call.
func printerFor(b *Bundle, locale string) *message.Printer {
	obj := b.memoize("printer", locale, func() any {
		return message.NewPrinter(language.Make(locale))
	})
	return obj.(*message.Printer)
}

// formatNumberValue renders a NumberValue through golang.org/x/text/number
// (and /currency for style:"currency"), per the Bundle's first locale.
func formatNumberValue(b *Bundle, v NumberValue) string {
	locale := firstLocale(b)
	printer := printerFor(b, locale)

	if v.Options.Style == "currency" && v.Options.Currency != "" {
		return formatCurrencyValue(printer, v.Value, v.Options)
	}

	opts := numberFormatOptions(v.Options)
	if v.Options.Style == "percent" {
		return printer.Sprintf("%v", number.Percent(v.Value, opts...))
	}
	return printer.Sprintf("%v", number.Decimal(v.Value, opts...))
}

func numberFormatOptions(o NumberOptions) []number.Option {
	var opts []number.Option
	if o.HasMinFractionDigits {
		opts = append(opts, number.MinFractionDigits(o.MinimumFractionDigits))
	}
	if o.HasMaxFractionDigits {
		opts = append(opts, number.MaxFractionDigits(o.MaximumFractionDigits))
	}
	return opts
}

func formatCurrencyValue(printer *message.Printer, amount float64, o NumberOptions) string {
	unit, err := currency.ParseISO(o.Currency)
	if err != nil {
		return strings.ToUpper(o.Currency) + " " + printer.Sprintf("%v",
			number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}

	value := unit.Amount(amount)
	if o.CurrencyDisplay == "code" {
		return printer.Sprintf("%v", currency.ISO(value))
	}
	return printer.Sprintf("%v", currency.Symbol(value))
}

var dateLayouts = map[string]string{
	"full":   "Monday, January 2, 2006",
	"long":   "January 2, 2006",
	"medium": "Jan 2, 2006",
	"short":  "1/2/06",
}

// formatDateTimeValue renders a DateTimeValue using fixed Go reference
// layouts per style ("full"/"long"/"medium"/"short"), defaulting to
// medium date and time when neither style is set. CLDR-accurate,
// per-locale calendar formatting is out of scope; callers needing that
// should format the DateTime's underlying value themselves and pass the
// result in as a string.
func formatDateTimeValue(_ *Bundle, v DateTimeValue) string {
	dateStyle, timeStyle := v.Options.DateStyle, v.Options.TimeStyle
	if dateStyle == "" && timeStyle == "" {
		dateStyle, timeStyle = "medium", "medium"
	}

	var parts []string
	if dateStyle != "" {
		if layout, ok := dateLayouts[dateStyle]; ok {
			parts = append(parts, v.Value.Format(layout))
		}
	}
	if timeStyle != "" {
		parts = append(parts, v.Value.Format(timeLayout(timeStyle, v.Options)))
	}
	return strings.Join(parts, " ")
}

func timeLayout(style string, o DateTimeOptions) string {
	if o.HasHour24 && o.Hour24 {
		switch style {
		case "full":
			return "15:04:05 MST"
		case "long":
			return "15:04:05"
		default:
			return "15:04"
		}
	}
	switch style {
	case "full":
		return "3:04:05 PM MST"
	case "long":
		return "3:04:05 PM"
	default:
		return "3:04 PM"
	}
}
