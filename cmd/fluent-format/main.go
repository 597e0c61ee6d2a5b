// Command fluent-format formats one message from a set of Fluent
// resources against a chosen locale, for ad hoc inspection of .ftl files
// outside of a host application.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	fluent "github.com/goliatone/go-fluent"
)

type pathFlag struct {
	items []string
}

func (f *pathFlag) String() string {
	return strings.Join(f.items, ",")
}

func (f *pathFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			f.items = append(f.items, part)
		}
	}
	return nil
}

type varFlag struct {
	values map[string]string
}

func (f *varFlag) String() string {
	return ""
}

func (f *varFlag) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", value)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[name] = val
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fluent-format: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("fluent-format", flag.ContinueOnError)

	var resourcePaths pathFlag
	var locales pathFlag
	var vars varFlag

	fs.Var(&resourcePaths, "resource", "path to a .ftl resource (repeat or comma-separate for more than one)")
	fs.Var(&locales, "locale", "locale for NUMBER formatting and plural selection (repeatable; only the first is used)")
	fs.Var(&vars, "var", "name=value variable passed to the message (repeat for more than one)")
	attr := fs.String("attr", "", "format this attribute of the message instead of its value")
	useIsolating := fs.Bool("isolate", false, "wrap placeable output in bidi isolation marks")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(resourcePaths.items) == 0 {
		return errors.New("at least one -resource is required")
	}
	if fs.NArg() != 1 {
		return errors.New("expected exactly one positional argument: the message id")
	}
	messageID := fs.Arg(0)

	if len(locales.items) == 0 {
		locales.items = []string{"en"}
	}

	bundle := fluent.NewBundle(locales.items, fluent.WithUseIsolating(*useIsolating))
	loader := fluent.NewFileLoader(resourcePaths.items...)
	if errs := loader.LoadInto(bundle, false); len(errs) > 0 {
		return joinErrors(errs)
	}

	callArgs := make(map[string]any, len(vars.values))
	for name, val := range vars.values {
		callArgs[name] = val
	}

	var (
		result string
		errs   []error
	)
	if *attr != "" {
		result, errs = bundle.FormatMessageAttribute(messageID, *attr, callArgs)
	} else {
		result, errs = bundle.FormatMessage(messageID, callArgs)
	}

	fmt.Println(result)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "fluent-format: %v\n", err)
	}
	return nil
}

func joinErrors(errs []error) error {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return errors.New(strings.Join(messages, "; "))
}
