package fluent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileLoader reads Fluent resources and plural-rule fixtures from disk.
type FileLoader struct {
	paths     []string
	rulePaths []string
}

// NewFileLoader builds a FileLoader that will read the given .ftl paths.
func NewFileLoader(paths ...string) *FileLoader {
	return &FileLoader{paths: append([]string(nil), paths...)}
}

// WithPluralRuleFiles adds JSON or YAML plural-rule fixture paths, decoded
// by LoadPluralRules alongside the .ftl resources.
func (l *FileLoader) WithPluralRuleFiles(paths ...string) *FileLoader {
	if l == nil || len(paths) == 0 {
		return l
	}
	l.rulePaths = append(l.rulePaths, paths...)
	return l
}

// LoadResult is one file's parse outcome: exactly one of Resource or Err
// is set.
type LoadResult struct {
	Path     string
	Resource *Resource
	Err      error
}

// Load reads and parses every configured .ftl path independently: a
// syntax error in one file is recorded on its LoadResult without
// preventing the others from loading.
func (l *FileLoader) Load() ([]LoadResult, error) {
	if l == nil || len(l.paths) == 0 {
		return nil, errors.New("fluent: no loader paths configured")
	}

	results := make([]LoadResult, 0, len(l.paths))
	for _, path := range l.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			results = append(results, LoadResult{Path: path, Err: fmt.Errorf("fluent: read %s: %w", path, err)})
			continue
		}
		res, err := ParseResource(string(data))
		if err != nil {
			results = append(results, LoadResult{Path: path, Err: fmt.Errorf("fluent: parse %s: %w", path, err)})
			continue
		}
		results = append(results, LoadResult{Path: path, Resource: res})
	}
	return results, nil
}

// LoadPluralRules decodes every configured plural-rule fixture (JSON or
// YAML, by extension) and merges them into one locale-keyed table; a
// locale defined in more than one file takes its last file's rules.
func (l *FileLoader) LoadPluralRules() (map[string]*PluralRuleSet, error) {
	if l == nil || len(l.rulePaths) == 0 {
		return nil, nil
	}

	merged := make(map[string]*PluralRuleSet)
	for _, path := range l.rulePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("fluent: read plural rules %s: %w", path, err)
		}

		var sets map[string]*PluralRuleSet
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".json":
			sets, err = LoadPluralRulesJSON(data)
		case ".yaml", ".yml":
			sets, err = LoadPluralRulesYAML(data)
		default:
			return nil, fmt.Errorf("fluent: unsupported plural rule file extension %q", ext)
		}
		if err != nil {
			return nil, fmt.Errorf("fluent: decode plural rules %s: %w", path, err)
		}
		for locale, set := range sets {
			merged[locale] = set
		}
	}
	return merged, nil
}

// LoadInto reads every configured .ftl and plural-rule file and merges
// them into bundle, returning every syntax, conflict, and I/O error
// encountered. It is the common case wiring a FileLoader to a freshly
// constructed Bundle.
func (l *FileLoader) LoadInto(bundle *Bundle, allowOverrides bool) []error {
	var errs []error

	results, err := l.Load()
	if err != nil {
		return append(errs, err)
	}
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
			continue
		}
		errs = append(errs, bundle.AddResource(res.Resource, allowOverrides)...)
	}

	rules, err := l.LoadPluralRules()
	if err != nil {
		errs = append(errs, err)
	} else if rules != nil {
		bundle.SetPluralRules(NewTablePluralRules(rules))
	}

	return errs
}
