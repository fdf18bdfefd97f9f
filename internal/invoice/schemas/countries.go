package schemas

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// CountryCode is an ISO 3166-1 alpha-2 country code.
type CountryCode string

// DefaultCountryCode is used when a country name cannot be resolved.
const DefaultCountryCode CountryCode = "US"

//go:embed countries.yaml
var countriesYAML []byte

// Country is one entry of the embedded country table.
type Country struct {
	Code    CountryCode `yaml:"code"`
	Name    string      `yaml:"name"`
	Aliases []string    `yaml:"aliases"`
}

type countryTable struct {
	list   []Country
	byCode map[CountryCode]Country
	byName map[string]CountryCode
}

var countries = mustLoadCountries(countriesYAML)

func mustLoadCountries(data []byte) *countryTable {
	table, err := loadCountries(data)
	if err != nil {
		panic(err)
	}
	return table
}

func loadCountries(data []byte) (*countryTable, error) {
	var list []Country
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal country table: %w", err)
	}

	table := &countryTable{
		list:   list,
		byCode: make(map[CountryCode]Country, len(list)),
		byName: make(map[string]CountryCode, len(list)*3),
	}
	for _, c := range list {
		if len(c.Code) != 2 {
			return nil, fmt.Errorf("country %q: code %q is not two letters", c.Name, c.Code)
		}
		if _, dup := table.byCode[c.Code]; dup {
			return nil, fmt.Errorf("duplicate country code %s", c.Code)
		}
		table.byCode[c.Code] = c

		keys := append([]string{string(c.Code), c.Name}, c.Aliases...)
		for _, key := range keys {
			table.byName[normalizeCountryName(key)] = c.Code
		}
	}
	return table, nil
}

// normalizeCountryName lower-cases s, drops punctuation and collapses runs of
// whitespace and dashes into single spaces.
func normalizeCountryName(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			space = true
		}
	}
	return b.String()
}

// CountryCodeFromName maps a free-text country name to its code. It never
// fails: unknown names, including the empty string, map to
// DefaultCountryCode.
func CountryCodeFromName(name string) CountryCode {
	if code, ok := countries.byName[normalizeCountryName(name)]; ok {
		return code
	}
	return DefaultCountryCode
}

// IsValidCountryCode reports whether code is in the country table.
func IsValidCountryCode(code CountryCode) bool {
	_, ok := countries.byCode[code]
	return ok
}

// CountryName returns the English name for code, or the code itself when it
// is not in the table.
func CountryName(code CountryCode) string {
	if c, ok := countries.byCode[code]; ok {
		return c.Name
	}
	return string(code)
}

// Countries returns the country table sorted by code.
func Countries() []Country {
	list := make([]Country, len(countries.list))
	copy(list, countries.list)
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}
