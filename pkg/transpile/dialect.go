package transpile

import (
	"strings"

	"github.com/arthur-debert/addonc/pkg/errors"
)

// dialectRanks orders the known language levels. esnext sits above every
// numbered edition.
var dialectRanks = map[string]int{
	"es3":    0,
	"es5":    1,
	"es6":    2,
	"es2015": 2,
	"es2016": 3,
	"es2017": 4,
	"es2018": 5,
	"es2019": 6,
	"es2020": 7,
	"es2021": 8,
	"es2022": 9,
	"esnext": 100,
}

// Dialects returns the accepted dialect identifiers
func Dialects() []string {
	return []string{"es3", "es5", "es2015", "es2016", "es2017", "es2018", "es2019", "es2020", "es2021", "es2022", "esnext"}
}

// ValidDialect reports whether d is a known dialect identifier
func ValidDialect(d string) bool {
	_, ok := dialectRanks[strings.ToLower(d)]
	return ok
}

func dialectRank(d string) (int, error) {
	if d == "" {
		d = DefaultDialect
	}
	rank, ok := dialectRanks[strings.ToLower(d)]
	if !ok {
		return 0, errors.Newf(errors.ErrTranspileDialect, "unsupported dialect %q", d)
	}
	return rank, nil
}

// minimumDialect lists syntax nodes that cannot be expressed below a dialect.
// The transpiler only removes TypeScript syntax; it never lowers JavaScript.
var minimumDialect = map[string]string{
	"arrow_function":                 "es2015",
	"class":                          "es2015",
	"class_declaration":              "es2015",
	"abstract_class_declaration":     "es2015",
	"lexical_declaration":            "es2015",
	"template_string":                "es2015",
	"spread_element":                 "es2015",
	"generator_function":             "es2015",
	"generator_function_declaration": "es2015",
	"await_expression":               "es2017",
	"optional_chain":                 "es2020",
}
