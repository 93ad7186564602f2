package generator

import (
	"fmt"
	"strings"
)

// directivePrefix marks a union directive comment. The directive must be the
// entire comment line, with no space after the slashes.
const directivePrefix = "tagson:union"

// directiveInfo holds the parsed keys of one //tagson:union directive.
type directiveInfo struct {
	Variants []string
	Naming   string
	Strategy string
	TagField string
}

// parseDirective parses the text after the tagson:union marker, e.g.
// `variants=Bar,Baz naming=short strategy=flat tag=kind`. Items are
// space-separated key=value pairs. Recognised keys: variants, naming,
// strategy, tag. Unknown keys, bare items, and invalid values are errors.
func parseDirective(text string) (directiveInfo, error) {
	var info directiveInfo
	for _, item := range strings.Fields(text) {
		kv := strings.SplitN(item, "=", 2)
		if len(kv) != 2 {
			return info, fmt.Errorf("malformed directive item %q", item)
		}
		key, val := kv[0], kv[1]
		switch key {
		case "variants":
			info.Variants = info.Variants[:0]
			for _, name := range strings.Split(val, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				info.Variants = append(info.Variants, name)
			}
		case "naming":
			if val != NamingShort && val != NamingFull {
				return info, fmt.Errorf("invalid naming %q (want short or full)", val)
			}
			info.Naming = val
		case "strategy":
			if val != StrategyNested && val != StrategyFlat {
				return info, fmt.Errorf("invalid strategy %q (want nested or flat)", val)
			}
			info.Strategy = val
		case "tag":
			if val == "" {
				return info, fmt.Errorf("directive key tag has no value")
			}
			info.TagField = val
		default:
			return info, fmt.Errorf("unknown directive key %q", key)
		}
	}
	if len(info.Variants) == 0 {
		return info, fmt.Errorf("directive has no variants")
	}
	if info.TagField != "" && info.Strategy == StrategyNested {
		return info, fmt.Errorf("directive key tag requires strategy=flat")
	}
	// A tag field only makes sense for the flat strategy, so it implies it.
	if info.TagField != "" {
		info.Strategy = StrategyFlat
	}
	if info.Naming == "" {
		info.Naming = NamingShort
	}
	if info.Strategy == "" {
		info.Strategy = StrategyNested
	}
	return info, nil
}
