package geo

import "strings"

// Category is a device classification derived from free-text properties.
type Category int

const (
	CategoryFlock Category = iota
	CategoryALPR
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryFlock:
		return "flock"
	case CategoryALPR:
		return "alpr"
	default:
		return "other"
	}
}

type categoryRule struct {
	category Category
	matches  func(manufacturer, survType string) bool
}

// Precedence is deliberate: a Flock manufacturer outranks an ALPR type tag,
// so a Flock ALPR counts as Flock. Rules are evaluated top to bottom.
var categoryRules = []categoryRule{
	{CategoryFlock, func(manufacturer, _ string) bool {
		return strings.Contains(manufacturer, "flock")
	}},
	{CategoryALPR, func(_, survType string) bool {
		return survType == "ALPR"
	}},
}

// CategoryOf classifies a feature's property bag. Missing or null properties
// are treated as empty strings, never as errors.
func CategoryOf(properties map[string]interface{}) Category {
	manufacturer := propString(properties, "manufacturer")
	if manufacturer == "" {
		manufacturer = propString(properties, "brand")
	}
	manufacturer = strings.ToLower(manufacturer)
	survType := strings.ToUpper(propString(properties, "surveillance:type"))

	for _, rule := range categoryRules {
		if rule.matches(manufacturer, survType) {
			return rule.category
		}
	}
	return CategoryOther
}

func propString(properties map[string]interface{}, key string) string {
	if properties == nil {
		return ""
	}
	value, ok := properties[key].(string)
	if !ok {
		return ""
	}
	return value
}
