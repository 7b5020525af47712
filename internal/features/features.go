// Package features derives the landing page feature cards from the library
// README and its bundle size.
package features

import (
	"math"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
)

// Icon names understood by the landing view.
const (
	IconCode    = "code"
	IconType    = "type"
	IconClock   = "clock"
	IconCheck   = "check"
	IconPackage = "package"
)

const defaultClassName = "col-span-3 lg:col-span-1"

// Feature is one card of the landing page grid.
type Feature struct {
	Icon        string `json:"icon"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ClassName   string `json:"className,omitempty"`
	Href        string `json:"href,omitempty"`
	CTA         string `json:"cta,omitempty"`
}

var bullet = regexp.MustCompile(`(?m)^\s*[-*]\s+(.+)$`)

// ExtractFromReadme maps the bullets of the README's "gives you:" list to
// feature cards. When fewer than three are found, keyword mentions anywhere
// in the README add more. An empty README, or one nothing can be derived
// from, yields the default cards.
func ExtractFromReadme(readme string) []Feature {
	if readme == "" {
		return Defaults()
	}

	var features []Feature

	for _, text := range givesYouBullets(readme) {
		if f, ok := classify(text); ok {
			features = append(features, f)
		}
	}

	if len(features) < 3 {
		lower := strings.ToLower(readme)

		if strings.Contains(lower, "type-safe") && !hasName(features, "TypeScript") {
			features = append(features, Feature{
				Icon:        IconType,
				Name:        "Type-Safe Events",
				Description: "Full TypeScript type safety for event keys and payloads.",
			})
		}
		if strings.Contains(lower, "debounce") && !hasName(features, "Debounce") {
			features = append(features, Feature{
				Icon:        IconClock,
				Name:        "Debounce & Throttle",
				Description: "Built-in support for debouncing and throttling event handlers.",
			})
		}
		if strings.Contains(lower, "async") && !hasName(features, "Async") {
			features = append(features, Feature{
				Icon:        IconCheck,
				Name:        "Async Callbacks",
				Description: "Support for asynchronous event handlers with Promise-based triggers.",
			})
		}
	}

	if len(features) == 0 {
		return Defaults()
	}

	return features
}

// givesYouBullets returns the cleaned bullet texts between "gives you:" and
// the next heading.
func givesYouBullets(readme string) []string {
	start := strings.Index(readme, "gives you:")
	if start < 0 {
		return nil
	}

	section := readme[start:]
	if end := strings.Index(section, "\n#"); end >= 0 {
		section = section[:end]
	}

	var texts []string
	for _, m := range bullet.FindAllStringSubmatch(section, -1) {
		text := strings.ReplaceAll(strings.TrimSpace(m[1]), "**", "")
		if text != "" {
			texts = append(texts, text)
		}
	}

	return texts
}

func classify(text string) (Feature, bool) {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "lightweight"), strings.Contains(lower, "event driver"):
		return Feature{}, false
	case strings.Contains(lower, "provider"):
		return Feature{Icon: IconCode, Name: "React Provider", Description: text}, true
	case strings.Contains(lower, "hook"):
		return Feature{Icon: IconCode, Name: "Hook-Based API", Description: text}, true
	case strings.Contains(lower, "type"):
		return Feature{Icon: IconType, Name: "TypeScript Support", Description: text}, true
	case strings.Contains(lower, "debounce"), strings.Contains(lower, "throttle"):
		return Feature{Icon: IconClock, Name: "Debounce & Throttle", Description: text}, true
	case strings.Contains(lower, "async"):
		return Feature{Icon: IconCheck, Name: "Async Callback Support", Description: text}, true
	}

	return Feature{}, false
}

func hasName(features []Feature, part string) bool {
	for _, f := range features {
		if strings.Contains(f.Name, part) {
			return true
		}
	}
	return false
}

// Defaults are the cards shown when the README offers nothing usable.
func Defaults() []Feature {
	return []Feature{
		{Icon: IconCode, Name: "Hook-Based API", Description: "Modern React hooks for triggering and monitoring events."},
		{Icon: IconType, Name: "TypeScript Support", Description: "Full type safety for event keys and payloads."},
		{Icon: IconClock, Name: "Debounce & Throttle", Description: "Built-in support for debouncing and throttling event handlers."},
		{Icon: IconCheck, Name: "Async Callbacks", Description: "Support for asynchronous event handlers with Promise-based triggers."},
	}
}

// BundleSize returns the bundle size card for pkg, or nil when either size
// is unknown.
func BundleSize(pkg string, size, gzip *int64) *Feature {
	if size == nil || gzip == nil {
		return nil
	}

	return &Feature{
		Icon:        IconPackage,
		Name:        "Tiny Bundle Size",
		Description: "Only " + FormatBytes(*gzip) + " gzipped. A minimal in-memory event bus for React components.",
		ClassName:   "col-span-3 lg:col-span-2",
		Href:        "https://bundlephobia.com/package/" + pkg,
		CTA:         "View on Bundlephobia",
	}
}

// Combine puts the bundle card, when present, in front of the README cards
// and gives every card without one the default grid class.
func Combine(readme []Feature, bundle *Feature) []Feature {
	all := make([]Feature, 0, len(readme)+1)
	if bundle != nil {
		all = append(all, *bundle)
	}
	all = append(all, readme...)

	for i := range all {
		if all[i].ClassName == "" {
			all[i].ClassName = defaultClassName
		}
	}

	return all
}

var byteUnits = []string{"B", "KB", "MB"}

// FormatBytes renders n with base 1024 units, rounded to two decimals with
// trailing zeros dropped. Sizes beyond the megabyte range stay in MB.
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}

	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}

	value := math.Round(float64(n)/math.Pow(1024, float64(i))*100) / 100

	return humanize.FtoaWithDigits(value, 2) + " " + byteUnits[i]
}
