package generator

import (
	"clipforge/keywords"
)

// Keyword → category table for fallback selection. Fixed so that the
// same segment text always maps to the same stock asset.
var keywordCategories = map[string]string{
	// nature
	"ocean": "nature", "mountain": "nature", "mountains": "nature",
	"forest": "nature", "river": "nature", "lake": "nature",
	"sunrise": "nature", "sunset": "nature", "birds": "nature",
	"trees": "nature", "flowers": "nature", "rain": "nature",
	"snow": "nature", "beach": "nature", "desert": "nature",
	"wildlife": "nature", "garden": "nature", "landscape": "nature",

	// technology
	"computer": "technology", "software": "technology", "digital": "technology",
	"robot": "technology", "data": "technology", "phone": "technology",
	"machine": "technology", "screen": "technology", "internet": "technology",
	"code": "technology", "technology": "technology", "artificial": "technology",
	"network": "technology", "device": "technology",

	// people
	"family": "people", "crowd": "people", "children": "people",
	"friends": "people", "woman": "people", "person": "people",
	"people": "people", "smile": "people", "faces": "people",
	"community": "people", "couple": "people",

	// business
	"office": "business", "meeting": "business", "market": "business",
	"money": "business", "company": "business", "business": "business",
	"finance": "business", "startup": "business", "investment": "business",
	"corporate": "business", "deal": "business",

	// food
	"kitchen": "food", "chef": "food", "meal": "food",
	"food": "food", "restaurant": "food", "cooking": "food",
	"dinner": "food", "recipe": "food", "gourmet": "food",
	"baking": "food", "coffee": "food",

	// travel
	"travel": "travel", "journey": "travel", "city": "travel",
	"road": "travel", "airport": "travel", "adventure": "travel",
	"vacation": "travel", "tourist": "travel", "airplane": "travel",
	"hotel": "travel", "explore": "travel",

	// sports
	"game": "sports", "race": "sports", "training": "sports",
	"sports": "sports", "player": "sports", "stadium": "sports",
	"football": "sports", "basketball": "sports", "running": "sports",
	"athlete": "sports", "match": "sports",
}

// defaultCategory is used when no keyword matches the table
const defaultCategory = "default"

// defaultCatalog maps each category to its canonical stock asset
var defaultCatalog = map[string]string{
	"nature":     "https://assets.clipforge.dev/stock/nature.mp4",
	"technology": "https://assets.clipforge.dev/stock/technology.mp4",
	"people":     "https://assets.clipforge.dev/stock/people.mp4",
	"business":   "https://assets.clipforge.dev/stock/business.mp4",
	"food":       "https://assets.clipforge.dev/stock/food.mp4",
	"travel":     "https://assets.clipforge.dev/stock/travel.mp4",
	"sports":     "https://assets.clipforge.dev/stock/sports.mp4",
	"default":    "https://assets.clipforge.dev/stock/default.mp4",
}

// fallbackCategory picks the category for a segment's text: the first
// extracted keyword present in the table wins, otherwise default.
// Deterministic because keyword extraction is.
func fallbackCategory(text string) string {
	for _, kw := range keywords.Extract(text, 0) {
		if cat, ok := keywordCategories[kw]; ok {
			return cat
		}
	}
	return defaultCategory
}
