package generator

// Categories maps a category name to its static word list
var Categories = map[string][]string{
	"Tech": {
		"ai", "ml", "api", "app", "web", "dev", "code", "tech", "digital", "smart",
		"auto", "cloud", "data", "cyber", "neural", "quantum", "blockchain", "crypto",
		"saas", "paas", "iot", "ar", "vr", "bot", "algo", "deep", "learn", "vision",
	},
	"Health": {
		"health", "fit", "wellness", "care", "medical", "bio", "life", "vital",
		"heal", "cure", "therapy", "nutrition", "diet", "exercise", "mental",
		"physical", "organic", "natural", "supplement", "immunity", "recovery",
	},
	"Finance": {
		"finance", "money", "invest", "trade", "bank", "pay", "fund", "wealth",
		"profit", "revenue", "capital", "asset", "portfolio", "stock", "bond",
		"forex", "crypto", "defi", "nft", "coin", "token", "exchange",
	},
	"AI/ML": {
		"ai", "artificial", "intelligence", "machine", "learning", "neural",
		"network", "deep", "algorithm", "model", "predict", "analyze",
		"automate", "cognitive", "smart", "intelligent", "adaptive",
	},
	"Food": {
		"food", "recipe", "cooking", "chef", "kitchen", "restaurant",
		"cafe", "coffee", "tea", "wine", "beer", "cocktail", "organic",
		"fresh", "local", "farm", "gourmet", "artisan", "craft", "fusion",
	},
}

const (
	// TrendingCategory pulls words from the configured TrendingSource
	TrendingCategory = "Trending"
	// MadeUpCategory generates pronounceable invented words
	MadeUpCategory = "Made-up"
)

// Prefixes are prepended to words in the prefix bucket
var Prefixes = []string{"get", "my", "the", "pro", "super", "ultra", "mega", "best", "top", "smart"}

// Suffixes are appended to words in the suffix bucket
var Suffixes = []string{"app", "hub", "lab", "pro", "ai", "tech", "ly", "io", "co", "net"}

// CategoryNames lists every selectable category
func CategoryNames() []string {
	return []string{"Tech", "Health", "Finance", "AI/ML", "Food", TrendingCategory, MadeUpCategory}
}
