package query

// The classification vocabulary is fixed at build time and never mutated,
// so the classifier stays thread-safe without locking.

var visaTypeTerms = map[string]struct{}{
	"h1b": {}, "h-1b": {}, "h1-b": {}, "h1": {}, "o1": {}, "o-1": {},
	"l1": {}, "l-1": {}, "eb1": {}, "eb-1": {}, "eb2": {}, "eb-2": {},
	"eb3": {}, "eb-3": {}, "eb": {}, "j1": {}, "j-1": {}, "f1": {},
	"f-1": {}, "b1": {}, "b-1": {}, "b2": {}, "b-2": {},
	"o-series": {}, "o series": {}, "o visa": {}, "o1a": {}, "o-1a": {},
	"o1b": {}, "o-1b": {}, "o2": {}, "o-2": {}, "o3": {}, "o-3": {},
}

var immigrationTerms = map[string]struct{}{
	"visa": {}, "immigration": {}, "immigrant": {}, "nonimmigrant": {},
	"green card": {}, "permanent resident": {}, "citizenship": {},
	"naturalization": {}, "petition": {}, "alien": {}, "foreign national": {},
	"extraordinary ability": {}, "distinguished merit": {},
	"arts": {}, "sciences": {}, "athletics": {}, "business": {},
	"motion picture": {}, "television": {},
}

var processTerms = map[string]struct{}{
	"application": {}, "processing": {}, "filing": {}, "status": {},
	"extension": {}, "transfer": {}, "amendment": {}, "renewal": {},
	"appeal": {}, "rfe": {},
}

var documentTerms = map[string]struct{}{
	"passport": {}, "i20": {}, "i-20": {}, "ds160": {}, "ds-160": {},
	"sevis": {}, "i129": {}, "i-129": {}, "i485": {}, "i-485": {},
	"ead": {}, "i765": {}, "i-765": {},
}

// allKeywords is the union of every vocabulary partition.
var allKeywords = func() map[string]struct{} {
	all := make(map[string]struct{})
	for _, partition := range []map[string]struct{}{
		visaTypeTerms, immigrationTerms, processTerms, documentTerms,
	} {
		for term := range partition {
			all[term] = struct{}{}
		}
	}
	return all
}()

// ambiguousTerms maps whole-word terms that need clarification to their
// category-specific follow-up prompt.
var ambiguousTerms = map[string]string{
	"eb":     "Could you specify which EB category you're interested in? (EB-1, EB-2, or EB-3)",
	"h":      "Are you referring to H-1B visa?",
	"o":      "Which O-visa category are you interested in? (O-1A for sciences/business, O-1B for arts/entertainment, O-2 for support staff, or O-3 for dependents)",
	"status": "Could you specify which visa status you're asking about?",
	"visa":   "Which type of visa are you interested in?",
}

// ambiguousTermOrder keeps prompt selection deterministic when a query
// contains more than one ambiguous term.
var ambiguousTermOrder = []string{"eb", "h", "o", "status", "visa"}

// specificVisaCategories suppress ambiguity checks when present.
var specificVisaCategories = []string{
	"o-1a", "o-1b", "o-2", "o-3",
	"h-1b", "h-2b", "l-1", "eb-1", "eb-2", "eb-3", "f-1", "j-1",
}

// greetingSet is matched exactly against the normalized query.
var greetingSet = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "greetings": {},
	"hi there": {}, "hello there": {},
}

// visaPrefixes are short tokens that plausibly start a visa code.
var visaPrefixes = map[string]struct{}{
	"h": {}, "l": {}, "o": {}, "j": {}, "f": {}, "b": {}, "eb": {},
}

// commonVariations maps correct keyword forms to frequent misspellings.
var commonVariations = map[string][]string{
	"citizen":       {"citizenship", "citezen", "citizn", "citzenshi", "citizenshp"},
	"visa":          {"viza", "vis", "visas"},
	"immigration":   {"imigration", "immigraton", "immig"},
	"passport":      {"passprt", "pasport"},
	"employment":    {"employ", "employmnt"},
	"authorization": {"auth", "authorize", "authoriz"},
}

// comparisonIndicators signal a comparison question when combined with two
// or more visa mentions.
var comparisonIndicators = map[string]struct{}{
	"difference": {}, "compare": {}, "vs": {}, "versus": {}, "between": {},
}

// visaIndicators are the tokens counted when deciding whether a comparison
// involves at least two visa entities.
var visaIndicators = map[string]struct{}{
	"h1b": {}, "h-1b": {}, "h1": {}, "o1": {}, "o-1": {},
	"l1": {}, "l-1": {}, "f-1": {}, "j-1": {}, "eb-1": {}, "eb-2": {},
	"eb-3": {}, "visa": {},
}

// categoryKeywords score the non-comparison categories.
var categoryKeywords = map[Category][]string{
	CategoryVisaApplication: {
		"visa", "apply", "application", "petition", "sponsor",
		"h-1b", "o-1", "l-1", "f-1", "j-1",
	},
	CategoryImmigrationPolicy: {
		"law", "legal", "regulation", "rule", "compliance", "statute",
		"policy", "process", "procedure", "steps", "timeline",
	},
	CategoryDocumentation: {
		"document", "form", "certificate", "evidence", "proof",
		"documentation", "papers", "records", "passport",
	},
	CategoryEligibility: {
		"requirements", "eligible", "eligibility", "qualify", "criteria",
	},
}
