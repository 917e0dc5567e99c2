// README: Keyword-driven question interpretation as explicit ordered rule tables.
package query

import (
	"regexp"
	"strings"
)

// DestinationResolver looks up catalog entries for a term. The dataset
// table satisfies it; tests can supply a fixture.
type DestinationResolver interface {
	SimilarDestinations(term string, limit int) []string
}

// Interpreter turns a raw question into a Spec. All classification is
// case-insensitive substring matching over fixed, ordered rule tables, so
// precedence is auditable in one place.
type Interpreter struct {
	resolver DestinationResolver
}

func NewInterpreter(resolver DestinationResolver) *Interpreter {
	return &Interpreter{resolver: resolver}
}

// ageGroupRules are scanned in order; the first match sets the age-group
// filter, so a question naming several ranges keeps only the earliest one.
var ageGroupRules = []struct {
	phrases []string
	bucket  string
}{
	{[]string{"18-24", "18 to 24"}, "18-24"},
	{[]string{"25-34", "25 to 34"}, "25-34"},
	{[]string{"35-44", "35 to 44"}, "35-44"},
	{[]string{"45+", "45 and up"}, "45+"},
}

// dayNames are scanned Monday through Sunday; the first day named in that
// order wins, not the first to appear in the question text.
var dayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// timePeriodRules: evening outranks morning outranks afternoon when words
// from several groups appear together.
var timePeriodRules = []struct {
	words  []string
	period string
}{
	{[]string{"night", "evening", "late"}, "evening"},
	{[]string{"morning", "early", "dawn"}, "morning"},
	{[]string{"afternoon", "midday"}, "afternoon"},
}

// locationRules: "downtown" takes precedence over the generic city name.
var locationRules = []string{"downtown", "austin"}

// timePeriodPhrases is the fixed phrase table for relative periods; first
// textual match wins.
var timePeriodPhrases = []struct {
	period   string
	keywords []string
}{
	{"last month", []string{"last month", "previous month"}},
	{"this month", []string{"this month", "current month"}},
	{"last week", []string{"last week", "previous week"}},
	{"this week", []string{"this week", "current week"}},
	{"yesterday", []string{"yesterday"}},
	{"today", []string{"today"}},
	{"last year", []string{"last year", "previous year"}},
	{"this year", []string{"this year", "current year"}},
}

// destinationKeywords are venue and landmark nouns tried in list order
// before falling back to phrase patterns.
var destinationKeywords = []string{
	"moody center", "moody", "center",
	"downtown", "austin", "university", "campus",
	"airport", "mall", "stadium", "theater",
	"restaurant", "bar", "club", "hotel",
	"park", "lake", "river", "bridge",
}

var destinationPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`went to ([^?]+)`),
	regexp.MustCompile(`go to ([^?]+)`),
	regexp.MustCompile(`visiting ([^?]+)`),
	regexp.MustCompile(`at ([^?]+)`),
	regexp.MustCompile(`in ([^?]+)`),
}

var (
	trailingTemporalRe   = regexp.MustCompile(`\s+(last|this|next)\s+(month|week|year)`)
	trailingQuantifierRe = regexp.MustCompile(`\s+(how many|groups|trips)`)
)

// chartRules are evaluated in order: time words beat distribution words
// beat ranking words beat geographic words; default is bar.
var chartRules = []struct {
	words []string
	chart Chart
}{
	{[]string{"time", "hour", "when", "schedule", "duration", "pattern"}, ChartLine},
	{[]string{"distribution", "percentage", "proportion", "share"}, ChartPie},
	{[]string{"top", "most", "popular", "best", "highest", "ranking"}, ChartBar},
	{[]string{"map", "location", "geographic"}, ChartScatter},
}

// intentRules is the authoritative intent priority: a question matching
// several categories classifies by the earliest rule here, regardless of
// where its keywords appear in the text. Destination presence and ranking
// combinations are evaluated after these, in Interpret.
var intentRules = []struct {
	words  []string
	intent Intent
}{
	{[]string{"group size", "group sizes", "group size analysis", "group distribution"}, IntentGroupSizeAnalysis},
	{[]string{"hourly", "hourly distribution", "peak hours", "time patterns", "when do"}, IntentHourlyAnalysis},
	{[]string{"day of week", "weekday", "weekend", "saturday", "sunday", "monday", "tuesday", "wednesday", "thursday", "friday"}, IntentDayOfWeekAnalysis},
	{[]string{"age group", "age groups", "demographics", "young", "old", "18-24", "25-34", "35-44", "45+"}, IntentAgeGroupAnalysis},
	{[]string{"monthly", "monthly trends", "seasonal", "over time", "trends"}, IntentMonthlyAnalysis},
}

var (
	rankingWords          = []string{"top", "most popular", "best", "ranking"}
	destinationQualifiers = []string{"destination", "drop", "location"}
	timePatternQualifiers = []string{"time", "hour"}
)

// Interpret builds a Spec from a raw question. It is deterministic and
// side-effect free; the dataset is only consulted through the resolver to
// pick a destination candidate.
func (in *Interpreter) Interpret(question string) Spec {
	q := strings.ToLower(question)

	spec := Spec{
		Question: question,
		Intent:   IntentGeneral,
		Chart:    ChartBar,
	}

	spec.Filters = extractFilters(q)
	spec.Destination = in.extractDestination(q)
	spec.TimePeriodPhrase = extractTimePeriodPhrase(q)
	spec.Chart = classifyChart(q)
	spec.Intent = classifyIntent(q, spec.Destination != "")

	return spec
}

func extractFilters(q string) Filters {
	var f Filters

	for _, rule := range ageGroupRules {
		if containsAny(q, rule.phrases) {
			f.AgeGroup = rule.bucket
			break
		}
	}

	for _, day := range dayNames {
		if strings.Contains(q, day) {
			f.DayOfWeek = strings.ToUpper(day[:1]) + day[1:]
			break
		}
	}

	for _, rule := range timePeriodRules {
		if containsAny(q, rule.words) {
			f.TimePeriod = rule.period
			break
		}
	}

	for _, keyword := range locationRules {
		if strings.Contains(q, keyword) {
			f.LocationKeyword = keyword
			break
		}
	}

	switch {
	case containsAny(q, []string{"large group", "6+", "6 or more"}):
		f.MinGroupSize = 6
	case containsAny(q, []string{"small group", "1-3"}):
		f.MaxGroupSize = 3
	}

	return f
}

// extractDestination tries the venue keyword list first, resolving each hit
// against the catalog; the first keyword with a catalog match wins. Only
// then does it fall back to phrase patterns, whose captured span is kept
// verbatim after trailing temporal and quantifier clauses are stripped.
func (in *Interpreter) extractDestination(q string) string {
	if in.resolver != nil {
		for _, keyword := range destinationKeywords {
			if !strings.Contains(q, keyword) {
				continue
			}
			if matches := in.resolver.SimilarDestinations(keyword, 5); len(matches) > 0 {
				return matches[0]
			}
		}
	}

	for _, pattern := range destinationPhrasePatterns {
		m := pattern.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		candidate = trailingTemporalRe.ReplaceAllString(candidate, "")
		candidate = trailingQuantifierRe.ReplaceAllString(candidate, "")
		candidate = strings.TrimSpace(candidate)
		if len(candidate) > 2 {
			return candidate
		}
	}
	return ""
}

func extractTimePeriodPhrase(q string) string {
	for _, entry := range timePeriodPhrases {
		if containsAny(q, entry.keywords) {
			return entry.period
		}
	}
	return ""
}

func classifyChart(q string) Chart {
	for _, rule := range chartRules {
		if containsAny(q, rule.words) {
			return rule.chart
		}
	}
	return ChartBar
}

func classifyIntent(q string, hasDestination bool) Intent {
	for _, rule := range intentRules {
		if containsAny(q, rule.words) {
			return rule.intent
		}
	}
	if hasDestination {
		return IntentDestinationSearch
	}
	if containsAny(q, rankingWords) {
		if containsAny(q, destinationQualifiers) {
			return IntentTopDestinations
		}
		if containsAny(q, timePatternQualifiers) {
			return IntentHourlyPatterns
		}
	}
	return IntentGeneral
}

func containsAny(q string, words []string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}
