package errors

// Error codes follow the ERR_<block><seq>_<NAME> convention.
// 1xx = build-time (fatal to role activation), 2xx = query-time,
// 3xx = source/configuration.
const (
	// ErrCodeThesaurusBuild indicates thesaurus construction failed.
	ErrCodeThesaurusBuild = "ERR_101_THESAURUS_BUILD"
	// ErrCodeAutomataCompile indicates the pattern automaton could not be built.
	ErrCodeAutomataCompile = "ERR_102_AUTOMATA_COMPILE"
	// ErrCodeIndexBuild indicates the fulltext index could not be created.
	ErrCodeIndexBuild = "ERR_103_INDEX_BUILD"

	// ErrCodeRoleUnknown indicates a query referenced a role that does not exist.
	ErrCodeRoleUnknown = "ERR_201_ROLE_UNKNOWN"
	// ErrCodeQueryInvalid indicates a malformed query (e.g. blank search term).
	ErrCodeQueryInvalid = "ERR_202_QUERY_INVALID"
	// ErrCodeQueryCancelled indicates the caller's context ended mid-query.
	ErrCodeQueryCancelled = "ERR_203_QUERY_CANCELLED"

	// ErrCodeSourceUnavailable indicates a knowledge-graph source could not be read.
	ErrCodeSourceUnavailable = "ERR_301_SOURCE_UNAVAILABLE"
	// ErrCodeConfigInvalid indicates the configuration failed validation.
	ErrCodeConfigInvalid = "ERR_302_CONFIG_INVALID"
)

// Category groups error codes for handling decisions.
type Category string

const (
	// CategoryBuild covers construction failures, fatal to role activation.
	CategoryBuild Category = "Build"
	// CategoryQuery covers caller errors surfaced as typed values.
	CategoryQuery Category = "Query"
	// CategorySource covers configuration and external source problems.
	CategorySource Category = "Source"
	// CategoryInternal covers unexpected internal failures.
	CategoryInternal Category = "Internal"
)

// categoryFromCode derives the category from the code's numeric block.
func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryBuild
	case '2':
		return CategoryQuery
	case '3':
		return CategorySource
	default:
		return CategoryInternal
	}
}
