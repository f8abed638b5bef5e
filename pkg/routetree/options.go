package routetree

// TrailingSlashMode controls trailing slashes on built paths.
type TrailingSlashMode string

const (
	// TrailingSlashDefault keeps whatever the segment templates produce.
	TrailingSlashDefault TrailingSlashMode = "default"

	// TrailingSlashNever strips the trailing slash (except for "/").
	TrailingSlashNever TrailingSlashMode = "never"

	// TrailingSlashAlways appends a trailing slash.
	TrailingSlashAlways TrailingSlashMode = "always"
)

// QueryParamsMode controls how query parameters are matched and built.
type QueryParamsMode string

const (
	// QueryParamsDefault accepts undeclared query parameters on match and
	// serializes unconsumed build parameters into the query string.
	QueryParamsDefault QueryParamsMode = "default"

	// QueryParamsStrict rejects a match carrying undeclared query
	// parameters and drops unconsumed build parameters.
	QueryParamsStrict QueryParamsMode = "strict"

	// QueryParamsLoose accepts and passes through everything.
	QueryParamsLoose QueryParamsMode = "loose"
)

// MatchOptions configure MatchPath.
type MatchOptions struct {
	// StrictTrailingSlash requires trailing slashes to match exactly.
	StrictTrailingSlash bool

	// CaseSensitive makes static segments case sensitive.
	CaseSensitive bool

	QueryParamsMode   QueryParamsMode
	URLParamsEncoding Encoding

	// RewritePath rebuilds the matched state's path from the route
	// templates instead of echoing the input path.
	RewritePath bool
}

// BuildOptions configure BuildPath.
type BuildOptions struct {
	TrailingSlashMode TrailingSlashMode
	QueryParamsMode   QueryParamsMode
	URLParamsEncoding Encoding
}
