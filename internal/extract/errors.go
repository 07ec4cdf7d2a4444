package extract

import "errors"

// ErrInvariant marks a construct the extractor's recognizers do not
// understand: an unexpected grammar shape, type expression, token
// spelling, or feature-predicate combination. It means the crawled
// source no longer matches the assumptions this tool was built against.
// The violation aborts the run with no partial output; it is never
// recovered or retried.
var ErrInvariant = errors.New("extractor invariant violated")
