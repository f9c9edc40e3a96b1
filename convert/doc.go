// Package convert detects whether text is JSON or YAML and formats, parses
// or converts it between the two, memoizing results in a cache.
//
// Detection always tries JSON before YAML, so anything a JSON parser
// accepts (including bare scalars such as 5, true or "x") is JSON, and
// plain words such as hello are YAML. Empty or comment-only input is
// neither.
//
// Key order is preserved end to end: documents are held as ordered
// *yaml.Node trees rather than Go maps.
package convert
