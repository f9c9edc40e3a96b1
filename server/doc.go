// Package server is the snipfmt HTTP interface.
//
// It serves the snippet catalog pages, the YAML/JSON formatter page and its
// JSON API:
//
//	POST /api/format   input=<text>  ->  {"output": ..., "mode": ...}
//	POST /api/parse    input=<text>  ->  {"output": ..., "mode": ...}
//	POST /api/convert  input=<text>  ->  {"output": ..., "mode": ...}
//
// API calls always answer 200; failures carry {"error": ...} instead. The
// input may be sent urlencoded, as multipart form data or as a JSON body
// {"input": ...}.
package server
