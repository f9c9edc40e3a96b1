// Package cli implements the snipfmt command line.
//
//	snipfmt serve                    run the web application
//	snipfmt format|parse|convert     transform a file or stdin
//	snipfmt detect                   print json or yaml
//	snipfmt snippets list            list the snippet directory
//	snipfmt version
package cli
