// Package snippet stores and serves the configuration snippets shown by
// snipfmt: Dockerfiles, Compose files, Kubernetes manifests, Ansible
// playbooks, shell scripts and crontabs.
//
// A Repository lists and reads snippets by file name. FileRepository keeps
// them as plain files in one directory. The language of a snippet, used for
// syntax highlighting, is derived from its extension. Searcher runs a cached
// case-insensitive search over every snippet, and Catalog groups files into
// the categories that get their own page.
package snippet
