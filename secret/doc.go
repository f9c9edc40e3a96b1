// Package secret resolves credentials referenced from the snipfmt config.
//
// Config values go through strict environment expansion (see
// ExpandEnvStrict) and then secret references of the form
//
//	secretref:<provider>:<ref>
//
// are replaced by the provider's value. Two providers are built in:
//
//	secretref:env:REDIS_PASSWORD        value of $REDIS_PASSWORD
//	secretref:file:/run/secrets/jwt     contents of the file, trailing newline trimmed
//
// A reference may be the whole value or appear inline ("Bearer secretref:env:TOKEN").
package secret
