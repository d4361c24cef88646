// Package fetch retrieves ontology and prefix documents over HTTP.
//
// The client follows up to MaxRedirects redirects, including the
// 303 See Other convention used by purl.org and schema.org, and keeps the
// Accept header on every hop. Certificate verification is skipped by default
// because well-known vocabulary hosts are not always configured correctly.
//
// Transient failures (connection errors, 5xx responses) are retried with
// exponential backoff. Every failure is classified as errs.ErrNetwork, and
// malformed URLs as errs.ErrValidation before any request is made.
package fetch
