// Package generator wires the ontodoc pipeline together.
//
// A run loads the prefix registry and the primary ontology, aggregates its
// classes and properties with resolved labels, renders them through the
// template and writes the result to stdout or a file. Failures to load the
// registry or the ontology end the run; vocabularies that cannot be fetched
// only degrade labels.
//
// Watch keeps the aggregated data and re-renders whenever a template file
// changes, so template authors do not pay for fetching on every edit.
package generator
