package ontology

import "strings"

// TermKind distinguishes IRIs, blank nodes and literals.
type TermKind int

// Term kinds.
const (
	KindIRI TermKind = iota
	KindBlank
	KindLiteral
)

// String returns the string representation of TermKind
func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is an RDF term. Terms are comparable and can be used as map keys.
type Term struct {
	Kind TermKind
	// Value is the IRI, the blank node label, or the literal's lexical form.
	Value    string
	Language string
	Datatype string
}

// IRI returns an IRI term.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Blank returns a blank node term.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// Literal returns a literal term with an optional language tag.
func Literal(value, language string) Term {
	return Term{Kind: KindLiteral, Value: value, Language: language}
}

// TypedLiteral returns a literal term with a datatype IRI.
func TypedLiteral(value, datatype string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool {
	return t.Kind == KindLiteral
}

// String returns the N-Triples form of t.
func (t Term) String() string {
	switch t.Kind {
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := "\"" + escapeString(t.Value) + "\""
		if t.Language != "" {
			return s + "@" + t.Language
		}
		if t.Datatype != "" {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	default:
		return "<" + t.Value + ">"
	}
}

// Triple is an immutable subject/predicate/object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// String returns the N-Triples form of t.
func (t Triple) String() string {
	var sb strings.Builder
	sb.WriteString(t.Subject.String())
	sb.WriteByte(' ')
	sb.WriteString(t.Predicate.String())
	sb.WriteByte(' ')
	sb.WriteString(t.Object.String())
	sb.WriteString(" .")
	return sb.String()
}

// Pattern selects triples. Nil fields match anything.
type Pattern struct {
	Subject   *Term
	Predicate *Term
	Object    *Term
}

// Matches reports whether t satisfies p.
func (p Pattern) Matches(t Triple) bool {
	if p.Subject != nil && *p.Subject != t.Subject {
		return false
	}
	if p.Predicate != nil && *p.Predicate != t.Predicate {
		return false
	}
	if p.Object != nil && *p.Object != t.Object {
		return false
	}
	return true
}

// escapeString escapes special characters for N-Triples serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
