package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermString(t *testing.T) {
	tests := []struct {
		name string
		term Term
		want string
	}{
		{"iri", IRI("http://schema.org/birthDate"), "<http://schema.org/birthDate>"},
		{"blank", Blank("b0"), "_:b0"},
		{"plain literal", Literal("Activity", ""), `"Activity"`},
		{"language literal", Literal("Activité", "fr"), `"Activité"@fr`},
		{"typed literal", TypedLiteral("42", "http://www.w3.org/2001/XMLSchema#integer"), `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"escaped literal", Literal("say \"hi\"\n", ""), `"say \"hi\"\n"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.term.String())
		})
	}
}

func TestTripleString(t *testing.T) {
	triple := Triple{
		Subject:   IRI("http://example.org/a"),
		Predicate: IRI("http://example.org/b"),
		Object:    Literal("c", "en"),
	}
	assert.Equal(t, `<http://example.org/a> <http://example.org/b> "c"@en .`, triple.String())
}

func TestPatternMatches(t *testing.T) {
	triple := Triple{
		Subject:   IRI("http://example.org/a"),
		Predicate: IRI("http://example.org/b"),
		Object:    Literal("c", ""),
	}
	a := IRI("http://example.org/a")
	other := IRI("http://example.org/other")
	c := Literal("c", "")
	cEn := Literal("c", "en")

	assert.True(t, Pattern{}.Matches(triple))
	assert.True(t, Pattern{Subject: &a, Object: &c}.Matches(triple))
	assert.False(t, Pattern{Subject: &other}.Matches(triple))
	assert.False(t, Pattern{Object: &cEn}.Matches(triple))
}

func TestTermKindString(t *testing.T) {
	assert.Equal(t, "iri", KindIRI.String())
	assert.Equal(t, "blank", KindBlank.String())
	assert.Equal(t, "literal", KindLiteral.String())
	assert.Equal(t, "unknown", TermKind(9).String())
}
