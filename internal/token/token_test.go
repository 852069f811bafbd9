package token

import "testing"

func TestType_StringUsesRegisteredName(t *testing.T) {
	if got := DEF.String(); got != "def" {
		t.Errorf("expected def, got %q", got)
	}
	if got := ARROW.String(); got != "->" {
		t.Errorf("expected ->, got %q", got)
	}
}

func TestType_StringUnknownForUnregisteredType(t *testing.T) {
	var unregistered Type = 9999
	if got := unregistered.String(); got != "UNKNOWN" {
		t.Errorf("expected UNKNOWN for an unregistered type, got %q", got)
	}
}

func TestKeywords_ContainsEveryReservedWord(t *testing.T) {
	reserved := []string{
		"def", "defp", "do", "end", "fn", "if", "then", "else", "unless",
		"case", "of", "cond", "when", "and", "or", "not", "true", "false",
		"nil", "receive",
	}
	for _, word := range reserved {
		if _, ok := Keywords[word]; !ok {
			t.Errorf("expected %q among the reserved keywords", word)
		}
	}
}

func TestKeywords_PlainIdentifierIsNotAKeyword(t *testing.T) {
	if _, ok := Keywords["file_write"]; ok {
		t.Errorf("expected an ordinary identifier not to be registered as a keyword")
	}
}

func TestPosition_StringIsLineColonColumn(t *testing.T) {
	p := Position{Line: 3, Column: 7}
	if got := p.String(); got != "3:7" {
		t.Errorf("expected 3:7, got %q", got)
	}
}

func TestToken_StringIncludesTypeLexemeAndPosition(t *testing.T) {
	tok := Token{Type: IDENT, Lexeme: "x", Pos: Position{Line: 1, Column: 1}}
	want := "IDENT(x)@1:1"
	if got := tok.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
