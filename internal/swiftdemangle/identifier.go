package swiftdemangle

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// opCharTable maps the letters of an operator identifier to operator characters.
const opCharTable = "& @/= >    <*!|+?%-~   ^ ."

func isWordStart(c byte) bool {
	return !isDigit(c) && c != '_' && c != 0
}

func isWordEnd(c, prev byte) bool {
	if c == '_' || c == 0 {
		return true
	}
	return !isUpperLetter(prev) && isUpperLetter(c)
}

// identifierText collects the pieces of an identifier. A single piece is kept
// as is; several pieces are concatenated in the factory's text arena.
type identifierText struct {
	first  string
	pieces int
	tb     textBuilder
}

func (t *identifierText) append(s string) {
	switch t.pieces {
	case 0:
		t.first = s
	case 1:
		t.tb.appendString(t.first)
		t.tb.appendString(s)
	default:
		t.tb.appendString(s)
	}
	t.pieces++
}

func (t *identifierText) String() string {
	if t.pieces == 1 {
		return t.first
	}
	return t.tb.String()
}

func (t *identifierText) empty() bool {
	return t.pieces == 0 || (t.pieces == 1 && t.first == "")
}

// demangleIdentifier reads a length-prefixed identifier, possibly built from
// word substitutions or punycode chunks.
func (d *Demangler) demangleIdentifier() *Node {
	hasWordSubsts := false
	isPunycoded := false
	c := d.peekChar()
	if !isDigit(c) {
		return nil
	}
	if c == '0' {
		d.pos++
		if d.peekChar() == '0' {
			d.pos++
			isPunycoded = true
		} else {
			hasWordSubsts = true
		}
	}

	ident := identifierText{tb: d.f.newTextBuilder()}
	for {
		for hasWordSubsts && isLetter(d.peekChar()) {
			c := d.nextChar()
			var wordIdx int
			if isLowerLetter(c) {
				wordIdx = int(c - 'a')
			} else {
				wordIdx = int(c - 'A')
				hasWordSubsts = false
			}
			if wordIdx >= d.numWords {
				if debugEnabled {
					debugf("demangleIdentifier: word %d out of range (have %d)\n", wordIdx, d.numWords)
				}
				return nil
			}
			ident.append(d.words[wordIdx])
		}
		if d.nextIf('0') {
			break
		}
		numChars := d.demangleNatural()
		if numChars <= 0 {
			return nil
		}
		if isPunycoded {
			d.nextIf('_')
		}
		if d.pos+numChars > len(d.text) {
			return nil
		}
		slice := d.text[d.pos : d.pos+numChars]
		if isPunycoded {
			decoded, err := decodeSwiftPunycode(slice)
			if err != nil {
				return d.fail(fmt.Errorf("%w: punycode identifier at position %d: %v", ErrMalformed, d.pos, err))
			}
			ident.append(d.f.text.CopyString(decoded))
		} else {
			ident.append(slice)
			d.recordWords(slice)
		}
		d.pos += numChars
		if !hasWordSubsts {
			break
		}
	}

	if ident.empty() {
		return nil
	}
	n := d.createNodeWithText(KindIdentifier, ident.String())
	d.addSubstitution(n)
	return n
}

// recordWords splits a literal identifier chunk into words of at least two
// characters. Words past the table capacity are dropped.
func (d *Demangler) recordWords(lit string) {
	wordStart := -1
	for i := 0; i <= len(lit); i++ {
		var c byte
		if i < len(lit) {
			c = lit[i]
		}
		if wordStart >= 0 && isWordEnd(c, lit[i-1]) {
			if i-wordStart >= 2 && d.numWords < maxNumWords {
				d.words[d.numWords] = lit[wordStart:i]
				d.numWords++
			}
			wordStart = -1
		}
		if wordStart < 0 && isWordStart(c) {
			wordStart = i
		}
	}
}

// decodeSwiftPunycode decodes the punycode variant used in symbol names: the
// delimiter is '_' and the digits 26-35 are spelled 'A'-'J'.
func decodeSwiftPunycode(encoded string) (string, error) {
	if encoded == "" {
		return "", fmt.Errorf("empty punycode payload")
	}
	basic, digits := "", encoded
	if i := strings.LastIndexByte(encoded, '_'); i >= 0 {
		basic, digits = encoded[:i], encoded[i+1:]
	}
	var sb strings.Builder
	sb.Grow(len(encoded) + 5)
	sb.WriteString("xn--")
	if basic != "" {
		sb.WriteString(basic)
		sb.WriteByte('-')
	}
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		switch {
		case c >= 'A' && c <= 'J':
			sb.WriteByte('0' + (c - 'A'))
		case c >= 'a' && c <= 'z':
			sb.WriteByte(c)
		default:
			return "", fmt.Errorf("invalid punycode digit %q", c)
		}
	}
	decoded, err := idna.Punycode.ToUnicode(sb.String())
	if err != nil {
		return "", err
	}
	return decoded, nil
}

func (d *Demangler) demangleOperatorIdentifier() *Node {
	ident := d.popNodeKind(KindIdentifier)
	if ident == nil {
		return nil
	}
	tb := d.f.newTextBuilder()
	text := ident.Text()
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 0x80 {
			tb.appendByte(c)
			continue
		}
		if !isLowerLetter(c) {
			return nil
		}
		o := opCharTable[c-'a']
		if o == ' ' {
			return nil
		}
		tb.appendByte(o)
	}
	switch d.nextChar() {
	case 'i':
		return d.createNodeWithText(KindInfixOperator, tb.String())
	case 'p':
		return d.createNodeWithText(KindPrefixOperator, tb.String())
	case 'P':
		return d.createNodeWithText(KindPostfixOperator, tb.String())
	}
	return nil
}

func (d *Demangler) demangleLocalIdentifier() *Node {
	if d.nextIf('L') {
		discriminator := d.popNodeKind(KindIdentifier)
		name := d.popNodeIf(isDeclName)
		return d.createWithChildren(KindPrivateDeclName, discriminator, name)
	}
	if d.nextIf('l') {
		discriminator := d.popNodeKind(KindIdentifier)
		return d.createWithChild(KindPrivateDeclName, discriminator)
	}
	discriminator := d.demangleIndexAsNode()
	name := d.popNodeIf(isDeclName)
	return d.createWithChildren(KindLocalDeclName, discriminator, name)
}
