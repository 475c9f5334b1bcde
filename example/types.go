package main

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/go-extend/extend"
)

// Document is an extensible host, any plugin value computed from it is
// cached on the instance for its lifetime.
type Document struct {
	extend.ExtensionStore

	Title string
	Body  string
}

// WordCount produces the number of words in the document body.
type WordCount struct{}

func (WordCount) Eval(d *Document) (int, bool) {
	return len(strings.Fields(d.Body)), true
}

// Checksum produces the hex encoded sha256 sum of the document body.
type Checksum struct{}

func (Checksum) Eval(d *Document) (string, bool) {
	sum := sha256.Sum256([]byte(d.Body))
	return hex.EncodeToString(sum[:]), true
}

// Language guesses the language of the document, documents that are
// mostly non letter content have no derivable language.
type Language struct{}

func (Language) Eval(d *Document) (string, bool) {
	letters := 0
	for _, r := range d.Body {
		if unicode.IsLetter(r) {
			letters++
		}
	}

	if letters*2 < len(d.Body) {
		return "", false
	}

	return "en", true
}
