// Package keyfile reads and writes sessions as YAML documents.
package keyfile

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/subcrack/internal/model"
)

type document struct {
	Name             string            `yaml:"name,omitempty"`
	IgnoreWhitespace bool              `yaml:"ignore-whitespace,omitempty"`
	Default          string            `yaml:"default,omitempty"`
	Key              map[string]string `yaml:"key"`
	CipherText       string            `yaml:"ciphertext,omitempty"`
}

// Encode writes a session as YAML.
func Encode(w io.Writer, session model.Session) error {
	doc := document{
		Name:             session.Name,
		IgnoreWhitespace: session.IgnoreWhitespace,
		Key:              make(map[string]string, len(session.Key)),
		CipherText:       session.CipherText,
	}
	if session.DefaultChar != 0 {
		doc.Default = string(session.DefaultChar)
	}
	for c, p := range session.Key {
		doc.Key[string(c)] = string(p)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode key file: %w", err)
	}
	return enc.Close()
}

// Decode reads a session from YAML. Only the key is required.
func Decode(r io.Reader) (model.Session, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return model.Session{}, fmt.Errorf("decode key file: empty document")
		}
		return model.Session{}, fmt.Errorf("decode key file: %w", err)
	}

	session := model.Session{
		Name:             doc.Name,
		IgnoreWhitespace: doc.IgnoreWhitespace,
		CipherText:       doc.CipherText,
		Key:              make(map[rune]rune, len(doc.Key)),
	}
	if doc.Default != "" {
		r, err := singleRune(doc.Default)
		if err != nil {
			return model.Session{}, fmt.Errorf("default: %w", err)
		}
		session.DefaultChar = r
	}
	for c, p := range doc.Key {
		cr, err := singleRune(c)
		if err != nil {
			return model.Session{}, fmt.Errorf("key %q: %w", c, err)
		}
		pr, err := singleRune(p)
		if err != nil {
			return model.Session{}, fmt.Errorf("key %q: %w", c, err)
		}
		session.Key[cr] = pr
	}
	return session, nil
}

// Load decodes the key file at path.
func Load(path string) (model.Session, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Session{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only key file.
			_ = cerr
		}
	}()
	return Decode(file)
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%q is not a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
