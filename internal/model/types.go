// Package model defines shared data structures.
package model

import "time"

// Session is a named, resumable solve of one cipher text.
type Session struct {
	ID               int64
	Name             string
	CipherText       string
	IgnoreWhitespace bool
	// DefaultChar fills unmapped cipher runes; zero means the package default.
	DefaultChar rune
	// Key maps cipher runes to plain runes.
	Key       map[rune]rune
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionSummary describes a session in listings.
type SessionSummary struct {
	ID        int64
	Name      string
	Pairs     int
	Length    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AnalyzeConfig defines options for the analyze command.
type AnalyzeConfig struct {
	IgnoreWhitespace bool
	IgnoreCase       bool
	NFC              bool
	Top              int
	Sections         []string
	Histogram        bool
	JSON             bool
	Compare          bool
}

// ReferenceConfig selects the letter ranking used for suggestions.
type ReferenceConfig struct {
	Lang     string
	Corpus   string
	WordList string
}
