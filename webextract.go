// Package webextract extracts structured information from web pages.
// A page is rendered with browser automation, cleaned down to plain text,
// and handed to a language model together with a natural language
// instruction describing what to extract. Answers are cached per
// (content, instruction) fingerprint and model calls are bounded by a
// sliding-window quota.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, gemini/, goquery/, sqlite/).
package webextract
