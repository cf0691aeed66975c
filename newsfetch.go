// Package newsfetch fetches web pages for a list of URLs, extracts
// article-like content (title, author, publish date, body text), and writes
// the results to several output formats.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, excelize/).
package newsfetch
