// Package files persists file records and, when no external content store is
// configured, their payloads.
//
// Listings never load the content column; Get loads it on request.
package files
