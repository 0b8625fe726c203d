// Package cache persists the ingested entity store between runs so derived
// pages can be rebuilt without re-reading the export.
//
// Two backends exist: a directory of JSON files and a single SQLite
// database. Both keep insertion order and store integer keys explicitly;
// a key that does not parse back to the record's id fails the load.
package cache
