// Package models defines the song entities shared by the loader, the aggregation layer and every front-end.
//
//   - [Song] : one row of the source table, with its parsed release date and derived release year
//   - [DisplayRow] : the explorer's projection of a Song in the fixed display column order
//
// Songs are values; nothing in the application mutates a Song after the loader builds it.
package models
