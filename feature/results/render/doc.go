// Package render lays out appointment results as PDF reports.
//
// The report is a single A4 page (more when values are long) with the title,
// the labelled fields returned by Fields in order, and a closing footer.
// Values are wrapped, never truncated. Text is written with the core
// Helvetica font through the cp1252 translator.
package render
