// Package normalisers holds the stages that turn a PDF file into clean text.
//
// The pdf subpackage implements the driven.Extractor port with a pure Go
// reader and a pdftotext backend. The whitespace subpackage collapses the
// extracted text into a single line of single-spaced words, the form the
// chunker expects.
package normalisers
