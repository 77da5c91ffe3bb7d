// Package docx implements the driven ports that touch WordprocessingML
// packages: the converter that reads a DOCX into the domain model, the
// reconstructor that writes a model back out, and the version allocator
// that picks .vN output paths.
//
// Only the main document body is interpreted. All other package parts
// (styles, numbering, media, settings) are carried over verbatim on
// reconstruction.
package docx
