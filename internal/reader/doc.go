// Package reader is the decode boundary layer: it turns caller-supplied
// pixel sources (compressed image bytes or raw pixmaps) into canonical
// images, normalizes request options, invokes the barcode engine exactly
// once per request, and marshals the outcome into plain records in which
// failures are data rather than errors.
package reader
