// Package formats provides parsers for the text geometry formats read by the viewer.
package formats

// Note: OBJ (Wavefront geometry, triangles only) is implemented in obj.go
// Note: MTL (Wavefront material library) is implemented in mtl.go
