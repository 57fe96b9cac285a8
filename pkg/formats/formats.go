// Package formats provides codecs for tessellated patch buffers and stitched
// mesh output.
package formats

// Note: the PTCH patch buffer container is implemented in patchbuf.go
// Note: Wavefront OBJ output is implemented in obj.go
