package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/patchstitch/pkg/stitch"
)

// Patch buffer errors.
var (
	ErrInvalidPatchMagic       = errors.New("invalid patch file magic: expected 'PTCH'")
	ErrUnsupportedPatchVersion = errors.New("unsupported patch file version")
	ErrTruncatedPatchData      = errors.New("truncated patch data")
	ErrInvalidLayout           = errors.New("invalid patch buffer layout")
)

const (
	patchMagic      = "PTCH"
	patchHeaderSize = 4 + 2 + 4*4 // magic, version, count, stride, offsets
	cornersPerPatch = 4
)

// PatchVersion represents the patch file version.
type PatchVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v PatchVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CurrentPatchVersion is the version written by EncodePatchFile.
var CurrentPatchVersion = PatchVersion{Major: 1, Minor: 0}

// Layout describes one interleaved corner record. All values are in bytes;
// positions are three float32s, UVs two.
type Layout struct {
	Stride         int
	PositionOffset int
	UVOffset       int
}

// Standard corner layouts.
var (
	// DefaultLayout is tightly packed: position then UV.
	DefaultLayout = Layout{Stride: 20, PositionOffset: 0, UVOffset: 12}
	// GPULayout matches a std430 struct of two vec4s.
	GPULayout = Layout{Stride: 32, PositionOffset: 0, UVOffset: 16}
)

// LayoutByName maps "packed" (or "") and "gpu" to their layouts.
func LayoutByName(name string) (Layout, error) {
	switch name {
	case "", "packed":
		return DefaultLayout, nil
	case "gpu":
		return GPULayout, nil
	}
	return Layout{}, fmt.Errorf("%w: unknown layout %q", ErrInvalidLayout, name)
}

// IsPatchFile reports whether data starts with the PTCH magic.
func IsPatchFile(data []byte) bool {
	return len(data) >= len(patchMagic) && string(data[:len(patchMagic)]) == patchMagic
}

// Validate checks that both attributes fit inside the stride.
func (l Layout) Validate() error {
	if l.Stride <= 0 || l.PositionOffset < 0 || l.UVOffset < 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidLayout, l)
	}
	if l.PositionOffset+12 > l.Stride || l.UVOffset+8 > l.Stride {
		return fmt.Errorf("%w: attributes exceed stride %d", ErrInvalidLayout, l.Stride)
	}
	return nil
}

// PatchSize returns the number of bytes per patch.
func (l Layout) PatchSize() int {
	return l.Stride * cornersPerPatch
}

// DecodePatches decodes a headerless buffer read back from the tessellation
// pass. The buffer must hold a whole number of patches.
func DecodePatches(raw []byte, layout Layout) ([]stitch.Patch, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	size := layout.PatchSize()
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrTruncatedPatchData, len(raw), size)
	}

	patches := make([]stitch.Patch, len(raw)/size)
	for i := range patches {
		for c := range cornersPerPatch {
			rec := raw[i*size+c*layout.Stride:]
			pos := mgl32.Vec3{
				readFloat(rec, layout.PositionOffset),
				readFloat(rec, layout.PositionOffset+4),
				readFloat(rec, layout.PositionOffset+8),
			}
			uv := mgl32.Vec2{
				readFloat(rec, layout.UVOffset),
				readFloat(rec, layout.UVOffset+4),
			}
			patches[i][c] = stitch.NewVertex(pos, uv)
		}
	}
	return patches, nil
}

// EncodePatches is the inverse of DecodePatches. Padding bytes are zero.
func EncodePatches(patches []stitch.Patch, layout Layout) ([]byte, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	size := layout.PatchSize()
	raw := make([]byte, len(patches)*size)
	for i := range patches {
		for c, v := range patches[i] {
			rec := raw[i*size+c*layout.Stride:]
			for k := range 3 {
				writeFloat(rec, layout.PositionOffset+4*k, v.Position[k])
			}
			for k := range 2 {
				writeFloat(rec, layout.UVOffset+4*k, v.UV[k])
			}
		}
	}
	return raw, nil
}

func readFloat(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func writeFloat(b []byte, off int, f float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(f))
}

// PatchFile is a patch buffer with the layout it was stored in.
type PatchFile struct {
	Version PatchVersion
	Layout  Layout
	Patches []stitch.Patch
}

// ParsePatchFile parses a PTCH container from raw bytes.
func ParsePatchFile(data []byte) (*PatchFile, error) {
	if len(data) < patchHeaderSize {
		return nil, ErrTruncatedPatchData
	}

	// Check magic "PTCH"
	if string(data[0:4]) != patchMagic {
		return nil, ErrInvalidPatchMagic
	}

	version := PatchVersion{
		Major: data[4],
		Minor: data[5],
	}
	if version.Major != CurrentPatchVersion.Major {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPatchVersion, version)
	}

	r := bytes.NewReader(data[6:patchHeaderSize])

	var count, stride, posOffset, uvOffset uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading patch count", ErrTruncatedPatchData)
	}
	if err := binary.Read(r, binary.LittleEndian, &stride); err != nil {
		return nil, fmt.Errorf("%w: reading stride", ErrTruncatedPatchData)
	}
	if err := binary.Read(r, binary.LittleEndian, &posOffset); err != nil {
		return nil, fmt.Errorf("%w: reading position offset", ErrTruncatedPatchData)
	}
	if err := binary.Read(r, binary.LittleEndian, &uvOffset); err != nil {
		return nil, fmt.Errorf("%w: reading uv offset", ErrTruncatedPatchData)
	}

	layout := Layout{
		Stride:         int(stride),
		PositionOffset: int(posOffset),
		UVOffset:       int(uvOffset),
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	body := data[patchHeaderSize:]
	need := uint64(count) * uint64(layout.PatchSize())
	if uint64(len(body)) < need {
		return nil, fmt.Errorf("%w: %d patches need %d bytes, have %d", ErrTruncatedPatchData, count, need, len(body))
	}

	patches, err := DecodePatches(body[:need], layout)
	if err != nil {
		return nil, err
	}

	return &PatchFile{
		Version: version,
		Layout:  layout,
		Patches: patches,
	}, nil
}

// LoadPatchFile reads and parses a PTCH file.
func LoadPatchFile(path string) (*PatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pf, err := ParsePatchFile(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return pf, nil
}

// EncodePatchFile serializes patches into a PTCH container.
func EncodePatchFile(patches []stitch.Patch, layout Layout) ([]byte, error) {
	raw, err := EncodePatches(patches, layout)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	buf.Grow(patchHeaderSize + len(raw))
	buf.WriteString(patchMagic)
	buf.WriteByte(CurrentPatchVersion.Major)
	buf.WriteByte(CurrentPatchVersion.Minor)
	binary.Write(buf, binary.LittleEndian, uint32(len(patches)))
	binary.Write(buf, binary.LittleEndian, uint32(layout.Stride))
	binary.Write(buf, binary.LittleEndian, uint32(layout.PositionOffset))
	binary.Write(buf, binary.LittleEndian, uint32(layout.UVOffset))
	buf.Write(raw)

	return buf.Bytes(), nil
}

// WritePatchFile encodes patches and writes them to path.
func WritePatchFile(path string, patches []stitch.Patch, layout Layout) error {
	data, err := EncodePatchFile(patches, layout)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
