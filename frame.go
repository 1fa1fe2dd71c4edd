package webviewruntime

// PixelFormat identifies the byte order of a backend's pixel output.
type PixelFormat uint8

const (
	// RGBA byte order.
	RGBA PixelFormat = iota
	// BGRA byte order. Converted to RGBA on Frame construction.
	BGRA
)

// Frame is a CPU-rendered view snapshot. Pixels are straight-alpha RGBA,
// 4 bytes per pixel, row-major.
type Frame struct {
	Width  uint32
	Height uint32
	Pixels []byte
}

// NewFrame builds a frame from raw pixels, converting BGRA input to RGBA
// in place. Pixel length must be a multiple of 4.
func NewFrame(pixels []byte, format PixelFormat, width, height uint32) *Frame {
	if format == BGRA {
		for i := 0; i+3 < len(pixels); i += 4 {
			pixels[i], pixels[i+2] = pixels[i+2], pixels[i]
		}
	}
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// BlankFrame returns an all-white frame of the given dimensions.
func BlankFrame(width, height uint32) *Frame {
	pixels := make([]byte, int(width)*int(height)*4)
	for i := range pixels {
		pixels[i] = 255
	}
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}
