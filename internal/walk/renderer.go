package walk

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const (
	MaxMarkerRender = 4096 // point sprites per frame
	MaxLineRender   = 8192 // line vertices per frame
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// Renderer draws the top-down walkthrough view: floor-plan lines, the
// active route, and the agent's body markers.
type Renderer struct {
	// Marker (point sprite) program.
	markerProg uint32
	markerVAO  uint32
	markerVBO  uint32

	mkUCamera     int32
	mkUZoom       int32
	mkUResolution int32

	// Line program.
	lineProg uint32
	lineVAO  uint32
	lineVBO  uint32

	lnUCamera     int32
	lnUZoom       int32
	lnUResolution int32

	// Reusable vertex buffers to avoid per-frame heap allocations.
	markerBuf []float32
	lineBuf   []float32
}

func NewRenderer() (*Renderer, error) {
	markerProg, err := linkProgram(markerVertSrc, markerFragSrc)
	if err != nil {
		return nil, fmt.Errorf("marker program: %w", err)
	}
	lineProg, err := linkProgram(lineVertSrc, lineFragSrc)
	if err != nil {
		gl.DeleteProgram(markerProg)
		return nil, fmt.Errorf("line program: %w", err)
	}

	r := &Renderer{
		markerProg: markerProg,
		lineProg:   lineProg,
	}

	// Marker VAO/VBO: streaming buffer of point sprites.
	// Each marker: 7 floats (x, z, size, r, g, b, a).
	var mVAO, mVBO uint32
	gl.GenVertexArrays(1, &mVAO)
	gl.GenBuffers(1, &mVBO)
	gl.BindVertexArray(mVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, mVBO)

	mStride := int32(7 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, MaxMarkerRender*int(mStride), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, mStride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, mStride, glOffset(2*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, mStride, glOffset(3*4))
	r.markerVAO = mVAO
	r.markerVBO = mVBO

	gl.UseProgram(markerProg)
	r.mkUCamera = gl.GetUniformLocation(markerProg, gl.Str("uCamera\x00"))
	r.mkUZoom = gl.GetUniformLocation(markerProg, gl.Str("uZoom\x00"))
	r.mkUResolution = gl.GetUniformLocation(markerProg, gl.Str("uResolution\x00"))

	// Line VAO/VBO: streaming buffer of line-list vertices.
	// Each vertex: 6 floats (x, z, r, g, b, a).
	var lVAO, lVBO uint32
	gl.GenVertexArrays(1, &lVAO)
	gl.GenBuffers(1, &lVBO)
	gl.BindVertexArray(lVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, lVBO)

	lStride := int32(6 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, MaxLineRender*int(lStride), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, lStride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, lStride, glOffset(2*4))
	r.lineVAO = lVAO
	r.lineVBO = lVBO

	gl.UseProgram(lineProg)
	r.lnUCamera = gl.GetUniformLocation(lineProg, gl.Str("uCamera\x00"))
	r.lnUZoom = gl.GetUniformLocation(lineProg, gl.Str("uZoom\x00"))
	r.lnUResolution = gl.GetUniformLocation(lineProg, gl.Str("uResolution\x00"))

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.markerVBO, r.lineVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.markerVAO, r.lineVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.markerProg, r.lineProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

// BeginFrame clears the framebuffer and loads this frame's view uniforms
// into both programs. camX/camZ is the top-down view centre in world space.
func (r *Renderer) BeginFrame(camX, camZ, zoom float64, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(r.lineProg)
	gl.Uniform2f(r.lnUCamera, float32(camX), float32(camZ))
	gl.Uniform1f(r.lnUZoom, float32(zoom))
	gl.Uniform2f(r.lnUResolution, float32(fbW), float32(fbH))

	gl.UseProgram(r.markerProg)
	gl.Uniform2f(r.mkUCamera, float32(camX), float32(camZ))
	gl.Uniform1f(r.mkUZoom, float32(zoom))
	gl.Uniform2f(r.mkUResolution, float32(fbW), float32(fbH))
}

// DrawLines submits a line list: pairs of 6-float vertices (x, z, r, g, b, a).
func (r *Renderer) DrawLines(buf []float32) {
	n := len(buf) / 6
	if n < 2 {
		return
	}
	if n > MaxLineRender {
		n = MaxLineRender
		buf = buf[:n*6]
	}
	gl.UseProgram(r.lineProg)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, n*6*4, gl.Ptr(buf), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(n))
}

// DrawMarkers submits point sprites: 7 floats each (x, z, size, r, g, b, a).
func (r *Renderer) DrawMarkers(buf []float32) {
	n := len(buf) / 7
	if n < 1 {
		return
	}
	if n > MaxMarkerRender {
		n = MaxMarkerRender
		buf = buf[:n*7]
	}
	gl.UseProgram(r.markerProg)
	gl.BindVertexArray(r.markerVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.markerVBO)
	gl.BufferData(gl.ARRAY_BUFFER, n*7*4, gl.Ptr(buf), gl.STREAM_DRAW)
	gl.DrawArrays(gl.POINTS, 0, int32(n))
}
