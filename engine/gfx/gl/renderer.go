// Package glbackend is the OpenGL graphics context behind the GLFW surface:
// clear, viewport and flat-color 2D primitives in pixel coordinates.
package glbackend

import (
	"fmt"
	"image"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/framekit/engine/colors"
	"github.com/hubastard/framekit/engine/core"
	"github.com/hubastard/framekit/engine/text"
)

// Renderer owns the GL objects of one context generation. It must be used on
// the goroutine that made the context current.
type Renderer struct {
	flat     uint32
	textured uint32
	vao      uint32
	vbo      uint32
	glyphs   uint32

	uFlatViewport, uFlatColor int32
	uTexViewport, uTexColor   int32

	w, h     int
	released bool
}

func New(width, height int) (*Renderer, error) {
	r := &Renderer{}
	if err := r.init(); err != nil {
		_ = r.Release()
		return nil, err
	}
	r.Viewport(width, height)
	return r, nil
}

func (r *Renderer) init() error {
	var err error
	if r.flat, err = makeProgram(vertexSource, flatFragmentSource); err != nil {
		return err
	}
	if r.textured, err = makeProgram(vertexSource, textFragmentSource); err != nil {
		return err
	}
	r.uFlatViewport = gl.GetUniformLocation(r.flat, gl.Str("uViewport\x00"))
	r.uFlatColor = gl.GetUniformLocation(r.flat, gl.Str("uColor\x00"))
	r.uTexViewport = gl.GetUniformLocation(r.textured, gl.Str("uViewport\x00"))
	r.uTexColor = gl.GetUniformLocation(r.textured, gl.Str("uColor\x00"))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*4*4, nil, gl.DYNAMIC_DRAW)

	// layout(location = 0) in vec2 aPos;
	// layout(location = 1) in vec2 aUV;
	const stride = 4 * 4
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(0)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(2*4)))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.GenTextures(1, &r.glyphs)
	gl.BindTexture(gl.TEXTURE_2D, r.glyphs)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return nil
}

// Release deletes the GL objects. Further drawing is ignored.
func (r *Renderer) Release() error {
	if r.released {
		return nil
	}
	r.released = true
	if r.glyphs != 0 {
		gl.DeleteTextures(1, &r.glyphs)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.flat != 0 {
		gl.DeleteProgram(r.flat)
	}
	if r.textured != 0 {
		gl.DeleteProgram(r.textured)
	}
	return nil
}

func (r *Renderer) Viewport(w, h int) {
	r.w, r.h = w, h
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *Renderer) Clear(c colors.Color) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (r *Renderer) FillRect(rc core.Rect, c colors.Color) {
	r.drawFlat(gl.TRIANGLE_FAN, rc, c)
}

func (r *Renderer) StrokeRect(rc core.Rect, c colors.Color) {
	r.drawFlat(gl.LINE_LOOP, rc, c)
}

func (r *Renderer) drawFlat(mode uint32, rc core.Rect, c colors.Color) {
	if r.released {
		return
	}
	r.upload(rc)
	gl.UseProgram(r.flat)
	gl.Uniform2f(r.uFlatViewport, float32(r.w), float32(r.h))
	gl.Uniform4f(r.uFlatColor, c[0], c[1], c[2], c[3])
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(mode, 0, 4)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// DrawText draws s with its top-left corner at p.
func (r *Renderer) DrawText(p core.Point, s string, c colors.Color) {
	if r.released || s == "" {
		return
	}
	mask := text.Rasterize(s)
	b := mask.Bounds()

	gl.BindTexture(gl.TEXTURE_2D, r.glyphs)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(mask.Pix))

	r.upload(core.Rect{Left: p.X, Top: p.Y, Right: p.X + b.Dx(), Bottom: p.Y + b.Dy()})
	gl.UseProgram(r.textured)
	gl.Uniform2f(r.uTexViewport, float32(r.w), float32(r.h))
	gl.Uniform4f(r.uTexColor, c[0], c[1], c[2], c[3])
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Scissor limits drawing to rc, edges included; a zero rect resets it.
func (r *Renderer) Scissor(rc core.Rect) {
	if rc == (core.Rect{}) {
		gl.Disable(gl.SCISSOR_TEST)
		return
	}
	b := image.Rect(rc.Left, rc.Top, rc.Right+1, rc.Bottom+1)
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(b.Min.X), int32(r.h-b.Max.Y), int32(b.Dx()), int32(b.Dy()))
}

func (r *Renderer) upload(rc core.Rect) {
	l, t := float32(rc.Left), float32(rc.Top)
	rr, bb := float32(rc.Right), float32(rc.Bottom)
	verts := [...]float32{
		//  X,  Y,  U,  V
		l, t, 0, 0,
		rr, t, 1, 0,
		rr, bb, 1, 1,
		l, bb, 0, 1,
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(&verts[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// --- Shader utilities ---

const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aUV;
uniform vec2 uViewport;
out vec2 vUV;
void main() {
    vUV = aUV;
    vec2 ndc = aPos / uViewport * 2.0 - 1.0;
    gl_Position = vec4(ndc.x, -ndc.y, 0.0, 1.0);
}
` + "\x00"

const flatFragmentSource = `
#version 330 core
uniform vec4 uColor;
out vec4 FragColor;
void main() {
    FragColor = uColor;
}
` + "\x00"

const textFragmentSource = `
#version 330 core
in vec2 vUV;
uniform sampler2D uGlyphs;
uniform vec4 uColor;
out vec4 FragColor;
void main() {
    FragColor = vec4(uColor.rgb, uColor.a * texture(uGlyphs, vUV).r);
}
` + "\x00"

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
