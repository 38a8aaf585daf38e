package lighting

import "errors"

// ErrNoAllocator is recorded on a light constructed without a target allocator.
var ErrNoAllocator = errors.New("no render target allocator")

// RenderTarget is an off-screen color/depth target the shadow pass renders into.
type RenderTarget interface {
	// BindWithViewport makes the target current and sets the viewport to its
	// size. The returned func restores the previous framebuffer and viewport.
	BindWithViewport() (restore func())
	Clear(r, g, b, a float32)
	Size() (width, height int32)
	Valid() bool
	Destroy()
}

// TargetAllocator creates render targets. It stands in for the rendering
// context: the GL implementation must be called on the context's thread.
type TargetAllocator interface {
	NewRenderTarget() (RenderTarget, error)
}

// AllocatorFunc adapts a plain function to TargetAllocator.
type AllocatorFunc func() (RenderTarget, error)

// NewRenderTarget calls f.
func (f AllocatorFunc) NewRenderTarget() (RenderTarget, error) {
	return f()
}
