package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/sunlight/internal/config"
	"github.com/Faultbox/sunlight/internal/engine/camera"
	"github.com/Faultbox/sunlight/internal/engine/debug"
	"github.com/Faultbox/sunlight/internal/engine/framebuffer"
	"github.com/Faultbox/sunlight/internal/engine/input"
	"github.com/Faultbox/sunlight/internal/engine/lighting"
	"github.com/Faultbox/sunlight/internal/engine/mesh"
	"github.com/Faultbox/sunlight/internal/engine/renderer"
	"github.com/Faultbox/sunlight/internal/engine/shadow"
	"github.com/Faultbox/sunlight/internal/engine/window"
	"github.com/Faultbox/sunlight/internal/logger"
)

// Degrees per frame while an arrow key is held.
const sunStep = 1.0

type viewer struct {
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera

	light      *lighting.DirectionalLight
	lightProxy *mesh.GPUMesh
	shadowPass *shadow.Pass

	objects []renderer.Object
	meshes  []*mesh.GPUMesh

	sunLon, sunLat, sunDist float32
	dumpDir, dumpFormat     string
}

func newViewer(cfg *config.Config) (*viewer, error) {
	v := &viewer{
		input:      input.New(),
		camera:     camera.NewOrbitCamera(),
		dumpDir:    cfg.Shadow.DumpDir,
		dumpFormat: cfg.Shadow.DumpFormat,
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "Sunlight",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// GL objects below need the context created by the window.
	w, h := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{Width: int(w), Height: int(h)})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	res := cfg.Shadow.Resolution
	v.light = lighting.New(cfg.Light.Params(), lighting.AllocatorFunc(func() (lighting.RenderTarget, error) {
		fb, err := framebuffer.New(res, res)
		if err != nil {
			return nil, err
		}
		return fb, nil
	}))
	if v.light.Degraded() {
		logger.Warn("light has no render target, shadow pass disabled", zap.Error(v.light.Err()))
	}
	v.sunLon, v.sunLat, v.sunDist = lighting.SunAngles(v.light.FocalPoint, v.light.Position)

	v.lightProxy, err = mesh.Upload(v.light.Mesh())
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("uploading light proxy: %w", err)
	}

	v.shadowPass, err = shadow.NewPass()
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("creating shadow pass: %w", err)
	}

	if err := v.buildScene(); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

// buildScene uploads a ground slab and a few boxes.
func (v *viewer) buildScene() error {
	placements := []struct {
		t      mesh.Transform
		albedo mgl32.Vec3
	}{
		{mesh.NewTransform(0, -1, 0, 60, 1, 60, 0), mgl32.Vec3{0.6, 0.6, 0.6}},
		{mesh.NewTransform(0, 5, 0, 5, 5, 5, 0), mgl32.Vec3{0.8, 0.3, 0.2}},
		{mesh.NewTransform(-20, 10, 15, 3, 10, 3, 0), mgl32.Vec3{0.2, 0.5, 0.8}},
		{mesh.NewTransform(18, 2, -12, 8, 2, 4, 0.6), mgl32.Vec3{0.3, 0.7, 0.3}},
	}

	for _, p := range placements {
		gpu, err := mesh.Upload(mesh.Cube(p.t))
		if err != nil {
			return fmt.Errorf("uploading scene mesh: %w", err)
		}
		v.meshes = append(v.meshes, gpu)
		v.objects = append(v.objects, renderer.Object{Mesh: gpu, Transform: p.t, Albedo: p.albedo})
	}

	logger.Info("scene built", zap.Int("objects", len(v.objects)))
	return nil
}

// Run processes input and renders until the window is closed.
func (v *viewer) Run() {
	casters := make([]shadow.Caster, len(v.objects))
	for i, o := range v.objects {
		casters[i] = shadow.Caster{Mesh: o.Mesh, Transform: o.Transform}
	}

	for !v.input.Update() {
		v.handleInput()

		if v.light.ShadowReady() {
			if err := v.shadowPass.Render(v.light, casters); err != nil {
				logger.Warn("shadow pass skipped", zap.Error(err))
			}
		}

		viewProj := v.camera.ViewProjection(v.renderer.Aspect())
		v.renderer.Begin()
		v.renderer.DrawObjects(viewProj, v.light, v.objects)
		v.renderer.DrawLight(viewProj, v.light, v.lightProxy)
		v.window.SwapBuffers()
	}
}

func (v *viewer) handleInput() {
	for _, e := range v.input.Events() {
		if e.Type == input.EventWindowResize {
			w, h := v.window.DrawableSize()
			v.renderer.Resize(int(w), int(h))
		}
	}

	moved := false
	if v.input.IsKeyHeld(sdl.SCANCODE_LEFT) {
		v.sunLon -= sunStep
		moved = true
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_RIGHT) {
		v.sunLon += sunStep
		moved = true
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_UP) {
		v.sunLat = mgl32.Clamp(v.sunLat+sunStep, 5, 85)
		moved = true
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_DOWN) {
		v.sunLat = mgl32.Clamp(v.sunLat-sunStep, 5, 85)
		moved = true
	}
	if moved {
		v.light.Position = lighting.SunPosition(v.light.FocalPoint, v.sunDist, v.sunLon, v.sunLat)
		v.window.SetTitle(fmt.Sprintf("Sunlight - lon %.0f lat %.0f", v.sunLon, v.sunLat))
	}

	if v.input.IsKeyPressed(sdl.SCANCODE_F11) {
		if err := v.window.ToggleFullscreen(); err != nil {
			logger.Warn("fullscreen toggle failed", zap.Error(err))
		}
	}
	if v.input.IsKeyPressed(sdl.SCANCODE_F12) {
		v.dumpShadowDepth()
	}

	if v.input.IsKeyHeld(sdl.SCANCODE_A) {
		v.camera.Rotate(-0.02, 0)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_D) {
		v.camera.Rotate(0.02, 0)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_W) {
		v.camera.Zoom(0.02)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_S) {
		v.camera.Zoom(-0.02)
	}
}

// LightPosition returns the light position as moved by the sun controls.
func (v *viewer) LightPosition() [3]float32 {
	return v.light.Position
}

// dumpShadowDepth writes the light's last depth render to an image file.
func (v *viewer) dumpShadowDepth() {
	fb, ok := v.light.Target().(*framebuffer.Framebuffer)
	if !ok || !v.light.ShadowReady() {
		logger.Warn("no shadow map to dump")
		return
	}

	w, h := fb.Size()
	path, err := debug.SaveDepth(v.dumpDir, "shadow", v.dumpFormat, fb.ReadDepth(), int(w), int(h))
	if err != nil {
		logger.Error("failed to save depth image", zap.Error(err))
		return
	}
	logger.Info("depth image saved", zap.String("path", path))
}

// Close releases everything newViewer created, in reverse order.
func (v *viewer) Close() {
	for _, m := range v.meshes {
		m.Destroy()
	}
	if v.shadowPass != nil {
		v.shadowPass.Destroy()
	}
	if v.lightProxy != nil {
		v.lightProxy.Destroy()
	}
	if v.light != nil {
		v.light.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
