package oasis

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/akmonengine/oasis/actor"
	"github.com/akmonengine/oasis/camera"
	"github.com/akmonengine/oasis/config"
	"github.com/akmonengine/oasis/input"
	"github.com/akmonengine/oasis/texture"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recorder struct {
	calls []string
}

type fakeRenderer struct{ rec *recorder }

func (r fakeRenderer) Render(scene *Scene, cam *camera.Camera) {
	r.rec.calls = append(r.rec.calls, "render")
}

// fakeControls stands in for orbit controls; update may move the camera
type fakeControls struct {
	rec    *recorder
	update func()
}

func (c *fakeControls) Update() {
	c.rec.calls = append(c.rec.calls, "controls")
	if c.update != nil {
		c.update()
	}
}

type sceneFixture struct {
	scene    *Scene
	rec      *recorder
	controls *fakeControls
	notices  []string
}

func newFixture(t *testing.T, mutate ...func(c *config.Config)) *sceneFixture {
	t.Helper()
	cfg := config.Default()
	for _, m := range mutate {
		m(&cfg)
	}

	f := &sceneFixture{rec: &recorder{}}
	f.controls = &fakeControls{rec: f.rec}
	s, err := New(cfg, fakeRenderer{rec: f.rec},
		WithLogger(zaptest.NewLogger(t)),
		WithControls(f.controls),
		WithNotifier(NotifierFunc(func(msg string) { f.notices = append(f.notices, msg) })),
	)
	require.NoError(t, err)
	f.scene = s
	return f
}

// addRow places three cubes at eye height in front of the default camera
func (f *sceneFixture) addRow(t *testing.T) []*actor.Object {
	t.Helper()
	var objects []*actor.Object
	for i, name := range []string{"one", "two", "three"} {
		o, err := f.scene.AddPrimitive(actor.KindBox, name, mgl64.Vec3{float64(i-1) * 3, 1.6, 0})
		require.NoError(t, err)
		objects = append(objects, o)
	}
	return objects
}

// project returns the pixel a world point lands on
func project(c *camera.Camera, p mgl64.Vec3) (float64, float64) {
	clip := c.Projection().Mul4(c.ViewMatrix()).Mul4x1(p.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	return (ndc.X() + 1) / 2 * c.Width, (1 - ndc.Y()) / 2 * c.Height
}

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestNew_RequiresRenderer(t *testing.T) {
	_, err := New(config.Default(), nil)
	assert.ErrorIs(t, err, ErrMissingCollaborator)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Joystick.Radius = 0
	_, err := New(cfg, fakeRenderer{rec: &recorder{}})
	assert.Error(t, err)
}

func TestNew_BuildsCloud(t *testing.T) {
	f := newFixture(t, func(c *config.Config) {
		c.Cloud.Enabled = true
		c.Cloud.Count = 50
	})
	require.NotNil(t, f.scene.Cloud)
	assert.Len(t, f.scene.Cloud.Points, 50)

	before := f.scene.Cloud.Transform.Rotation
	f.scene.Tick(1)
	assert.NotEqual(t, before, f.scene.Cloud.Transform.Rotation)
}

func TestTick_Order(t *testing.T) {
	f := newFixture(t)
	f.scene.Tick(1.0 / 60)
	f.scene.Tick(1.0 / 60)
	assert.Equal(t, []string{"controls", "render", "controls", "render"}, f.rec.calls)
}

// pushRight holds the joystick fully to the right
func (f *sceneFixture) pushRight(t *testing.T) {
	t.Helper()
	cx, cy := f.scene.Config.Joystick.CenterX, f.scene.Config.Joystick.CenterY
	require.True(t, f.scene.HandlePointer(input.PointerEvent{ID: 1, X: cx, Y: cy, Phase: input.PhaseDown}))
	require.True(t, f.scene.HandlePointer(input.PointerEvent{ID: 1, X: cx + f.scene.Config.Joystick.Radius, Y: cy, Phase: input.PhaseMove}))
}

func TestTick_RecastSeesSameFrameMovement(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Movement.Speed = 1 })
	s := f.scene
	target, err := s.AddPrimitive(actor.KindBox, "target", mgl64.Vec3{1.2, 1.6, 0})
	require.NoError(t, err)

	s.Tick(1.0 / 60)
	require.Nil(t, s.Selector.Hovered(), "crosshair starts just left of the cube")

	f.pushRight(t)
	s.Tick(1.0 / 60)

	assert.InDelta(t, 1, s.Camera.Position.X(), 1e-9)
	assert.Same(t, target, s.Selector.Hovered())
	assert.Equal(t, actor.HighlightHovered, target.Highlight)
}

func TestTick_RecastSeesControlsCamera(t *testing.T) {
	f := newFixture(t)
	s := f.scene
	target, err := s.AddPrimitive(actor.KindSphere, "target", mgl64.Vec3{4, 1.6, 0})
	require.NoError(t, err)

	f.controls.update = func() {
		s.Camera.Position = mgl64.Vec3{4, 1.6, 8}
	}
	s.Tick(1.0 / 60)

	assert.Same(t, target, s.Selector.Hovered())
}

func TestTick_MovementFollowsControlsOrientation(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Movement.Speed = 1 })
	s := f.scene

	// Controls turn the camera to face +X before the joystick is applied
	f.controls.update = func() {
		s.Camera.LookAt(s.Camera.Position.Add(mgl64.Vec3{1, 0, 0}))
	}
	cx, cy := s.Config.Joystick.CenterX, s.Config.Joystick.CenterY
	s.HandlePointer(input.PointerEvent{ID: 1, X: cx, Y: cy, Phase: input.PhaseDown})
	s.HandlePointer(input.PointerEvent{ID: 1, X: cx, Y: cy - s.Config.Joystick.Radius, Phase: input.PhaseMove})

	start := s.Camera.Position
	s.Tick(1.0 / 60)

	assert.InDelta(t, start.X()+1, s.Camera.Position.X(), 1e-9)
	assert.InDelta(t, start.Z(), s.Camera.Position.Z(), 1e-9)
}

func TestTick_RecastSeesSameFrameSpin(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Scene.SpinRate = math.Pi / 2 })
	s := f.scene

	// A long thin slab beside the crosshair; a quarter turn swings it across
	slab := actor.NewObject("slab", actor.KindBox, actor.NewTransformAt(mgl64.Vec3{2, 1.6, 0}),
		&actor.Box{HalfExtents: mgl64.Vec3{0.1, 0.5, 3}}, mgl64.Vec3{1, 1, 1})
	require.NoError(t, s.Register(slab))
	_, err := s.ToggleSpin("slab")
	require.NoError(t, err)

	s.Tick(0)
	require.Nil(t, s.Selector.Hovered())

	s.Tick(1)
	assert.Same(t, slab, s.Selector.Hovered())
}

func TestDeselect(t *testing.T) {
	f := newFixture(t)
	objs := f.addRow(t)
	s := f.scene

	var deselected []string
	s.Events.Subscribe(DESELECT, func(e Event) {
		deselected = append(deselected, e.(DeselectEvent).Object.Name)
	})

	s.Deselect()
	assert.Empty(t, deselected, "nothing selected yet")

	s.Tick(1.0 / 60)
	s.Tap()
	s.Deselect()

	assert.Nil(t, s.Selector.Selected())
	assert.Equal(t, actor.HighlightHovered, objs[1].Highlight, "still under the crosshair")
	assert.Equal(t, []string{"two"}, deselected)
}

func TestScenario_HoverSelectLookAway(t *testing.T) {
	f := newFixture(t)
	objs := f.addRow(t)
	s := f.scene

	var selected []string
	s.Events.Subscribe(SELECT, func(e Event) {
		selected = append(selected, e.(SelectEvent).Object.Name)
	})

	s.Tick(1.0 / 60)
	assert.Same(t, objs[1], s.Selector.Hovered())
	assert.Equal(t, actor.HighlightNone, objs[0].Highlight)
	assert.Equal(t, actor.HighlightHovered, objs[1].Highlight)
	assert.Equal(t, actor.HighlightNone, objs[2].Highlight)

	s.Tap()
	assert.Same(t, objs[1], s.Selector.Selected())
	assert.Equal(t, actor.HighlightSelected, objs[1].Highlight)
	assert.Equal(t, []string{"two"}, selected)

	s.Camera.LookAt(objs[2].Transform.Position)
	s.Tick(1.0 / 60)
	assert.Equal(t, actor.HighlightHovered, objs[2].Highlight)
	assert.Equal(t, actor.HighlightSelected, objs[1].Highlight)
	assert.Equal(t, actor.HighlightNone, objs[0].Highlight)

	// Look at the empty sky and tap: the selection is cleared
	s.Camera.LookAt(mgl64.Vec3{0, 50, 0})
	s.Tick(1.0 / 60)
	s.Tap()
	assert.Nil(t, s.Selector.Selected())
	assert.Equal(t, actor.HighlightNone, objs[1].Highlight)
	assert.Empty(t, s.Hits())
}

func TestClick_PointerMode(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Scene.Aim = config.AimPointer })
	objs := f.addRow(t)
	s := f.scene

	x, y := project(s.Camera, objs[0].Transform.Position)
	s.Click(x, y)

	assert.Same(t, objs[0], s.Selector.Selected())
	assert.Equal(t, actor.HighlightSelected, objs[0].Highlight)

	// The aim stays on the clicked pixel across frames
	s.Tick(1.0 / 60)
	assert.Same(t, objs[0], s.Selector.Hovered())
	assert.Equal(t, actor.HighlightSelected, objs[0].Highlight)
}

func TestClick_GazeModeIgnoresCoordinates(t *testing.T) {
	f := newFixture(t)
	objs := f.addRow(t)
	s := f.scene

	s.Tick(1.0 / 60)
	x, y := project(s.Camera, objs[0].Transform.Position)
	s.Click(x, y)

	assert.Same(t, objs[1], s.Selector.Selected(), "gaze mode selects what the crosshair is on")
	assert.Equal(t, config.AimGaze, s.Aim())

	s.SetAim(config.AimPointer)
	assert.Equal(t, config.AimPointer, s.Aim())
}

func TestJoystickMovesCamera(t *testing.T) {
	f := newFixture(t)
	s := f.scene
	start := s.Camera.Position
	cx, cy := s.Config.Joystick.CenterX, s.Config.Joystick.CenterY

	s.Tick(1.0 / 60)
	assert.Equal(t, start, s.Camera.Position, "idle joystick")

	require.True(t, s.HandlePointer(input.PointerEvent{ID: 1, X: cx, Y: cy, Phase: input.PhaseDown}))
	require.True(t, s.HandlePointer(input.PointerEvent{ID: 1, X: cx, Y: cy - 500, Phase: input.PhaseMove}))
	s.Tick(1.0 / 60)

	speed := s.Config.Movement.Speed
	assert.InDelta(t, start.Z()-speed, s.Camera.Position.Z(), 1e-9)
	assert.GreaterOrEqual(t, s.Camera.Position.Y(), s.Config.Movement.Floor)

	s.HandlePointer(input.PointerEvent{ID: 1, Phase: input.PhaseUp})
	moved := s.Camera.Position
	s.Tick(1.0 / 60)
	assert.Equal(t, moved, s.Camera.Position)
}

func TestAddPrimitive(t *testing.T) {
	f := newFixture(t)
	s := f.scene

	var registered []string
	s.Events.Subscribe(OBJECT_REGISTERED, func(e Event) {
		registered = append(registered, e.(ObjectRegisteredEvent).Object.Name)
	})

	cube, err := s.AddPrimitive(actor.KindBox, "", mgl64.Vec3{})
	require.NoError(t, err)
	ball, err := s.AddPrimitive(actor.KindSphere, "", mgl64.Vec3{2, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "box-1", cube.Name)
	assert.Equal(t, "sphere-2", ball.Name)

	_, err = s.AddPrimitive(actor.KindSphere, "box-1", mgl64.Vec3{})
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, []string{"An object with that name already exists."}, f.notices)

	_, err = s.AddPrimitive(actor.KindPlane, "floor", mgl64.Vec3{})
	assert.ErrorIs(t, err, ErrUnsupported)

	assert.Equal(t, []string{"box-1", "sphere-2"}, s.Menu.TextureTargets)
	assert.Equal(t, []string{"box-1", "sphere-2"}, s.Menu.SpinTargets)
	got, ok := s.Object("sphere-2")
	assert.True(t, ok)
	assert.Same(t, ball, got)

	s.Tick(0)
	assert.Equal(t, []string{"box-1", "sphere-2"}, registered)
}

func TestGroundIsNeverPicked(t *testing.T) {
	f := newFixture(t)
	s := f.scene
	ground := s.AddGround(0)

	s.Camera.LookAt(mgl64.Vec3{0, 0, 0})
	s.Tick(1.0 / 60)

	assert.Nil(t, s.Selector.Hovered())
	assert.Equal(t, []*actor.Object{ground}, s.Scenery)
	assert.Empty(t, s.Objects)
}

func TestToggleSpin(t *testing.T) {
	f := newFixture(t)
	objs := f.addRow(t)
	s := f.scene

	on, err := s.ToggleSpin("one")
	require.NoError(t, err)
	assert.True(t, on)

	before := objs[0].Transform.Rotation
	s.Tick(0.5)
	assert.NotEqual(t, before, objs[0].Transform.Rotation)
	assert.Equal(t, mgl64.QuatIdent(), objs[1].Transform.Rotation)

	_, err = s.ToggleSpin("")
	assert.ErrorIs(t, err, ErrNoSelection)
	_, err = s.ToggleSpin("ghost")
	assert.ErrorIs(t, err, ErrUnknownObject)
	assert.Len(t, f.notices, 2)
}

func TestTextureFlow(t *testing.T) {
	f := newFixture(t)
	objs := f.addRow(t)
	s := f.scene

	var ready, failed int
	s.Events.Subscribe(TEXTURE_READY, func(Event) { ready++ })
	s.Events.Subscribe(TEXTURE_FAILED, func(Event) { failed++ })

	assert.ErrorIs(t, s.ApplyTexture("two"), ErrNoTexture)

	future := s.LoadTexture(context.Background(), pngDataURL(t, 4, 4))
	_, err := future.Result()
	require.NoError(t, err)
	assert.Nil(t, s.Texture(), "not visible before the frame consumes it")
	assert.Equal(t, 1, s.PendingLoads())

	s.Tick(1.0 / 60)
	require.NotNil(t, s.Texture())
	assert.Equal(t, 0, s.PendingLoads())
	assert.Nil(t, objs[1].Material.Texture, "loading alone attaches nothing")

	require.NoError(t, s.ApplyTexture("two"))
	assert.Same(t, s.Texture(), objs[1].Material.Texture)

	// Failure keeps the previous texture
	current := s.Texture()
	_, _ = s.LoadTexture(context.Background(), "data:image/png;base64,AAAA").Result()
	s.Tick(1.0 / 60)
	assert.Same(t, current, s.Texture())
	assert.Equal(t, 1, ready)
	assert.Equal(t, 1, failed)

	// Empty name targets the selection
	assert.ErrorIs(t, s.ApplyTexture(""), ErrNoSelection)
	s.Tap()
	require.NoError(t, s.ApplyTexture(""))

	assert.Equal(t, []string{
		"Load a texture from a file or the camera first.",
		"The image could not be loaded.",
		"Select an object first.",
	}, f.notices)
}

type deniedCapturer struct{}

func (deniedCapturer) Open(context.Context) (texture.Stream, error) {
	return nil, assert.AnError
}

func TestCaptureTexture_Denied(t *testing.T) {
	f := newFixture(t)
	s := f.scene

	_, err := s.CaptureTexture(context.Background(), deniedCapturer{}).Result()
	require.ErrorIs(t, err, texture.ErrCameraUnavailable)

	s.Tick(1.0 / 60)
	assert.Nil(t, s.Texture())
	assert.Equal(t, []string{"The camera is unavailable or access was denied."}, f.notices)
}

func TestLoadTexture_TooLarge(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Texture.MaxPixels = 4 })
	s := f.scene

	_, err := s.LoadTexture(context.Background(), pngDataURL(t, 4, 4)).Result()
	require.ErrorIs(t, err, texture.ErrTooLarge)

	s.Tick(1.0 / 60)
	assert.Nil(t, s.Texture())
	assert.Equal(t, []string{"The image is too large."}, f.notices)
}
