package oasis

import (
	"fmt"

	"github.com/akmonengine/oasis/actor"
	"github.com/akmonengine/oasis/camera"
	"github.com/akmonengine/oasis/cloud"
	"github.com/akmonengine/oasis/config"
	"github.com/akmonengine/oasis/input"
	"github.com/akmonengine/oasis/selection"
	"github.com/akmonengine/oasis/texture"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

const DEFAULT_WORKERS = 1

// Renderer draws the scene graph from the camera
type Renderer interface {
	Render(scene *Scene, cam *camera.Camera)
}

// Controls is an orbit-style camera controller updated once per frame.
// It may move the camera too; it always runs before the joystick.
type Controls interface {
	Update()
}

// Menu mirrors the two UI pickers, listing objects by name in registration order
type Menu struct {
	TextureTargets []string
	SpinTargets    []string
}

// Scene is the single owner of all mutable state. Tick and the event handlers
// must be called from the same goroutine.
type Scene struct {
	Config config.Config

	// Pickable objects, in registration order
	Objects []*actor.Object
	// Drawn but never picked (ground)
	Scenery []*actor.Object

	Camera      *camera.Camera
	Joystick    *input.Joystick
	Selector    *selection.Selector
	Cloud       *cloud.Cloud
	SpatialGrid *SpatialGrid
	Menu        Menu
	Events      Events
	Workers     int

	renderer Renderer
	controls Controls
	notifier Notifier
	logger   *zap.Logger
	loader   *texture.Loader

	index   map[string]*actor.Object
	texture *texture.Texture
	pending []*texture.Future

	aim        config.AimMode
	aimX, aimY float64
	hits       []Hit
}

type Option func(*Scene)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Scene) { s.logger = logger }
}

func WithNotifier(notifier Notifier) Option {
	return func(s *Scene) { s.notifier = notifier }
}

func WithControls(controls Controls) Option {
	return func(s *Scene) { s.controls = controls }
}

func WithLoader(loader *texture.Loader) Option {
	return func(s *Scene) { s.loader = loader }
}

// New builds a scene from cfg. A nil renderer is fatal.
func New(cfg config.Config, renderer Renderer, opts ...Option) (*Scene, error) {
	if renderer == nil {
		return nil, ErrMissingCollaborator
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scene{
		Config:   cfg,
		renderer: renderer,
		notifier: silentNotifier{},
		logger:   zap.NewNop(),
		index:    make(map[string]*actor.Object),
		Events:   NewEvents(),
		Workers:  max(DEFAULT_WORKERS, cfg.Scene.Workers),
		aim:      cfg.Scene.Aim,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = texture.NewLoader(cfg.Texture.MaxEdge, s.logger.Named("texture"))
		s.loader.MaxBytes = cfg.Texture.MaxBytes
		s.loader.MaxPixels = cfg.Texture.MaxPixels
	}

	cc := cfg.Camera
	s.Camera = camera.New(mgl64.Vec3(cc.Position), mgl64.Vec3(cc.LookAt), cc.Fovy, cc.Near, cc.Far, cc.Width, cc.Height)
	s.Joystick = input.NewJoystick(mgl64.Vec2{cfg.Joystick.CenterX, cfg.Joystick.CenterY}, cfg.Joystick.Radius)
	s.Selector = selection.NewSelector(selection.Palette{
		Tint:     mgl64.Vec3(cfg.Highlight.Tint),
		Hover:    cfg.Highlight.Hover,
		Selected: cfg.Highlight.Selected,
	})
	s.SpatialGrid = NewSpatialGrid(cfg.Grid.CellSize, cfg.Grid.Cells)
	s.aimX, s.aimY = s.Camera.Center()

	if cfg.Cloud.Enabled {
		c, err := cloud.Generate(cloud.Params{
			Count:       cfg.Cloud.Count,
			MajorRadius: cfg.Cloud.MajorRadius,
			MinorRadius: cfg.Cloud.MinorRadius,
			Jitter:      cfg.Cloud.Jitter,
			Seed:        cfg.Cloud.Seed,
		}, mgl64.Vec3(cfg.Cloud.Center))
		if err != nil {
			return nil, fmt.Errorf("oasis: data cloud: %w", err)
		}
		c.SpinRate = cfg.Cloud.SpinRate
		s.Cloud = c
	}

	s.logger.Info("scene ready",
		zap.String("aim", string(s.aim)),
		zap.Int("workers", s.Workers),
		zap.Bool("cloud", s.Cloud != nil),
	)
	return s, nil
}

// Tick advances one frame: controls, joystick movement, spin, finished
// texture loads, ray recast, render, then event delivery.
func (s *Scene) Tick(dt float64) {
	if s.controls != nil {
		s.controls.Update()
	}

	camera.ApplyMovement(s.Camera, s.Joystick.Direction(), s.Config.Movement.Speed, s.Config.Movement.Floor)

	s.spin(dt)
	s.Poll()
	s.recast()

	s.renderer.Render(s, s.Camera)
	s.Events.flush()
}

func (s *Scene) spin(dt float64) {
	up := mgl64.Vec3{0, 1, 0}
	for _, object := range s.Objects {
		if object.Spin {
			object.Rotate(s.Config.Scene.SpinRate*dt, up)
		}
	}
	if s.Cloud != nil {
		s.Cloud.Step(dt)
	}
}

// AimRay is the picking ray for the current aim mode
func (s *Scene) AimRay() actor.Ray {
	if s.aim == config.AimPointer {
		return s.Camera.RayThrough(s.aimX, s.aimY)
	}
	return s.Camera.RayThrough(s.Camera.Center())
}

// Hits are the intersections from the latest recast, nearest-first
func (s *Scene) Hits() []Hit {
	return s.hits
}

func (s *Scene) recast() {
	s.hits = Raycast(s.SpatialGrid, s.Objects, s.AimRay(), s.Camera.Far, s.Workers)

	var candidate *actor.Object
	if len(s.hits) > 0 {
		candidate = s.hits[0].Object
	}
	s.applyTransition(s.Selector.Hover(candidate))
}

func (s *Scene) applyTransition(tr selection.Transition) {
	if tr.Deselected != nil {
		s.logger.Debug("deselect", zap.String("object", tr.Deselected.Name))
		s.Events.emit(DeselectEvent{Object: tr.Deselected})
	}
	if tr.HoverExited != nil {
		s.Events.emit(HoverExitEvent{Object: tr.HoverExited})
	}
	if tr.Selected != nil {
		s.logger.Debug("select", zap.String("object", tr.Selected.Name))
		s.Events.emit(SelectEvent{Object: tr.Selected})
	}
	if tr.HoverEntered != nil {
		s.Events.emit(HoverEnterEvent{Object: tr.HoverEntered})
	}
}

// HandlePointer feeds a decoded touch event to the joystick
func (s *Scene) HandlePointer(event input.PointerEvent) bool {
	return s.Joystick.Handle(event)
}

// Tap selects whatever is currently hovered, or clears the selection
func (s *Scene) Tap() {
	s.applyTransition(s.Selector.Select())
	s.Events.flush()
}

// Deselect clears the selection without a tap, e.g. from a menu or Escape
func (s *Scene) Deselect() {
	s.applyTransition(s.Selector.Deselect())
	s.Events.flush()
}

// Click aims at (x, y) in pointer mode, recasts immediately, then selects.
// In gaze mode the coordinates are ignored and it behaves like Tap.
func (s *Scene) Click(x, y float64) {
	if s.aim == config.AimPointer {
		s.aimX, s.aimY = x, y
		s.recast()
	}
	s.Tap()
}

// SetAim switches between crosshair and pointer aiming
func (s *Scene) SetAim(mode config.AimMode) {
	s.aim = mode
}

func (s *Scene) Aim() config.AimMode {
	return s.aim
}

// Resize follows the viewport; the pointer aim is kept in pixels
func (s *Scene) Resize(width, height float64) {
	s.Camera.Resize(width, height)
}

// fail logs a recoverable error, shows it to the user and returns it
func (s *Scene) fail(err error) error {
	s.logger.Warn("action failed", zap.Error(err))
	s.notifier.Notify(noticeMessage(err))
	return err
}
