package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/akmonengine/oasis"
	"github.com/akmonengine/oasis/actor"
	"github.com/akmonengine/oasis/camera"
	"github.com/akmonengine/oasis/config"
	"github.com/akmonengine/oasis/input"
	"github.com/akmonengine/oasis/texture"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogRenderer prints a one-line summary per frame instead of drawing
type LogRenderer struct {
	logger *zap.Logger
	frame  int
}

func (r *LogRenderer) Render(scene *oasis.Scene, cam *camera.Camera) {
	r.frame++
	fields := []zap.Field{
		zap.Int("frame", r.frame),
		zap.Float64s("camera", cam.Position[:]),
	}
	if hovered := scene.Selector.Hovered(); hovered != nil {
		fields = append(fields, zap.String("hovered", hovered.Name))
	}
	if selected := scene.Selector.Selected(); selected != nil {
		fields = append(fields, zap.String("selected", selected.Name))
	}
	r.logger.Info("frame", fields...)
}

// gradientCamera stands in for a device camera: every snapshot is a sand gradient
type gradientCamera struct{}

type gradientStream struct{}

func (gradientCamera) Open(context.Context) (texture.Stream, error) {
	return gradientStream{}, nil
}

func (gradientStream) Snapshot() (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 194, G: uint8(150 + y), B: uint8(100 + x), A: 255})
		}
	}
	return img, nil
}

func (gradientStream) Stop() {}

func newLogger(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableCaller = true
	return zc.Build()
}

func checkerDataURL() (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := color.RGBA{R: 230, G: 200, B: 150, A: 255}
			if (x+y)%2 == 0 {
				c = color.RGBA{R: 120, G: 80, B: 40, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	notices := oasis.NotifierFunc(func(msg string) {
		fmt.Fprintln(os.Stderr, "notice:", msg)
	})
	scene, err := oasis.New(cfg, &LogRenderer{logger: logger.Named("render")},
		oasis.WithLogger(logger),
		oasis.WithNotifier(notices),
	)
	if err != nil {
		return err
	}

	scene.AddGround(0)
	for _, p := range []struct {
		kind     actor.Kind
		position mgl64.Vec3
	}{
		{actor.KindBox, mgl64.Vec3{-3, 1.6, 0}},
		{actor.KindSphere, mgl64.Vec3{0, 1.6, 0}},
		{actor.KindBox, mgl64.Vec3{3, 1.6, 0}},
	} {
		if _, err := scene.AddPrimitive(p.kind, "", p.position); err != nil {
			return err
		}
	}

	const dt = 1.0 / 60
	ctx := context.Background()

	// Crosshair lands on the sphere; tap selects it
	scene.Tick(dt)
	scene.Tap()

	// Texture from a data URL, applied to the selection once loaded
	src, err := checkerDataURL()
	if err != nil {
		return err
	}
	if _, err := scene.LoadTexture(ctx, src).Result(); err != nil {
		return err
	}
	scene.Tick(dt)
	_ = scene.ApplyTexture("")

	// Push the joystick forward-right for half a second
	jx, jy := cfg.Joystick.CenterX, cfg.Joystick.CenterY
	scene.HandlePointer(input.PointerEvent{ID: 1, X: jx, Y: jy, Phase: input.PhaseDown})
	scene.HandlePointer(input.PointerEvent{ID: 1, X: jx + cfg.Joystick.Radius, Y: jy - cfg.Joystick.Radius, Phase: input.PhaseMove})
	for i := 0; i < 30; i++ {
		scene.Tick(dt)
	}
	scene.HandlePointer(input.PointerEvent{ID: 1, Phase: input.PhaseUp})

	// Camera snapshot onto the first box, which also starts spinning
	if _, err := scene.CaptureTexture(ctx, gradientCamera{}).Result(); err != nil {
		return err
	}
	scene.Tick(dt)
	first := scene.Menu.TextureTargets[0]
	_ = scene.ApplyTexture(first)
	_, _ = scene.ToggleSpin(first)

	for i := 0; i < 10; i++ {
		scene.Tick(dt)
	}

	for _, o := range scene.Objects {
		tex := "none"
		if o.Material.Texture != nil {
			tex = o.Material.Texture.TextureID()
		}
		logger.Info("object",
			zap.String("name", o.Name),
			zap.Stringer("highlight", o.Highlight),
			zap.Bool("spin", o.Spin),
			zap.String("texture", tex),
		)
	}
	return nil
}

func main() {
	configPath := flag.String("config", "oasis.yaml", "path to the scene configuration")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
