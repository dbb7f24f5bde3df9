// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/devblok/helix/core"
	"github.com/devblok/helix/device"
	"github.com/devblok/helix/gfx/glr"
	"github.com/devblok/helix/model"
	"github.com/devblok/helix/resource"
	"github.com/devblok/helix/scene"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func init() {
	runtime.LockOSThread()
}

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Value: "helix.toml",
		Usage: "Configuration file, missing file means defaults",
	}
	assetsFlag = &cli.StringFlag{
		Name:  "assets",
		Usage: "Shader source location: url, directory, .kar archive or \"embedded\"",
	}
	fpsFlag = &cli.IntFlag{
		Name:  "fps",
		Usage: "Frames per second cap, 0 to unlimit",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Logging level (debug, info, warn, error)",
	}
	cpuProfileFlag = &cli.StringFlag{
		Name:  "cpuprof",
		Usage: "Profile CPU usage to file",
	}
	traceFlag = &cli.StringFlag{
		Name:  "trace",
		Usage: "Trace output for profiling",
	}
)

func main() {
	app := &cli.App{
		Name:  "helix",
		Usage: "render a rotating, vertex colored square",
		Flags: []cli.Flag{
			configFlag,
			assetsFlag,
			fpsFlag,
			logLevelFlag,
			cpuProfileFlag,
			traceFlag,
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "print the OpenGL device information as json",
				Flags:  []cli.Flag{configFlag},
				Action: info,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func configuration(ctx *cli.Context) (core.Configuration, error) {
	cfg, err := core.LoadConfiguration(ctx.String(configFlag.Name))
	if err != nil {
		return cfg, err
	}

	if ctx.IsSet(assetsFlag.Name) {
		cfg.Assets.Source = ctx.String(assetsFlag.Name)
	}
	if ctx.IsSet(fpsFlag.Name) {
		cfg.Time.FramesPerSecond = ctx.Int(fpsFlag.Name)
	}
	if ctx.IsSet(logLevelFlag.Name) {
		cfg.Log.Level = ctx.String(logLevelFlag.Name)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	log.SetLevel(cfg.Log.LogLevel())
	return cfg, nil
}

func run(ctx *cli.Context) error {
	cfg, err := configuration(ctx)
	if err != nil {
		return err
	}

	if path := ctx.String(cpuProfileFlag.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	if path := ctx.String(traceFlag.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := trace.Start(f); err != nil {
			return err
		}
		defer trace.Stop()
	}

	dev, err := device.NewSDLDevice(cfg.Renderer)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	gl, err := glr.New(dev)
	if err != nil {
		return err
	}
	log.WithField("device", deviceInfo(gl)).Info("OpenGL context ready")

	fetcher, err := resource.NewFetcher(cfg.Assets)
	if err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	if closer, ok := fetcher.(io.Closer); ok {
		defer closer.Close()
	}

	clock := core.NewTime(cfg.Time)
	defer clock.Stop()
	queue := core.NewQueue()

	loader := resource.NewLoader(fetcher, queue)
	square := model.NewShape(loader, dev, model.ShapeOptions{
		VertexSource:   cfg.Assets.VertexSource,
		FragmentSource: cfg.Assets.FragmentSource,
	})

	runCtx, cancel := signal.NotifyContext(ctx.Context, os.Interrupt)
	defer cancel()

	sc := scene.New(gl, clock, queue, cfg.Time)
	if err := sc.Init(runCtx, square); err != nil {
		return err
	}

EventLoop:
	for {
		select {
		case <-runCtx.Done():
			break EventLoop
		case <-clock.EventTicker().C:
			if !dev.PollEvents() {
				break EventLoop
			}
		case <-clock.FpsTicker().C:
			if clock.Step() {
				dev.Swap()
			}
		}
	}

	log.WithField("frames", sc.Frames()).Info("Event loop exited")
	return nil
}

func deviceInfo(gl *glr.Context) device.Info {
	vendor, renderer, version := gl.Info()
	return device.Info{
		Vendor:   vendor,
		Renderer: renderer,
		Version:  version,
	}
}

func info(ctx *cli.Context) error {
	cfg, err := configuration(ctx)
	if err != nil {
		return err
	}

	dev, err := device.NewSDLDevice(cfg.Renderer)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	gl, err := glr.New(dev)
	if err != nil {
		return err
	}

	bytes, err := json.Marshal(deviceInfo(gl))
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", bytes)
	return nil
}
