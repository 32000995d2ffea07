// Command vexsim hosts a VEX V5 WebAssembly robot program: it builds the
// SDK jump table, installs it into a guest WebAssembly instance, and
// drives the guest via a newline-delimited JSON protocol exchanged with
// an outer controller process.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"

	"github.com/vexide/vex-sdk-sim/internal/device"
	"github.com/vexide/vex-sdk-sim/internal/guestabi"
	"github.com/vexide/vex-sdk-sim/internal/input"
	"github.com/vexide/vex-sdk-sim/internal/jumptable"
	"github.com/vexide/vex-sdk-sim/internal/protocol"
	"github.com/vexide/vex-sdk-sim/internal/sdk"
)

var (
	guestPath   = flag.String("guest", "", "Path to the compiled WebAssembly guest module.")
	windowFlag  = flag.Bool("window", false, "Open a live preview window mirroring display.png.")
	framePath   = flag.String("frame", "display.png", "Path the display's presented frame is written to on every render.")
	protocolIn  = flag.String("protocol-in", "", "Path to the protocol driver's inbound pipe (defaults to stdin).")
	protocolOut = flag.String("protocol-out", "", "Path to the protocol driver's outbound pipe (defaults to stdout).")
)

// GuestLoader instantiates a WebAssembly guest module from path and
// returns its linear memory, indirect function table, and an entry point
// that runs _entry to completion. Wiring a concrete WebAssembly engine is
// explicitly left to the embedder (spec.md §1): this package depends
// only on the guestabi.Memory/guestabi.Table interfaces, never on a
// specific engine, and does not provide an implementation of this type.
type GuestLoader func(ctx context.Context, path string) (guestabi.Memory, guestabi.Table, func(context.Context) error, error)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *guestPath == "" {
		fmt.Fprintln(os.Stderr, "vexsim: -guest is required; this binary hosts a WebAssembly engine seam (GuestLoader) but does not implement one")
		os.Exit(2)
	}

	if err := run(logger, nil); err != nil {
		logger.Error("vexsim exiting", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, loadGuest GuestLoader) error {
	dev := device.New()

	wireFrameSink(dev, *framePath, logger)

	protoIn, protoOut, closeProto, err := openProtocolStreams(*protocolIn, *protocolOut)
	if err != nil {
		return fmt.Errorf("vexsim: open protocol streams: %w", err)
	}
	defer closeProto()

	driver := protocol.NewDriver(protocol.NewReader(protoIn), protocol.NewWriter(protoOut))
	apply := func(cmd protocol.Command) error { return sdk.ApplyCommand(dev, cmd) }

	shims := &sdk.Shims{
		Dev: dev,
		Log: logger,
		SerialOut: func(channel int, p []byte) {
			if channel == 1 {
				os.Stdout.Write(p)
			}
		},
		Exit: func(code int) {
			_ = driver.ReportExit()
			os.Exit(code)
		},
		OnTasksRun: func() {
			driver.DrainExecuting(apply)
			dev.Inputs.PollGamepads(gamepadSource())
		},
	}

	builder := jumptable.NewBuilder()
	sdk.Register(builder, shims)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := driver.SendReady(); err != nil {
			return fmt.Errorf("vexsim: send ready: %w", err)
		}
		return driver.Setup(ctx, apply)
	})

	if loadGuest != nil {
		g.Go(func() error {
			mem, table, entry, err := loadGuest(ctx, *guestPath)
			if err != nil {
				return fmt.Errorf("vexsim: load guest: %w", err)
			}
			if err := jumptable.Install(table, mem, builder); err != nil {
				return fmt.Errorf("vexsim: install jump table: %w", err)
			}
			return entry(ctx)
		})
	}

	if *windowFlag {
		preview := newPreviewGame(dev)
		g.Go(func() error {
			<-ctx.Done()
			return nil
		})
		if err := ebiten.RunGame(preview); err != nil {
			cancel()
			return fmt.Errorf("vexsim: preview window: %w", err)
		}
	}

	return g.Wait()
}

func gamepadSource() input.GamepadSource {
	return input.EbitenGamepadSource{}
}

// wireFrameSink points dev's display at a function that PNG-encodes and
// writes the presented frame to path, overwriting whatever was there
// before (spec.md §6: "writes a PNG file display.png ... overwriting
// prior frames"). An I/O error here is logged but never propagated into
// the guest (spec.md §7).
func wireFrameSink(dev *device.State, path string, logger *slog.Logger) {
	dev.Display.SetFrameSink(func(img image.Image) error {
		f, err := os.Create(path)
		if err != nil {
			logger.Error("frame sink: create file", "path", path, "error", err)
			return err
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			logger.Error("frame sink: encode png", "path", path, "error", err)
			return err
		}
		return nil
	})
}

func openProtocolStreams(inPath, outPath string) (*os.File, *os.File, func(), error) {
	in := os.Stdin
	out := os.Stdout
	closers := []func() error{}

	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open protocol-in %q: %w", inPath, err)
		}
		in = f
		closers = append(closers, f.Close)
	}
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open protocol-out %q: %w", outPath, err)
		}
		out = f
		closers = append(closers, f.Close)
	}

	return in, out, func() {
		for _, c := range closers {
			_ = c()
		}
	}, nil
}
