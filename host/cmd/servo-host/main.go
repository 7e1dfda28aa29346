package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"potservo/core"
	"potservo/host/serial"
	"potservo/host/sim"
	"potservo/servo"
	"potservo/servo/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "monitor":
		err = runMonitor(os.Args[2:])
	case "simulate":
		err = runSimulate(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: servo-host <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  monitor    Tail the firmware debug console over USB serial")
	fmt.Println("  simulate   Run the controller against simulated hardware")
	fmt.Println()
}

func runMonitor(args []string) error {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	device := fs.String("device", "/dev/ttyACM0", "Serial device path")
	baud := fs.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	timingOnly := fs.Bool("timing", false, "Only print timing ring dump lines")
	fs.Parse(args)

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()

	fmt.Printf("Monitoring %s (Ctrl-C to stop)\n", *device)

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		close(done)
	}()

	var widths, clamps, overruns int
	err = serial.Tail(port, done, func(line serial.Line) error {
		if line.Timing != nil {
			switch line.Timing.EventType {
			case core.EvtPulse:
				widths++
			case core.EvtClamp:
				clamps++
			case core.EvtOverrun:
				overruns++
			}
		} else if *timingOnly {
			return nil
		}
		fmt.Printf("%s %s\n", line.Received.Format("15:04:05.000"), line.Text)
		return nil
	})
	fmt.Printf("\n%d pulses, %d clamped, %d overruns seen in timing dumps\n", widths, clamps, overruns)
	return err
}

func runSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON controller configuration (defaults when empty)")
	frames := fs.Uint("frames", 50, "Number of 20ms frames to simulate")
	pot := fs.String("pot", "sweep", `Potentiometer input: "sweep" or comma-separated readings, one per conversion`)
	pressEvery := fs.Uint("press-every", 0, "Press and release the mode button every N frames (0 = never)")
	adcTicks := fs.Uint("adc-ticks", 26, "Conversion latency in timer ticks")
	verbose := fs.Bool("verbose", false, "Print controller debug output")
	fs.Parse(args)

	var data []byte
	if *configPath != "" {
		var err error
		data, err = os.ReadFile(*configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	cfg, err := config.ForBoard(data, core.RefTickHz)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Output != servo.OutputGPIO {
		fmt.Printf("output %q is board-specific, simulating %q\n", cfg.Output, servo.OutputGPIO)
		cfg.Output = servo.OutputGPIO
	}

	if *verbose {
		core.SetDebugWriter(func(s string) { fmt.Println(s) })
		core.SetDebugEnabled(true)
		core.InitAsyncDebug()
	}

	board := sim.NewBoard(cfg.Calibration.TickHz, uint32(*adcTicks))
	if err := scriptPot(board, cfg.PeriodTicks, *frames, *pot); err != nil {
		return err
	}
	if *pressEvery > 0 {
		scriptButton(board, cfg, uint32(*pressEvery), uint32(*frames))
	}

	ctrl, err := servo.New(*cfg, board.Hardware())
	if err != nil {
		return err
	}
	if err := ctrl.Setup(); err != nil {
		return err
	}

	fmt.Printf("%6s %-7s %7s %6s %9s\n", "frame", "mode", "sample", "width", "pulse_us")
	for i := uint(0); i < *frames; i++ {
		board.RunFrames(ctrl.Step, 1)
		st := ctrl.Stats()
		fmt.Printf("%6d %-7s %7d %6d %9d\n", st.Frames, ctrl.Mode(), ctrl.Sample(), st.LastWidth,
			core.TicksToUS(st.LastWidth, cfg.Calibration.TickHz))
	}

	st := ctrl.Stats()
	fmt.Printf("\n%d frames, %d clamped, %d overruns, %d conversions\n",
		st.Frames, st.Clamps, st.Overruns, board.ADC.Conversions())
	if *verbose {
		core.DumpTimingRing()
	}
	return nil
}

func scriptPot(board *sim.Board, period uint32, frames uint, pattern string) error {
	if pattern == "sweep" {
		// One full 0 -> 1023 -> 0 triangle over the run
		span := period * uint32(frames)
		if span == 0 {
			span = 1
		}
		board.ADC.Follow(func(now uint32) core.ADCValue {
			phase := uint64(now%span) * 2 * uint64(core.ADCMax) / uint64(span)
			if phase > uint64(core.ADCMax) {
				phase = 2*uint64(core.ADCMax) - phase
			}
			return core.ADCValue(phase)
		})
		return nil
	}

	var values []core.ADCValue
	for _, f := range strings.Split(pattern, ",") {
		n, err := strconv.ParseUint(strings.TrimSpace(f), 10, 16)
		if err != nil {
			return fmt.Errorf("bad pot reading %q: %w", f, err)
		}
		values = append(values, core.ADCValue(n))
	}
	board.ADC.Script(values...)
	return nil
}

func scriptButton(board *sim.Board, cfg *servo.Config, every, frames uint32) {
	pressed, released := true, false
	if cfg.ButtonActiveLow {
		pressed, released = false, true
	}
	board.GPIO.Drive(cfg.ButtonPin, released)
	for f := every; f < frames; f += every {
		at := f * cfg.PeriodTicks
		board.At(at+cfg.PeriodTicks/4, func() { board.GPIO.Drive(cfg.ButtonPin, pressed) })
		board.At(at+cfg.PeriodTicks/2, func() { board.GPIO.Drive(cfg.ButtonPin, released) })
	}
}
