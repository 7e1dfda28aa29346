//go:build rp2040

package main

import (
	"machine"
	"runtime"
	"time"

	"potservo/core"
	"potservo/servo"
	"potservo/servo/config"
	"potservo/targets/pio"
)

// statusEvery is how many main-loop iterations pass between status lines;
// the loop also yields there so the async debug writer can drain.
const statusEvery = 4096

// boardConfig is an optional JSON override of servo.DefaultConfig, set at
// build time with -ldflags "-X main.boardConfig=..."
var boardConfig string

func main() {
	// Disable any watchdog left running by a previous image
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	// Debug console on the default serial (USB CDC)
	core.SetDebugWriter(func(s string) {
		machine.Serial.Write([]byte(s))
		machine.Serial.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()

	cfg, err := config.ForBoard([]byte(boardConfig), timerHz)
	if err != nil {
		halt("config: " + err.Error())
	}

	// Initialize and register the HAL drivers
	core.SetGPIODriver(NewRPGPIODriver())
	core.SetADCDriver(NewRPAdcDriver())
	core.SetTimerDriver(NewFrameTimer())

	hw := servo.Hardware{
		GPIO:  core.MustGPIO(),
		ADC:   core.MustADC(),
		Timer: core.MustTimer(),
	}
	switch cfg.Output {
	case servo.OutputPIO:
		out, err := pio.NewPulseOutput(0, 0, machine.Pin(cfg.ServoPin), timerHz)
		if err != nil {
			halt("pio output: " + err.Error())
		}
		hw.Output = out
	case servo.OutputPWM:
		out, err := newPWMOutput(machine.Pin(cfg.ServoPin), timerHz)
		if err != nil {
			halt("pwm output: " + err.Error())
		}
		hw.Output = out
	}

	ctrl, err := servo.New(*cfg, hw)
	if err != nil {
		halt("controller: " + err.Error())
	}
	if err := ctrl.Setup(); err != nil {
		halt(err.Error())
	}

	// Main loop: sample and select the mode forever
	var iterations uint32
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					core.DebugPrintln("[SERVO] main loop panic")
					core.DumpTimingRing()
				}
			}()
			ctrl.Step()
		}()

		iterations++
		if iterations%statusEvery == 0 {
			reportStatus(ctrl)
			runtime.Gosched()
		}
	}
}

// Counters at the last timing dump
var dumpedOverruns, dumpedStalls uint32

func reportStatus(ctrl *servo.Controller) {
	st := ctrl.Stats()
	core.DebugPrintln("[SERVO] mode=" + ctrl.Mode().String() +
		" sample=" + core.Utoa(uint32(ctrl.Sample())) +
		" width=" + core.Utoa(st.LastWidth) +
		" frames=" + core.Utoa(st.Frames) +
		" clamps=" + core.Utoa(st.Clamps) +
		" overruns=" + core.Utoa(st.Overruns))
	stalls := ctrl.Sampler().Stalls()
	if st.Overruns != dumpedOverruns || stalls != dumpedStalls {
		dumpedOverruns, dumpedStalls = st.Overruns, stalls
		core.DumpTimingRing()
	}
}

// halt reports a setup failure and parks the CPU with the servo line idle
func halt(msg string) {
	for {
		core.DebugPrintln("[SERVO] halted: " + msg)
		time.Sleep(time.Second)
	}
}
