//go:build rp2040

package pio

// PIO pulse output using tinygo-org/pio.
// The state machine clock is divided down to the frame timer's tick rate
// so one FIFO word is the pulse width in ticks. The CPU only pushes one
// word per frame and never waits on the pulse.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// Program:
//
//	Pull the width (ticks) into X, raise the pin, spin X+1 cycles, drop it.
//
// buildPulseProgram creates the servo pulse PIO program using AssemblerV0
func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestX, 32).Encode(),   // 1: out x, 32 (width - overhead)
		asm.Set(rp2pio.SetDestPins, 1).Encode(), // 2: set pins, 1
		// high_loop:
		asm.Jmp(3, rp2pio.JmpXNZeroDec).Encode(), // 3: jmp x--, 3
		asm.Set(rp2pio.SetDestPins, 0).Encode(),  // 4: set pins, 0
		// .wrap
	}
}

const pulsePIOOrigin = 0 // Load at offset 0 for correct jump addresses

// pulseOverhead is the cycles the pin is high outside the counted loop:
// the set that raises it and the final fall-through jmp.
const pulseOverhead = 2

// PulseOutput implements servo.PulseOutput on a PIO state machine
type PulseOutput struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
}

// NewPulseOutput claims state machine smNum on PIO pioNum (0 or 1) and
// drives pin with one PIO cycle per timer tick at tickHz.
func NewPulseOutput(pioNum, smNum uint8, pin machine.Pin, tickHz uint32) (*PulseOutput, error) {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	div, err := clockDivider(machine.CPUFrequency(), tickHz)
	if err != nil {
		return nil, err
	}

	p := &PulseOutput{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
		pin: pin,
	}

	// Claim the state machine first
	p.sm.TryClaim()

	program := buildPulseProgram()
	offset, err := p.pio.AddProgram(program, pulsePIOOrigin)
	if err != nil {
		return nil, err
	}
	p.offset = offset

	p.pin.Configure(machine.PinConfig{Mode: p.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(p.pin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(uint16(div), 0)

	// Initialize state machine before pin directions
	p.sm.Init(offset, cfg)
	p.sm.SetPindirsConsecutive(p.pin, 1, true)
	p.sm.SetPinsConsecutive(p.pin, 1, false)
	p.sm.SetEnabled(true)

	return p, nil
}

// Emit queues one pulse of width ticks. If the previous frame's word is
// still queued the FIFO is full and this frame is skipped.
func (p *PulseOutput) Emit(width uint32) {
	if width < pulseOverhead {
		width = pulseOverhead
	}
	if p.sm.IsTxFIFOFull() {
		return
	}
	p.sm.TxPut(width - pulseOverhead)
}

// Stop halts the state machine and leaves the pin low
func (p *PulseOutput) Stop() {
	p.sm.SetEnabled(false)
	p.sm.ClearFIFOs()
	p.sm.Restart()
	p.sm.SetPinsConsecutive(p.pin, 1, false)
}
