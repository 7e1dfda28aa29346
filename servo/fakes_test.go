package servo

import "potservo/core"

// fakeGPIO records configuration calls and serves scripted input levels
type fakeGPIO struct {
	levels  map[core.GPIOPin]bool
	outputs map[core.GPIOPin]bool
	pulls   map[core.GPIOPin]core.Pull
	calls   []string
	writes  []bool

	inputErr  error
	outputErr error
}

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{
		levels:  map[core.GPIOPin]bool{},
		outputs: map[core.GPIOPin]bool{},
		pulls:   map[core.GPIOPin]core.Pull{},
	}
}

func (g *fakeGPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.calls = append(g.calls, "output")
	if g.outputErr != nil {
		return g.outputErr
	}
	g.outputs[pin] = true
	return nil
}

func (g *fakeGPIO) ConfigureInput(pin core.GPIOPin, pull core.Pull) error {
	g.calls = append(g.calls, "input")
	if g.inputErr != nil {
		return g.inputErr
	}
	g.pulls[pin] = pull
	return nil
}

func (g *fakeGPIO) SetPin(pin core.GPIOPin, value bool) {
	g.levels[pin] = value
	g.writes = append(g.writes, value)
}

func (g *fakeGPIO) ReadPin(pin core.GPIOPin) bool { return g.levels[pin] }

// fakeADC completes each conversion after pollsPerConversion failed polls
type fakeADC struct {
	value              core.ADCValue
	pollsPerConversion int
	polls              int
	starts             int
	channel            core.ADCChannelID
	configErr          error
}

func (a *fakeADC) ConfigureChannel(ch core.ADCChannelID) error {
	a.channel = ch
	return a.configErr
}

func (a *fakeADC) StartConversion() {
	a.starts++
	a.polls = 0
}

func (a *fakeADC) ConversionDone() bool {
	if a.polls >= a.pollsPerConversion {
		return true
	}
	a.polls++
	return false
}

func (a *fakeADC) ReadResult() core.ADCValue { return a.value }

// fakeTimer reports a fixed in-frame tick and keeps the registered callback
type fakeTimer struct {
	hz        uint32
	tick      uint32
	period    uint32
	callback  func()
	periodErr error
	overrun   bool
	order     *[]string
}

func (t *fakeTimer) ConfigurePeriod(ticks uint32) error {
	if t.order != nil {
		*t.order = append(*t.order, "period")
	}
	if t.periodErr != nil {
		return t.periodErr
	}
	t.period = ticks
	return nil
}

func (t *fakeTimer) RegisterCallback(fn func()) {
	if t.order != nil {
		*t.order = append(*t.order, "callback")
	}
	t.callback = fn
}

func (t *fakeTimer) CurrentTick() uint32 { return t.tick }
func (t *fakeTimer) TickRate() uint32    { return t.hz }

// overrunTimer also reports missed compares
type overrunTimer struct {
	fakeTimer
}

func (t *overrunTimer) TakeOverrun() bool {
	o := t.overrun
	t.overrun = false
	return o
}

// recordingOutput captures emitted widths
type recordingOutput struct {
	widths []uint32
}

func (o *recordingOutput) Emit(width uint32) { o.widths = append(o.widths, width) }
