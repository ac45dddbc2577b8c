package connectivity

import (
	"context"
	"sync"
	"time"
)

type State int

const (
	Offline State = iota
	Online
)

func (s State) String() string {
	switch s {
	case Offline:
		return "OFFLINE"
	case Online:
		return "ONLINE"
	default:
		return "INVALID STATE"
	}
}

type Reporter interface {
	CurrentState() State
	WaitForStateChange(context.Context, State) bool
}

// Probe reports whether the liquidity provider is reachable.
type Probe func(ctx context.Context) (bool, error)

type Config struct {
	Probe    Probe
	Interval time.Duration

	// OnChange is called with every new state.
	OnChange func(State)
	Logger   Logger
}

// check PollingReporter compliance to its interface during compile time
var _ Reporter = (*PollingReporter)(nil)

// PollingReporter probes the connection to the liquidity provider in a fixed
// interval. A failing probe counts as offline.
type PollingReporter struct {
	probe    Probe
	interval time.Duration
	onChange func(State)
	log      Logger

	mu      sync.Mutex
	state   State
	changed chan struct{}

	quit chan struct{}
	wg   sync.WaitGroup
}

func NewReporter(config *Config) *PollingReporter {
	r := &PollingReporter{
		probe:    config.Probe,
		interval: config.Interval,
		onChange: config.OnChange,
		log:      config.Logger,
		state:    Offline,
		changed:  make(chan struct{}),
		quit:     make(chan struct{}),
	}

	if r.log == nil {
		r.log = noopLogger{}
	}

	if r.interval == 0 {
		r.interval = 30 * time.Second
	}

	return r
}

func (r *PollingReporter) Start() {
	r.wg.Add(1)
	go r.poll()
}

func (r *PollingReporter) Stop() {
	close(r.quit)
	r.wg.Wait()
}

func (r *PollingReporter) poll() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		r.check()

		select {
		case <-ticker.C:
		case <-r.quit:
			return
		}
	}
}

func (r *PollingReporter) check() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()

	online, err := r.probe(ctx)
	if err != nil {
		r.log.Debugf("Connectivity probe failed: %v", err)
		online = false
	}

	if online {
		r.setState(Online)
	} else {
		r.setState(Offline)
	}
}

func (r *PollingReporter) setState(state State) {
	r.mu.Lock()
	if state == r.state {
		r.mu.Unlock()
		return
	}

	r.state = state
	close(r.changed)
	r.changed = make(chan struct{})
	r.mu.Unlock()

	r.log.Infof("Liquidity provider is %v", state)

	if r.onChange != nil {
		r.onChange(state)
	}
}

func (r *PollingReporter) CurrentState() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// WaitForStateChange blocks until the state differs from state. It returns
// false if ctx is done first.
func (r *PollingReporter) WaitForStateChange(ctx context.Context, state State) bool {
	for {
		r.mu.Lock()
		if r.state != state {
			r.mu.Unlock()
			return true
		}
		changed := r.changed
		r.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return false
		}
	}
}
