// Package motion decides between the full and reduced transition sequences
// from the host's "prefers reduced motion" capability
package motion

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/stagefx/timeline"
)

// ErrUnavailable is returned by capabilities that cannot answer
var ErrUnavailable = errors.New("motion preference unavailable")

// Capability reports the user's motion preference
type Capability interface {
	PrefersReducedMotion() (bool, error)
}

// CapabilityFunc adapts a function to Capability
type CapabilityFunc func() (bool, error)

func (f CapabilityFunc) PrefersReducedMotion() (bool, error) { return f() }

// Static always answers the same value
type Static bool

func (s Static) PrefersReducedMotion() (bool, error) { return bool(s), nil }

// Environment variables consulted by EnvCapability
const (
	EnvReducedMotion = "STAGEFX_REDUCED_MOTION"
	EnvNoMotion      = "NO_MOTION"
)

// EnvCapability reads the preference from the process environment
// STAGEFX_REDUCED_MOTION takes a boolean; NO_MOTION set to anything non-empty means reduced
type EnvCapability struct {
	Lookup func(string) (string, bool)
}

func (e EnvCapability) PrefersReducedMotion() (bool, error) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvReducedMotion); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("parse %s=%q: %w", EnvReducedMotion, v, err)
		}
		return b, nil
	}
	if v, ok := lookup(EnvNoMotion); ok && v != "" {
		return true, nil
	}
	return false, ErrUnavailable
}

// Override lets a runtime toggle win over an underlying capability
type Override struct {
	base  Capability
	state atomic.Int32 // 0 unset, 1 reduced, 2 full
}

// NewOverride wraps base; with no override set, base answers
func NewOverride(base Capability) *Override {
	return &Override{base: base}
}

// Set forces a preference
func (o *Override) Set(reduced bool) {
	if reduced {
		o.state.Store(1)
	} else {
		o.state.Store(2)
	}
}

// Clear removes the forced preference
func (o *Override) Clear() {
	o.state.Store(0)
}

// Toggle flips the effective preference and returns the new value
func (o *Override) Toggle() bool {
	cur, err := o.PrefersReducedMotion()
	if err != nil {
		cur = false
	}
	o.Set(!cur)
	return !cur
}

func (o *Override) PrefersReducedMotion() (bool, error) {
	switch o.state.Load() {
	case 1:
		return true, nil
	case 2:
		return false, nil
	}
	if o.base == nil {
		return false, ErrUnavailable
	}
	return o.base.PrefersReducedMotion()
}

// Policy maps the capability to a timeline profile
type Policy struct {
	capability Capability
	logger     *zap.Logger
}

// NewPolicy creates a policy; nil capability always selects full motion
func NewPolicy(capability Capability, logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{capability: capability, logger: logger}
}

// Select queries the capability once; any failure selects full motion
func (p *Policy) Select() (profile timeline.MotionProfile) {
	if p == nil || p.capability == nil {
		return timeline.MotionFull
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("motion capability panicked, using full motion", zap.Any("panic", r))
			profile = timeline.MotionFull
		}
	}()

	reduced, err := p.capability.PrefersReducedMotion()
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			p.logger.Debug("motion capability query failed, using full motion", zap.Error(err))
		}
		return timeline.MotionFull
	}
	if reduced {
		return timeline.MotionReduced
	}
	return timeline.MotionFull
}
