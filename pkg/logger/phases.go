package logger

import (
	"time"
)

// PhaseTracker logs the start and completion of the sequential phases of a
// snapshot computation run (load, aggregate, risk, cohort, publish). The
// engine is single-threaded, so no synchronization is needed.
type PhaseTracker struct {
	logger     Logger
	run        string
	phase      string
	runStart   time.Time
	phaseStart time.Time
	completed  int
}

// NewPhaseTracker creates a tracker for a named run
func NewPhaseTracker(run string, log Logger) *PhaseTracker {
	if log == nil {
		log = GetGlobalLogger()
	}

	tracker := &PhaseTracker{
		logger:   log.WithComponent("phases"),
		run:      run,
		runStart: time.Now(),
	}

	tracker.logger.WithField("run", run).Info("Starting run")
	return tracker
}

// Begin starts a new phase, closing the previous one if still open
func (p *PhaseTracker) Begin(phase string) {
	if p.phase != "" {
		p.endPhase()
	}

	p.phase = phase
	p.phaseStart = time.Now()
	p.logger.WithFields(Fields{
		"run":   p.run,
		"phase": phase,
	}).Debug("Phase started")
}

// EndWithCount closes the current phase, recording how many records it covered
func (p *PhaseTracker) EndWithCount(records int) {
	if p.phase == "" {
		return
	}

	p.logger.WithFields(Fields{
		"run":      p.run,
		"phase":    p.phase,
		"records":  records,
		"duration": time.Since(p.phaseStart).String(),
	}).Info("Phase completed")

	p.phase = ""
	p.completed++
}

func (p *PhaseTracker) endPhase() {
	p.logger.WithFields(Fields{
		"run":      p.run,
		"phase":    p.phase,
		"duration": time.Since(p.phaseStart).String(),
	}).Info("Phase completed")

	p.phase = ""
	p.completed++
}

// Complete closes any open phase and logs final run statistics
func (p *PhaseTracker) Complete() {
	if p.phase != "" {
		p.endPhase()
	}

	p.logger.WithFields(Fields{
		"run":      p.run,
		"phases":   p.completed,
		"duration": time.Since(p.runStart).String(),
	}).Info("Run completed")
}

// CompleteWithError closes the run after a failure
func (p *PhaseTracker) CompleteWithError(err error) {
	p.logger.WithFields(Fields{
		"run":      p.run,
		"phase":    p.phase,
		"duration": time.Since(p.runStart).String(),
	}).WithError(err).Error("Run failed")

	p.phase = ""
}
