package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"sitegauge/internal/config"
	"sitegauge/internal/improve"
	"sitegauge/internal/logging"
	"sitegauge/internal/site"
)

// SessionState tracks the lifecycle of an improvement session.
type SessionState string

const (
	StateRunning SessionState = "running"
	StateDone    SessionState = "done"
	StateError   SessionState = "error"
)

// Session holds one improvement run driven over MCP. The loop executes in a
// background goroutine so the client can poll for the report while fixes are
// being applied.
type Session struct {
	ID       string
	SiteName string

	state   SessionState
	session *improve.Session
	artifact *site.Site
	err     error
	doneCh  chan struct{}
	cancel  context.CancelFunc

	mu sync.Mutex
}

// StartImprovementInput carries the parsed improve_site arguments.
type StartImprovementInput struct {
	SiteJSON      []byte
	TargetScore   float64
	MaxIterations int
	Cfg           *config.Config
}

// NewSession parses the artifact, validates the configuration, and spawns
// the improvement loop. It returns immediately.
func NewSession(input StartImprovementInput) (*Session, error) {
	var s site.Site
	if err := json.Unmarshal(input.SiteJSON, &s); err != nil {
		return nil, fmt.Errorf("parse site artifact: %w", err)
	}

	cfg := input.Cfg
	if cfg == nil {
		cfg = config.Default()
	}
	if input.TargetScore > 0 {
		cfg.TargetScore = input.TargetScore
	}
	if input.MaxIterations > 0 {
		cfg.MaxIterations = input.MaxIterations
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runCtx, runCancel := context.WithCancel(context.Background())

	sess := &Session{
		ID:       fmt.Sprintf("s-%d", time.Now().UnixMilli()),
		SiteName: s.Name,
		state:    StateRunning,
		artifact: &s,
		doneCh:   make(chan struct{}),
		cancel:   runCancel,
	}

	go sess.run(runCtx, improve.NewOrchestrator(cfg))

	return sess, nil
}

// run executes the improvement loop and captures the result.
func (s *Session) run(ctx context.Context, o *improve.Orchestrator) {
	defer close(s.doneCh)
	defer s.cancel()
	logger := logging.New("mcp-session")

	result, err := o.Improve(ctx, s.artifact)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateError
		s.err = err
		logger.Error("improvement session failed", "session_id", s.ID, "error", err)
		return
	}
	s.state = StateDone
	s.session = result
	logger.Info("improvement session complete",
		"session_id", s.ID, "iterations", len(result.Iterations),
		"reason", string(result.TerminationReason))
}

// Cancel terminates the loop goroutine and releases resources.
func (s *Session) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the finished improvement session, or nil while running.
func (s *Session) Result() *improve.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Artifact returns the improved site artifact. Safe to read only after Done.
func (s *Session) Artifact() *site.Site {
	return s.artifact
}

// Err returns any fatal error from the improvement run.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done returns a channel that closes when the session completes.
func (s *Session) Done() <-chan struct{} {
	return s.doneCh
}
