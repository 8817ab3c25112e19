// Package mcp exposes the assessment engine and improvement loop as MCP
// tools, so an agent can score a generated site, launch a repair session,
// and pull the report when it finishes.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"sitegauge/internal/assess"
	"sitegauge/internal/config"
	"sitegauge/internal/fix"
	"sitegauge/internal/format"
	"sitegauge/internal/improve"
	"sitegauge/internal/logging"
	"sitegauge/internal/report"
	"sitegauge/internal/site"
)

// Server wraps the MCP SDK server and manages improvement sessions. One
// session runs at a time; the artifact is single-writer for its duration.
type Server struct {
	MCPServer *sdkmcp.Server
	Cfg       *config.Config

	mu      sync.Mutex
	session *Session
}

// NewServer creates an MCP server with assessment and improvement tools.
func NewServer(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{Cfg: cfg}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "sitegauge", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "assess_site",
		Description: "Assess a site artifact once. Returns the verdict, weighted score, category scores, and the prioritized issue queue.",
	}, s.handleAssessSite)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "improve_site",
		Description: "Start an improvement session on a site artifact. Spawns the repair loop and returns a session ID.",
	}, s.handleImproveSite)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_session_report",
		Description: "Get the finished session report: per-iteration fixes with score deltas, termination reason, final verdict, and the improved artifact. Blocks until the session completes.",
	}, s.handleGetSessionReport)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_fixers",
		Description: "List the issue kinds the built-in fixer registry can repair.",
	}, s.handleListFixers)
}

// --- Tool input/output types ---

type assessSiteInput struct {
	SiteJSON string `json:"site_json" jsonschema:"site artifact as a JSON string"`
}

type assessSiteOutput struct {
	Report     string             `json:"report"`
	Assessment *assess.Assessment `json:"assessment"`
}

type improveSiteInput struct {
	SiteJSON      string  `json:"site_json" jsonschema:"site artifact as a JSON string"`
	TargetScore   float64 `json:"target_score,omitempty" jsonschema:"weighted score to reach, 0-100 (default 75)"`
	MaxIterations int     `json:"max_iterations,omitempty" jsonschema:"iteration cap (default 10)"`
	Force         bool    `json:"force,omitempty" jsonschema:"cancel any running session and start fresh"`
}

type improveSiteOutput struct {
	SessionID string `json:"session_id"`
	SiteName  string `json:"site_name"`
	Status    string `json:"status"`
}

type getSessionReportInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID from improve_site"`
}

type getSessionReportOutput struct {
	Status   string           `json:"status"`
	Report   string           `json:"report,omitempty"`
	Session  *improve.Session `json:"session,omitempty"`
	SiteJSON string           `json:"site_json,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type listFixersInput struct{}

type listFixersOutput struct {
	Kinds []string `json:"kinds"`
}

// --- Tool handlers ---

func (s *Server) handleAssessSite(ctx context.Context, _ *sdkmcp.CallToolRequest, input assessSiteInput) (*sdkmcp.CallToolResult, assessSiteOutput, error) {
	var artifact site.Site
	if err := json.Unmarshal([]byte(input.SiteJSON), &artifact); err != nil {
		return nil, assessSiteOutput{}, fmt.Errorf("parse site artifact: %w", err)
	}

	engine := assess.NewEngine(s.Cfg)
	a, err := engine.Assess(ctx, &artifact)
	if err != nil {
		return nil, assessSiteOutput{}, fmt.Errorf("assess_site: %w", err)
	}

	return nil, assessSiteOutput{
		Report:     report.FormatAssessment(a, format.Markdown),
		Assessment: a,
	}, nil
}

func (s *Server) handleImproveSite(ctx context.Context, _ *sdkmcp.CallToolRequest, input improveSiteInput) (*sdkmcp.CallToolResult, improveSiteOutput, error) {
	logger := logging.New("mcp-session")
	s.mu.Lock()
	if s.session != nil {
		select {
		case <-s.session.Done():
			s.session.Cancel()
		default:
			if input.Force {
				logger.Warn("force-replacing active session", "old_id", s.session.ID)
				s.session.Cancel()
			} else {
				s.mu.Unlock()
				return nil, improveSiteOutput{}, fmt.Errorf("an improvement session is already running (id=%s)", s.session.ID)
			}
		}
	}
	s.session = nil
	s.mu.Unlock()

	cfg := *s.Cfg
	sess, err := NewSession(StartImprovementInput{
		SiteJSON:      []byte(input.SiteJSON),
		TargetScore:   input.TargetScore,
		MaxIterations: input.MaxIterations,
		Cfg:           &cfg,
	})
	if err != nil {
		return nil, improveSiteOutput{}, fmt.Errorf("improve_site: %w", err)
	}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()

	return nil, improveSiteOutput{
		SessionID: sess.ID,
		SiteName:  sess.SiteName,
		Status:    string(StateRunning),
	}, nil
}

func (s *Server) handleGetSessionReport(ctx context.Context, _ *sdkmcp.CallToolRequest, input getSessionReportInput) (*sdkmcp.CallToolResult, getSessionReportOutput, error) {
	sess, err := s.getSession(input.SessionID)
	if err != nil {
		return nil, getSessionReportOutput{}, err
	}

	select {
	case <-sess.Done():
	case <-ctx.Done():
		return nil, getSessionReportOutput{}, ctx.Err()
	}

	if sessErr := sess.Err(); sessErr != nil {
		return nil, getSessionReportOutput{
			Status: string(StateError),
			Error:  sessErr.Error(),
		}, nil
	}

	result := sess.Result()
	if result == nil {
		return nil, getSessionReportOutput{Status: "no_report"}, nil
	}

	improved, err := json.Marshal(sess.Artifact())
	if err != nil {
		return nil, getSessionReportOutput{}, fmt.Errorf("marshal improved artifact: %w", err)
	}

	return nil, getSessionReportOutput{
		Status:   string(StateDone),
		Report:   report.FormatSession(result, format.Markdown),
		Session:  result,
		SiteJSON: string(improved),
	}, nil
}

func (s *Server) handleListFixers(_ context.Context, _ *sdkmcp.CallToolRequest, _ listFixersInput) (*sdkmcp.CallToolResult, listFixersOutput, error) {
	return nil, listFixersOutput{Kinds: fix.Default().Kinds()}, nil
}

// SessionID returns the current session's ID, or empty string if none.
func (s *Server) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return s.session.ID
	}
	return ""
}

// Shutdown cancels any active session, releasing the loop goroutine.
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Cancel()
		s.session = nil
	}
}

func (s *Server) getSession(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, fmt.Errorf("no active session (call improve_site first)")
	}
	if s.session.ID != id {
		return nil, fmt.Errorf("session_id mismatch: have %s, got %s", s.session.ID, id)
	}
	return s.session, nil
}
