package mcp_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	mcpserver "sitegauge/internal/mcp"
	"sitegauge/internal/site"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
	os.Exit(m.Run())
}

// flawedSite is a two-page artifact with known defects: no meta descriptions,
// no contact block, no call to action.
func flawedSite(t *testing.T) string {
	t.Helper()
	s := site.Site{
		Name:    "Acme Plumbing",
		Tagline: "Fast, honest plumbing",
		Nav:     true,
		Pages: []site.Page{
			{
				Path:  "/",
				Title: "Acme Plumbing",
				Blocks: []site.Block{
					{Kind: site.BlockHero, Text: "Acme Plumbing", ImageSrc: "/img/team.jpg", ImageAlt: "The Acme crew"},
					{Kind: site.BlockParagraph, Text: "Acme Plumbing serves the whole metro area with reliable, trusted repairs. Our proven team guarantees quality results on every job, from leaky faucets to full repipes, and we arrive on time."},
				},
			},
			{
				Path:  "/services",
				Title: "Acme Plumbing — Services",
				Blocks: []site.Block{
					{Kind: site.BlockHeading, Level: 1, Text: "Services"},
					{Kind: site.BlockParagraph, Text: "Drain cleaning, water heater installation, emergency repairs, and remodel rough-ins. Every visit ends with a flat, written quote so you never see a surprise on the invoice."},
				},
			},
		},
		Style:   site.Stylesheet{Palette: []string{"#1f3a5f", "#f4f1ea"}, Fonts: []string{"Georgia"}},
		Contact: &site.ContactInfo{Phone: "555-0100", Email: "help@acmeplumbing.example"},
		Testimonials: []site.Testimonial{
			{Text: "Fixed our burst pipe in an hour.", Author: "R. Alvarez"},
		},
	}
	data, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("marshal fixture site: %v", err)
	}
	return string(data)
}

func newTestServer(t *testing.T) *mcpserver.Server {
	t.Helper()
	srv := mcpserver.NewServer(nil)
	t.Cleanup(srv.Shutdown)
	return srv
}

func connectInMemory(t *testing.T, ctx context.Context, srv *mcpserver.Server) *sdkmcp.ClientSession {
	t.Helper()
	t1, t2 := sdkmcp.NewInMemoryTransports()
	serverSession, err := srv.MCPServer.Connect(ctx, t1, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}
	return session
}

func callTool(t *testing.T, ctx context.Context, session *sdkmcp.ClientSession, name string, args map[string]any) map[string]any {
	t.Helper()
	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if res.IsError {
		for _, c := range res.Content {
			if tc, ok := c.(*sdkmcp.TextContent); ok {
				t.Fatalf("CallTool(%s) returned error: %s", name, tc.Text)
			}
		}
		t.Fatalf("CallTool(%s) returned error", name)
	}
	result := make(map[string]any)
	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			if err := json.Unmarshal([]byte(tc.Text), &result); err != nil {
				t.Fatalf("unmarshal tool result: %v (text: %s)", err, tc.Text)
			}
			return result
		}
	}
	t.Fatalf("no text content in tool result")
	return nil
}

func TestServer_ToolDiscovery(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	want := map[string]bool{
		"assess_site":        false,
		"improve_site":       false,
		"get_session_report": false,
		"list_fixers":        false,
	}
	for _, tool := range tools.Tools {
		if _, ok := want[tool.Name]; ok {
			want[tool.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("tool %q not found in ListTools", name)
		}
	}
}

func TestServer_AssessSite(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	result := callTool(t, ctx, session, "assess_site", map[string]any{
		"site_json": flawedSite(t),
	})

	reportText, _ := result["report"].(string)
	if reportText == "" {
		t.Fatal("expected non-empty report")
	}
	assessment, ok := result["assessment"].(map[string]any)
	if !ok {
		t.Fatalf("expected assessment object, got %T", result["assessment"])
	}
	if assessment["site_name"] != "Acme Plumbing" {
		t.Errorf("site_name = %v, want Acme Plumbing", assessment["site_name"])
	}
	score, _ := assessment["weighted_score"].(float64)
	if score <= 0 || score > 100 {
		t.Errorf("weighted_score = %v, want (0, 100]", score)
	}
	issues, _ := assessment["issues"].([]any)
	if len(issues) == 0 {
		t.Error("expected open issues for the flawed fixture")
	}
}

func TestServer_ImproveSite_FullLoop(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	startResult := callTool(t, ctx, session, "improve_site", map[string]any{
		"site_json":      flawedSite(t),
		"max_iterations": 5,
	})

	sessionID, ok := startResult["session_id"].(string)
	if !ok || sessionID == "" {
		t.Fatalf("expected non-empty session_id, got %v", startResult["session_id"])
	}
	if startResult["site_name"] != "Acme Plumbing" {
		t.Errorf("site_name = %v, want Acme Plumbing", startResult["site_name"])
	}

	// get_session_report blocks until the loop completes.
	reportResult := callTool(t, ctx, session, "get_session_report", map[string]any{
		"session_id": sessionID,
	})
	if reportResult["status"] != "done" {
		t.Fatalf("status = %v, want done", reportResult["status"])
	}
	if reportResult["report"] == "" {
		t.Error("expected non-empty report")
	}
	sess, ok := reportResult["session"].(map[string]any)
	if !ok {
		t.Fatalf("expected session object, got %T", reportResult["session"])
	}
	if sess["termination_reason"] == "" {
		t.Error("expected a termination reason")
	}

	improvedJSON, _ := reportResult["site_json"].(string)
	var improved site.Site
	if err := json.Unmarshal([]byte(improvedJSON), &improved); err != nil {
		t.Fatalf("unmarshal improved artifact: %v", err)
	}
	if improved.Name != "Acme Plumbing" {
		t.Errorf("improved artifact name = %q, want Acme Plumbing", improved.Name)
	}
}

func TestServer_GetSessionReport_UnknownSession(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_session_report",
		Arguments: map[string]any{"session_id": "s-does-not-exist"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error for unknown session_id")
	}
}

func TestServer_ListFixers(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	session := connectInMemory(t, ctx, srv)
	defer session.Close()

	result := callTool(t, ctx, session, "list_fixers", map[string]any{})
	kinds, ok := result["kinds"].([]any)
	if !ok || len(kinds) == 0 {
		t.Fatalf("expected non-empty kinds, got %v", result["kinds"])
	}
	found := false
	for _, k := range kinds {
		if k == "missing-contact" {
			found = true
		}
	}
	if !found {
		t.Error("expected missing-contact in registered fixer kinds")
	}
}
