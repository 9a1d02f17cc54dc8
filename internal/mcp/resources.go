// ABOUTME: MCP resource implementations for water intake tracking.
// ABOUTME: Provides hydrate://today and hydrate://week resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI = "hydrate://today"
	weekURI  = "hydrate://week"
)

func (s *Server) registerResources() {
	// hydrate://today - today's intake against the goal
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Water Intake",
		Description: "Today's intake, goal, and progress",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// hydrate://week - the last 7 days
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         weekURI,
		Name:        "Weekly Water Intake",
		Description: "Water intake for the last 7 days, oldest first",
		MIMEType:    "application/json",
	}, s.handleWeekResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(todayURI, newTodayOutput(s.tracker.Status()))
}

func (s *Server) handleWeekResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(weekURI, newWeekOutput(s.tracker.Status()))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
