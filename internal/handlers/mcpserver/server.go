// Package mcpserver exposes lookups as Model Context Protocol tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/orchestrators/lookup"
)

// ServerConfig holds dependencies for the MCP server
type ServerConfig struct {
	LookupService lookup.Service
	// Version is reported to clients
	Version string
}

// Validate ensures all required dependencies are present
func (c *ServerConfig) Validate() error {
	if c == nil || c.LookupService == nil {
		return errors.InvalidArgument("lookup service is required")
	}
	return nil
}

// Server wraps the MCP server with lookup tools.
type Server struct {
	mcp           *server.MCPServer
	lookupService lookup.Service
}

// New creates a new MCP server with every lookup tool registered.
func New(cfg *ServerConfig) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{lookupService: cfg.LookupService}
	s.mcp = server.NewMCPServer("Lenna", version, server.WithToolCapabilities(false))

	s.mcp.AddTool(mcp.NewTool("get_character",
		mcp.WithDescription("Look up a GFL2 doll: stats, weaknesses and fully expanded skills."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Doll name, e.g. Suomi")),
		mcp.WithBoolean("with_keys", mcp.Description("Include neural helix nodes")),
		mcp.WithBoolean("use_cache", mcp.Description("Serve the cached copy without asking the wiki")),
		mcp.WithBoolean("force", mcp.Description("Refetch every page from the wiki")),
	), s.getCharacter)

	s.mcp.AddTool(mcp.NewTool("get_weapon",
		mcp.WithDescription("Look up a weapon by name or nickname (e.g. hk416)."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Weapon name")),
		mcp.WithBoolean("use_cache", mcp.Description("Serve the cached copy without asking the wiki")),
		mcp.WithBoolean("force", mcp.Description("Refetch the catalogue from the wiki")),
	), s.getWeapon)

	s.mcp.AddTool(mcp.NewTool("get_status_effect",
		mcp.WithDescription("Look up what a status effect does."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Status effect name, e.g. Frozen")),
		mcp.WithBoolean("use_cache", mcp.Description("Serve the cached copy without asking the wiki")),
		mcp.WithBoolean("force", mcp.Description("Refetch the page from the wiki")),
	), s.getStatusEffect)

	return s, nil
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func options(req mcp.CallToolRequest) lookup.Options {
	return lookup.Options{
		UseCache: req.GetBool("use_cache", false),
		Force:    req.GetBool("force", false),
	}
}

func (s *Server) getCharacter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.lookupService.GetCharacter(ctx, &lookup.GetCharacterInput{Name: name, Options: options(req)})
	if err != nil {
		return toolError(ctx, "get_character", err), nil
	}

	character := *out.Character
	if !req.GetBool("with_keys", false) {
		character.Nodes = nil
	}
	return toolJSON(map[string]any{"character": character, "degraded": out.Degraded})
}

func (s *Server) getWeapon(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.lookupService.GetWeapon(ctx, &lookup.GetWeaponInput{Name: name, Options: options(req)})
	if err != nil {
		return toolError(ctx, "get_weapon", err), nil
	}
	return toolJSON(map[string]any{"weapon": out.Weapon, "degraded": out.Degraded})
}

func (s *Server) getStatusEffect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.lookupService.GetStatusEffect(ctx, &lookup.GetStatusEffectInput{Name: name, Options: options(req)})
	if err != nil {
		return toolError(ctx, "get_status_effect", err), nil
	}
	return toolJSON(map[string]any{"status_effect": out.StatusEffect, "degraded": out.Degraded})
}

// toolError reports lookup failures to the model as tool errors rather than
// protocol errors.
func toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	code := errors.GetCode(err)
	slog.WarnContext(ctx, "mcp tool failed", "tool", tool, "code", code.String(), "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", code, errors.GetMessage(err)))
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to encode result")
	}
	return mcp.NewToolResultText(string(out)), nil
}
