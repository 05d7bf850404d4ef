// Package mcp provides an MCP (Model Context Protocol) server for modelcard.
// Agents render and inspect model cards through MCP tools instead of the CLI.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/featrix/modelcard/internal/chart"
	"github.com/featrix/modelcard/internal/classify"
	"github.com/featrix/modelcard/internal/output"
	"github.com/featrix/modelcard/internal/render"
	"github.com/featrix/modelcard/internal/report"
	"github.com/featrix/modelcard/internal/schema"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with model-card tools.
type Server struct {
	mcpServer    *server.MCPServer
	renderer     *render.Renderer
	root         string
	log          logrus.FieldLogger
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools   []string      // Which tools to expose (empty = defaults)
	Timeout time.Duration // Inactivity timeout (0 = no timeout)

	// Root resolves relative card paths. Empty means the working directory.
	Root string

	Renderer *render.Renderer
	Log      logrus.FieldLogger
}

// DefaultTools is the default set of tools to expose
var DefaultTools = []string{"modelcard_render", "modelcard_sections", "modelcard_charts", "modelcard_classify"}

// AllTools lists all available tools
var AllTools = []string{"modelcard_render", "modelcard_sections", "modelcard_charts", "modelcard_classify", "modelcard_validate"}

// New creates a new MCP server.
func New(cfg Config) (*Server, error) {
	if cfg.Renderer == nil {
		cfg.Renderer = render.New(render.DefaultOptions())
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		root = wd
	}

	mcpServer := server.NewMCPServer(
		"modelcard",
		Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		renderer:     cfg.Renderer,
		root:         root,
		log:          cfg.Log,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = DefaultTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	schema, ok := toolSchemaRegistry[name]
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}
	s.mcpServer.AddTool(newTool(schema), s.handler(name))
	return nil
}

// newTool builds the MCP tool definition from its schema entry.
func newTool(ts ToolSchema) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(ts.Description)}
	for _, p := range ts.Parameters {
		popts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		if len(p.Enum) > 0 {
			popts = append(popts, mcp.Enum(p.Enum...))
		}
		switch p.Type {
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, popts...))
		case "number":
			opts = append(opts, mcp.WithNumber(p.Name, popts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, popts...))
		}
	}
	return mcp.NewTool(ts.Name, opts...)
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.updateActivity()

		result, err := s.CallTool(name, req.GetArguments())
		if err != nil {
			s.log.WithError(err).WithField("tool", name).Debug("tool call failed")
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			s.log.WithField("timeout", s.timeout).Info("serve: exiting after inactivity")
			os.Exit(0)
		}
	}
}

func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the registered tools in AllTools order.
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for _, t := range AllTools {
		if s.tools[t] {
			tools = append(tools, t)
		}
	}
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Description string   `json:"description" yaml:"description"`
	Required    bool     `json:"required" yaml:"required"`
	Enum        []string `json:"enum,omitempty" yaml:"enum,omitempty"`
}

var sourceParams = []ParameterSchema{
	{Name: "path", Type: "string", Description: "Path to a model card JSON file"},
	{Name: "card", Type: "string", Description: "Inline model card JSON; used instead of path"},
}

func withSource(extra ...ParameterSchema) []ParameterSchema {
	return append(append([]ParameterSchema{}, sourceParams...), extra...)
}

// toolSchemaRegistry holds the schema definitions for all tools. newTool
// builds the MCP definitions from it.
var toolSchemaRegistry = map[string]ToolSchema{
	"modelcard_render": {
		Name:        "modelcard_render",
		Description: "Render a model card as static HTML, brief or detailed text, or the interactive component tree.",
		Parameters: withSource(
			ParameterSchema{Name: "format", Type: "string", Description: "Output format (default: text)",
				Enum: []string{"html", "text", "interactive", "tree", "json", "yaml"}},
			ParameterSchema{Name: "mode", Type: "string", Description: "Text mode (default: brief)",
				Enum: []string{"brief", "detailed"}},
		),
	},
	"modelcard_sections": {
		Name:        "modelcard_sections",
		Description: "List the sections of a model card with their formatted fields. Absent sections are reported as not present.",
		Parameters: withSource(
			ParameterSchema{Name: "section", Type: "string", Description: "Only return this section id, e.g. training_metrics"},
		),
	},
	"modelcard_charts": {
		Name:        "modelcard_charts",
		Description: "Derive the chart series of a model card: feature types, classification metrics, and top columns by mutual information.",
		Parameters: withSource(
			ParameterSchema{Name: "mermaid", Type: "boolean", Description: "Return Mermaid diagram source instead of JSON"},
			ParameterSchema{Name: "top", Type: "number", Description: "Columns in the column statistics chart (default: 10)"},
		),
	},
	"modelcard_classify": {
		Name:        "modelcard_classify",
		Description: "Classify a status, warning severity, or quality assessment into a display tier.",
		Parameters: []ParameterSchema{
			{Name: "domain", Type: "string", Description: "Vocabulary to classify against", Required: true,
				Enum: []string{"status", "severity", "quality"}},
			{Name: "value", Type: "string", Description: "Raw value, e.g. DONE or MODERATE", Required: true},
		},
	},
	"modelcard_validate": {
		Name:        "modelcard_validate",
		Description: "Check a model card against the model card JSON Schema. Returns the list of issues.",
		Parameters:  withSource(),
	},
}

// GetToolSchemas returns schemas for all registered tools.
func (s *Server) GetToolSchemas() []ToolSchema {
	names := s.ListTools()
	schemas := make([]ToolSchema, 0, len(names))
	for _, name := range names {
		schemas = append(schemas, toolSchemaRegistry[name])
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the result text or an error.
func (s *Server) CallTool(name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s (run 'modelcard serve --list-tools' to see available tools)", name)
	}

	switch name {
	case "modelcard_render":
		doc, err := s.loadDocument(args)
		if err != nil {
			return "", err
		}
		f := output.FormatText
		if v, _ := args["format"].(string); v != "" {
			if f, err = output.ParseFormat(v); err != nil {
				return "", err
			}
		}
		mode := output.TextBrief
		if v, _ := args["mode"].(string); v != "" {
			if mode, err = output.ParseTextMode(v); err != nil {
				return "", err
			}
		}
		return s.renderer.Render(doc, f, mode)

	case "modelcard_sections":
		doc, err := s.loadDocument(args)
		if err != nil {
			return "", err
		}
		section, _ := args["section"].(string)
		return s.executeSections(doc, section)

	case "modelcard_charts":
		doc, err := s.loadDocument(args)
		if err != nil {
			return "", err
		}
		asMermaid, _ := args["mermaid"].(bool)
		top := 0
		if t, ok := args["top"].(float64); ok {
			top = int(t)
		}
		return s.executeCharts(doc, asMermaid, top)

	case "modelcard_classify":
		domain, _ := args["domain"].(string)
		if domain == "" {
			return "", fmt.Errorf("domain parameter is required")
		}
		value, ok := args["value"].(string)
		if !ok {
			return "", fmt.Errorf("value parameter is required")
		}
		return executeClassify(domain, value)

	case "modelcard_validate":
		doc, err := s.loadDocument(args)
		if err != nil {
			return "", err
		}
		issues, err := schema.Validate(doc)
		if err != nil {
			return "", err
		}
		return toJSON(map[string]interface{}{
			"valid":  len(issues) == 0,
			"issues": issues,
		})

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// loadDocument returns the inline card, or reads the card at path.
func (s *Server) loadDocument(args map[string]interface{}) ([]byte, error) {
	if inline, _ := args["card"].(string); strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}

	path, _ := args["path"].(string)
	if path == "" {
		return nil, errors.New("either path or card parameter is required")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model card: %w", err)
	}
	return data, nil
}

func (s *Server) executeSections(doc []byte, section string) (string, error) {
	c, _, err := s.renderer.Model(doc)
	if err != nil {
		return "", err
	}

	if section == "" {
		return toJSON(c)
	}

	sec := c.Section(report.SectionID(section))
	if sec == nil {
		return "", fmt.Errorf("unknown section %q", section)
	}
	return toJSON(sec)
}

func (s *Server) executeCharts(doc []byte, asMermaid bool, top int) (string, error) {
	c, charts, err := s.renderer.Model(doc)
	if err != nil {
		return "", err
	}
	if top > 0 {
		charts.ColumnStatistics = chart.ColumnStatistics(c, top)
	}

	if !asMermaid {
		return toJSON(charts)
	}

	var blocks []string
	for _, series := range charts.All() {
		if series.Empty() {
			continue
		}
		blocks = append(blocks, chart.Mermaid(series))
	}
	return strings.Join(blocks, "\n"), nil
}

func executeClassify(domain, value string) (string, error) {
	d, err := classify.ParseDomain(domain)
	if err != nil {
		return "", err
	}
	tier := classify.ClassifyString(d, value)
	style := output.StyleFor(tier)
	return toJSON(map[string]string{
		"domain": string(d),
		"value":  value,
		"tier":   tier.String(),
		"color":  style.Color,
		"class":  style.Class,
	})
}

func toJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
