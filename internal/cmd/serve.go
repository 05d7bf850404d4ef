package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/featrix/modelcard/internal/config"
	"github.com/featrix/modelcard/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio so agents can
render and inspect model cards without spawning a process per call.

Cards are passed inline (card) or by path relative to the working
directory (path).

Examples:
  modelcard serve --mcp                       # Start with configured tools
  modelcard serve --mcp --tools render,charts # Start with specific tools only
  modelcard serve --mcp --timeout 30m         # Auto-stop after 30 minutes
  modelcard serve --status                    # Check if server is running
  modelcard serve --stop                      # Stop running server
  modelcard serve --list-tools                # Show available tools`,
	RunE: runServe,
}

var (
	serveMCP       bool
	serveTools     string
	serveTimeout   string
	serveStatus    bool
	serveStop      bool
	serveListTools bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Start MCP server (stdio transport)")
	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of tools to expose (default from config)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "", "Inactivity timeout, 0 for none (default from config)")
	serveCmd.Flags().BoolVar(&serveStatus, "status", false, "Check if server is running")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop running server")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	switch {
	case serveListTools:
		return listTools(out)
	case serveStatus:
		return checkServerStatus(out)
	case serveStop:
		return stopServer(out)
	case !serveMCP:
		return fmt.Errorf("use --mcp to start the MCP server, or --help for usage")
	}

	c := currentConfig()
	timeout := c.Serve.Timeout
	if serveTimeout != "" {
		d, err := parseDuration(serveTimeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		timeout = d
	}

	tools := c.Serve.Tools
	if serveTools != "" {
		tools = parseTools(serveTools)
	}

	server, err := mcp.New(mcp.Config{
		Tools:    tools,
		Timeout:  timeout,
		Renderer: newRenderer(false),
		Log:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := writePIDFile(); err != nil {
		logger.WithError(err).Warn("could not write PID file")
	}
	defer removePIDFile()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("serve: shutting down")
		removePIDFile()
		os.Exit(ExitOK)
	}()

	// stdout carries the protocol; logger writes to stderr.
	logger.WithFields(logrus.Fields{
		"tools":   server.ListTools(),
		"timeout": timeout,
	}).Info("serve: starting MCP server")

	return server.ServeStdio()
}

// parseTools splits a --tools list, expanding shorthand (render ->
// modelcard_render).
func parseTools(s string) []string {
	var tools []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "modelcard_") {
			t = "modelcard_" + t
		}
		tools = append(tools, t)
	}
	return tools
}

func listTools(out io.Writer) error {
	schemas := make(map[string]string)
	s, err := mcp.New(mcp.Config{Tools: mcp.AllTools, Root: "."})
	if err != nil {
		return err
	}
	for _, ts := range s.GetToolSchemas() {
		schemas[ts.Name] = ts.Description
	}

	fmt.Fprintln(out, "Available MCP tools:")
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range mcp.AllTools {
		fmt.Fprintf(w, "  %s\t%s\n", name, firstSentence(schemas[name]))
	}
	w.Flush()
	fmt.Fprintln(out)

	short := make([]string, len(currentConfig().Serve.Tools))
	for i, t := range currentConfig().Serve.Tools {
		short[i] = strings.TrimPrefix(t, "modelcard_")
	}
	fmt.Fprintf(out, "Default set: %s\n", strings.Join(short, ", "))
	return nil
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i]
	}
	return strings.TrimSuffix(s, ".")
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func getPIDFilePath() (string, error) {
	dir, err := config.FindConfigDir(".")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "serve.pid"), nil
}

func writePIDFile() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePIDFile() {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return
	}
	os.Remove(pidPath)
}

// readPID returns the recorded server PID, or 0 when none is recorded.
func readPID() (int, error) {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return 0, nil
	}
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return 0, nil
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		removePIDFile()
		return 0, fmt.Errorf("invalid PID file")
	}
	return pid, nil
}

func checkServerStatus(out io.Writer) error {
	pid, err := readPID()
	if err != nil || pid == 0 {
		fmt.Fprintln(out, "Status: not running")
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		fmt.Fprintln(out, "Status: not running")
		removePIDFile()
		return nil
	}

	// On Unix, FindProcess always succeeds, so we need to send signal 0 to check
	if err := process.Signal(syscall.Signal(0)); err != nil {
		fmt.Fprintln(out, "Status: not running (stale PID file)")
		removePIDFile()
		return nil
	}

	fmt.Fprintf(out, "Status: running (PID %d)\n", pid)
	return nil
}

func stopServer(out io.Writer) error {
	pid, err := readPID()
	if err != nil {
		return err
	}
	if pid == 0 {
		fmt.Fprintln(out, "No server running")
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		removePIDFile()
		fmt.Fprintln(out, "No server running")
		return nil
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		removePIDFile()
		fmt.Fprintln(out, "Server already stopped")
		return nil
	}

	fmt.Fprintf(out, "Stopped server (PID %d)\n", pid)
	return nil
}
