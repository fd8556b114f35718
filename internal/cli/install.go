package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// serverKey is the mcpServers entry name written to client configs
const serverKey = "trend-vision"

// ClientConfig describes where an MCP client keeps its server list
type ClientConfig struct {
	Name        string
	ConfigPaths []string
}

var supportedClients = map[string]ClientConfig{
	"cursor": {
		Name: "Cursor",
		ConfigPaths: []string{
			"~/.cursor/mcp.json",
			"~/.config/cursor/mcp.json",
		},
	},
	"claude": {
		Name: "Claude Desktop",
		ConfigPaths: []string{
			"~/Library/Application Support/Claude/claude_desktop_config.json",          // macOS
			"~/.config/Claude/claude_desktop_config.json",                               // Linux
			filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json"), // Windows
		},
	},
	"windsurf": {
		Name: "Windsurf",
		ConfigPaths: []string{
			"~/.codeium/windsurf/mcp_config.json",
			"~/.windsurf/mcp.json",
		},
	},
	"vscode": {
		Name: "VS Code",
		ConfigPaths: []string{
			"~/.vscode/mcp.json",
			"~/.config/Code/User/mcp.json",
		},
	},
}

var (
	installConfigPath   string
	uninstallConfigPath string
)

var installCmd = &cobra.Command{
	Use:   "install <client>",
	Short: "Register the server with an MCP client",
	Long: `Add a "trend-vision" entry to an MCP client's server list.

Supported clients:
  cursor    - Cursor
  claude    - Claude Desktop
  windsurf  - Windsurf
  vscode    - VS Code

The entry runs "trendvision-mcp serve". When --env-file is given it is
passed through so the client picks up the same credentials.

Examples:
  trendvision-mcp install claude
  trendvision-mcp install cursor --env-file ~/.trendvision.env
  trendvision-mcp install vscode --config-path ./mcp.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <client>",
	Short: "Remove the server from an MCP client",
	Args:  cobra.ExactArgs(1),
	RunE:  runUninstall,
}

func init() {
	installCmd.Flags().StringVar(&installConfigPath, "config-path", "", "Client config file to edit instead of the default location")
	uninstallCmd.Flags().StringVar(&uninstallConfigPath, "config-path", "", "Client config file to edit instead of the default location")
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}

func lookupClient(name string) (ClientConfig, error) {
	client, ok := supportedClients[strings.ToLower(name)]
	if ok {
		return client, nil
	}
	names := make([]string, 0, len(supportedClients))
	for n := range supportedClients {
		names = append(names, n)
	}
	sort.Strings(names)
	return ClientConfig{}, fmt.Errorf("unknown client %q (supported: %s)", name, strings.Join(names, ", "))
}

func runInstall(cmd *cobra.Command, args []string) error {
	client, err := lookupClient(args[0])
	if err != nil {
		return err
	}

	binaryPath, err := findBinaryPath()
	if err != nil {
		return fmt.Errorf("%w; ensure trendvision-mcp is in your PATH", err)
	}

	configPath := installConfigPath
	if configPath == "" {
		configPath, err = findConfigPath(client.ConfigPaths)
		if err != nil {
			configPath = expandPath(client.ConfigPaths[0])
		}
	}

	serveArgs := []string{"serve"}
	if envFile != "" {
		abs, err := filepath.Abs(expandPath(envFile))
		if err != nil {
			return err
		}
		serveArgs = append(serveArgs, "--env-file", abs)
	}

	config, err := readOrCreateConfig(configPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", configPath, err)
	}
	replaced := addServerToConfig(config, binaryPath, serveArgs)
	if err := writeConfig(configPath, config); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	out := cmd.OutOrStdout()
	if replaced {
		fmt.Fprintf(out, "Updated existing %q entry.\n", serverKey)
	}
	fmt.Fprintf(out, "Installed for %s\n", client.Name)
	fmt.Fprintf(out, "  Config: %s\n", configPath)
	fmt.Fprintf(out, "  Binary: %s\n", binaryPath)
	fmt.Fprintf(out, "Restart %s to load the server.\n", client.Name)
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	client, err := lookupClient(args[0])
	if err != nil {
		return err
	}

	configPath := uninstallConfigPath
	if configPath == "" {
		configPath, err = findConfigPath(client.ConfigPaths)
		if err != nil {
			return fmt.Errorf("no %s config found", client.Name)
		}
	}

	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("config file not found: %s", configPath)
	}

	config, err := readOrCreateConfig(configPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", configPath, err)
	}
	if err := removeServerFromConfig(config); err != nil {
		return err
	}
	if err := writeConfig(configPath, config); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed from %s (%s)\n", client.Name, configPath)
	return nil
}

func findBinaryPath() (string, error) {
	if path, err := exec.LookPath("trendvision-mcp"); err == nil {
		return path, nil
	}

	if executable, err := os.Executable(); err == nil {
		return executable, nil
	}

	cwd, err := os.Getwd()
	if err == nil {
		localPath := filepath.Join(cwd, "trendvision-mcp")
		if runtime.GOOS == "windows" {
			localPath += ".exe"
		}
		if _, err := os.Stat(localPath); err == nil {
			return localPath, nil
		}
	}

	return "", errors.New("trendvision-mcp binary not found")
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func findConfigPath(paths []string) (string, error) {
	for _, path := range paths {
		expanded := expandPath(path)
		if _, err := os.Stat(expanded); err == nil {
			return expanded, nil
		}
	}
	return "", errors.New("config file not found")
}

func readOrCreateConfig(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"mcpServers": map[string]interface{}{},
			}, nil
		}
		return nil, err
	}

	var config map[string]interface{}
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if config == nil {
		config = map[string]interface{}{}
	}
	if _, ok := config["mcpServers"]; !ok {
		config["mcpServers"] = map[string]interface{}{}
	}
	return config, nil
}

// addServerToConfig writes the server entry and reports whether one was already there.
// Other entries are left untouched.
func addServerToConfig(config map[string]interface{}, binaryPath string, args []string) bool {
	servers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		servers = map[string]interface{}{}
		config["mcpServers"] = servers
	}

	_, existed := servers[serverKey]
	servers[serverKey] = map[string]interface{}{
		"command": binaryPath,
		"args":    args,
	}
	return existed
}

func removeServerFromConfig(config map[string]interface{}) error {
	servers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		return errors.New("no MCP servers configured")
	}
	if _, exists := servers[serverKey]; !exists {
		return fmt.Errorf("%s is not installed", serverKey)
	}
	delete(servers, serverKey)
	return nil
}

func writeConfig(path string, config map[string]interface{}) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
