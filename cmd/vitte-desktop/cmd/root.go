// Package cmd implements the vitte-desktop CLI commands.
//
// The command structure follows a root command that dispatches to
// subcommands (demo, serve, config, backends).
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/vitte-lang/desktop/pkg/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "vitte-desktop",
	Short: "vitte-desktop - toolkit-neutral widget shim",
	Long: `vitte-desktop drives the desktop widget shim: windows, buttons, parenting
and an event loop behind one stable interface. Without a real toolkit
linked in, the stub backend simulates everything and prints a trace.

Use "vitte-desktop <command> --help" for more information about a command.`,
	Usage: "vitte-desktop <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// configPath is set by the global --config flag.
var configPath string

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Execute runs the CLI with the given arguments.
func Execute(args []string) error {
	configPath = ""

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Printf("vitte-desktop version %s (built %s, abi %s)\n", Version, BuildTime, config.ABIVersion)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--config":
			if i+1 >= len(args) {
				return fmt.Errorf("--config requires a file path")
			}
			configPath = args[i+1]
			i++
		default:
			if strings.HasPrefix(arg, "--config=") {
				configPath = strings.TrimPrefix(arg, "--config=")
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

// loadConfig resolves configuration from --config, VITTE_DESKTOP_CONFIG or
// ./desktop.yaml.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg.ApplyEnv()
		return cfg, cfg.Validate()
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Resolve(dir)
}

func printHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
	fmt.Println()
	fmt.Println("Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Printf("  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -h, --help           Show help for a command")
	fmt.Println("  -v, --version        Show version information")
	fmt.Println("  --config FILE        Configuration file (default: ./desktop.yaml)")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  VITTE_DESKTOP_CONFIG   Configuration file (lower priority than --config)")
	fmt.Println("  VITTE_DESKTOP_BACKEND  Backend name override")
	fmt.Println("  VITTE_DESKTOP_VERBOSE  0 disables trace output (QT_STUB_VERBOSE also honoured)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  vitte-desktop demo --for 2s       Run the demo scene for two seconds")
	fmt.Println("  vitte-desktop serve --addr :9777  Inspect a running scene over HTTP")
}

func printCommandHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
}
