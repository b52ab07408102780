package cmd

import (
	"fmt"
	"os"

	"github.com/vitte-lang/desktop/pkg/backend"
)

func init() {
	RegisterCommand(&Command{
		Name:  "config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration after merging desktop.yaml and the environment.
Exits with an error if the configuration is invalid.`,
		Usage: "vitte-desktop config",
		Run:   runConfig,
	})
	RegisterCommand(&Command{
		Name:  "backends",
		Short: "List linked backends",
		Long:  `List the backends linked into this binary. "stub" is always present.`,
		Usage: "vitte-desktop backends",
		Run:   runBackends,
	})
}

func runConfig(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runBackends(args []string) error {
	for _, name := range backend.Names() {
		fmt.Println(name)
	}
	return nil
}
