package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"logograb/internal/catalog"
	"logograb/internal/config"
	"logograb/internal/logging"
	"logograb/internal/plugin"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// commandLogger writes console logs to stderr and JSON to the log file. A
// broken log directory falls back to a no-op logger so commands still run.
func (c *commandContext) commandLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) withRuntime(fn func(*plugin.Runtime) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	rt, err := plugin.NewRuntime(cfg, c.commandLogger())
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}

// catalogBuilder builds the index builder without opening the host store.
func (c *commandContext) catalogBuilder() (*catalog.Builder, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := plugin.NewCatalogClient(cfg)
	if err != nil {
		return nil, err
	}
	logger := c.commandLogger()
	return catalog.NewBuilder(client, catalog.NewCache(cfg.IndexCachePath(), logger), logger), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.3f", score)
}
