package main

import (
	"context"
	"strings"

	"github.com/sells-group/consult-cli/internal/config"
	"github.com/sells-group/consult-cli/internal/pipeline"
)

// runner is the part of *pipeline.Pipeline the commands depend on.
type runner interface {
	Run(ctx context.Context, in pipeline.Input) (*pipeline.Result, error)
}

// newRunner builds the pipeline for the configured providers. Tests replace it.
var newRunner = func(c *config.Config, creds pipeline.Credentials) (runner, error) {
	p, err := pipeline.New(c, creds)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// splitFields parses a comma-separated field list.
func splitFields(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
