// Package signer provides ports.Signer implementations backed by external tools.
package signer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

// CommandSigner delegates detached signing to an external program.
// The content to sign is written to the program's stdin; its stdout is the
// base64 signature. Line breaks in the output are removed.
type CommandSigner struct {
	factory command.Factory
	name    string
	args    []string
	logger  ports.Logger
}

// NewCommandSigner checks that the signing program is available.
// A missing program is a fatal startup error.
func NewCommandSigner(name string, args []string, logger ports.Logger) (*CommandSigner, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: sign command is not configured", domain.ErrFatalStartup)
	}
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%w: sign command: %w", domain.ErrFatalStartup, err)
	}
	return &CommandSigner{
		factory: command.NewFactory(env.NewRepository()),
		name:    name,
		args:    args,
		logger:  logger,
	}, nil
}

// Sign runs the signing program once for content.
//
// Cancelling ctx makes Sign return ctx.Err() at once, but the program itself
// is not killed: it keeps running detached until it exits on its own.
func (s *CommandSigner) Sign(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd := s.factory.Create(s.name, s.args, &command.Opts{
		Stdin:  strings.NewReader(content),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	s.logger.Debug("signing", ports.String("command", cmd.PrintableCommandArgs()), ports.Int("bytes", len(content)))

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start %s: %w", s.name, err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		s.logger.Warn("signer abandoned", ports.String("command", s.name), ports.Err(ctx.Err()))
		return "", ctx.Err()
	case err := <-done:
		if err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return "", fmt.Errorf("run %s: %w: %s", s.name, err, msg)
			}
			return "", fmt.Errorf("run %s: %w", s.name, err)
		}
	}

	signature := strings.Join(strings.Fields(stdout.String()), "")
	if signature == "" {
		return "", errors.New("signer produced an empty signature")
	}
	return signature, nil
}
