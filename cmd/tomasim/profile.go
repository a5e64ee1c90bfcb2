package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

type profileOptions struct {
	cpuProfile string
	memProfile string

	cpuFile *os.File
}

func (p *profileOptions) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuProfile, "cpuprofile", "", "Write a CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memProfile, "memprofile", "", "Write a memory profile to file")
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error { return p.start() }
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error { return p.stop() }
}

func (p *profileOptions) start() error {
	if p.cpuProfile == "" {
		return nil
	}

	f, err := os.Create(p.cpuProfile)
	if err != nil {
		return fmt.Errorf("failed to create CPU profile: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}
	p.cpuFile = f

	// A failing command skips the post-run hook.
	atexit.Register(func() { _ = p.stopCPU() })

	return nil
}

func (p *profileOptions) stopCPU() error {
	if p.cpuFile == nil {
		return nil
	}

	pprof.StopCPUProfile()
	err := p.cpuFile.Close()
	p.cpuFile = nil

	return err
}

func (p *profileOptions) stop() error {
	if err := p.stopCPU(); err != nil {
		return err
	}

	if p.memProfile == "" {
		return nil
	}

	f, err := os.Create(p.memProfile)
	if err != nil {
		return fmt.Errorf("failed to create memory profile: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write memory profile: %w", err)
	}

	return nil
}
