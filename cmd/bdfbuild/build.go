package main

import (
	"context"
	"io/ioutil"
	"log"
	"os"
	"os/signal"

	"github.com/gissio/bdfbuild"
)

type Build struct {
	Quiet   bool `short:"q" desc:"Suppress warnings."`
	Verbose bool `short:"v" desc:"Print build progress."`

	Project      string `short:"p" desc:"Project file." default:"bdfbuild.yaml"`
	BuildDir     string `name:"build-dir" desc:"Output directory." default:"build"`
	Venv         string `desc:"Python virtual environment directory." default:".venv"`
	Requirements string `short:"r" desc:"pip requirements file to install at bootstrap."`
	Python       string `desc:"Python interpreter used to create the environment." default:"python3"`
	GFTools      string `name:"gftools" desc:"gftools executable."`
	SkipVenv     bool   `name:"skip-venv" desc:"Use an already provisioned environment."`
}

func (cmd *Build) Run() error {
	if cmd.Quiet {
		Warning = log.New(ioutil.Discard, "", 0)
	}

	project, err := bdfbuild.LoadProject(cmd.Project)
	if err != nil {
		return err
	}

	pipeline := &bdfbuild.Pipeline{
		Project:      project,
		BuildDir:     cmd.BuildDir,
		VenvDir:      cmd.Venv,
		Requirements: cmd.Requirements,
		Python:       cmd.Python,
		GFTools:      cmd.GFTools,
		SkipVenv:     cmd.SkipVenv,
		Warning:      Warning,
	}
	if cmd.Verbose {
		pipeline.Info = log.New(os.Stdout, "", 0)
	}

	// an interrupt kills the running external tool and aborts the pipeline
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return pipeline.Run(ctx)
}
