package bdfbuild

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectWeight is one weight of a font family: its BDF source file and the
// metric overrides that differ per weight.
type ProjectWeight struct {
	Source string `yaml:"source"`
	Weight int    `yaml:"weight,omitempty"`

	Ascent             int `yaml:"ascent,omitempty"`
	Descent            int `yaml:"descent,omitempty"`
	CapHeight          int `yaml:"capHeight,omitempty"`
	XHeight            int `yaml:"xHeight,omitempty"`
	UnderlinePosition  int `yaml:"underlinePosition,omitempty"`
	UnderlineThickness int `yaml:"underlineThickness,omitempty"`
	StrikeoutPosition  int `yaml:"strikeoutPosition,omitempty"`
	StrikeoutThickness int `yaml:"strikeoutThickness,omitempty"`
	GlyphOffsetX       int `yaml:"glyphOffsetX,omitempty"`
	GlyphOffsetY       int `yaml:"glyphOffsetY,omitempty"`
}

// Project is the build description of a font family, loaded from a YAML file.
type Project struct {
	FamilyName      string `yaml:"familyName,omitempty"`
	Version         string `yaml:"version,omitempty"`
	Copyright       string `yaml:"copyright,omitempty"`
	Designer        string `yaml:"designer,omitempty"`
	DesignerURL     string `yaml:"designerURL,omitempty"`
	Manufacturer    string `yaml:"manufacturer,omitempty"`
	ManufacturerURL string `yaml:"manufacturerURL,omitempty"`
	License         string `yaml:"license,omitempty"`
	LicenseFile     string `yaml:"licenseFile,omitempty"`
	LicenseURL      string `yaml:"licenseURL,omitempty"`

	UnitsPerEm int    `yaml:"unitsPerEm,omitempty"`
	Codepoints string `yaml:"codepoints,omitempty"`

	Weights []ProjectWeight `yaml:"weights"`
}

// LoadProject reads a project file. Relative paths in the project (sources,
// license file) are resolved against the file's directory.
func LoadProject(path string) (*Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	project := &Project{}
	decoder := yaml.NewDecoder(strings.NewReader(string(b)))
	decoder.KnownFields(true)
	if err := decoder.Decode(project); err != nil {
		return nil, fmt.Errorf("%v: %v", path, err)
	}
	if len(project.Weights) == 0 {
		return nil, fmt.Errorf("%v: no weights defined", path)
	}

	dir := filepath.Dir(path)
	for i := range project.Weights {
		if !filepath.IsAbs(project.Weights[i].Source) {
			project.Weights[i].Source = filepath.Join(dir, project.Weights[i].Source)
		}
	}
	if project.License == "" && project.LicenseFile != "" {
		licensePath := project.LicenseFile
		if !filepath.IsAbs(licensePath) {
			licensePath = filepath.Join(dir, licensePath)
		}
		license, err := os.ReadFile(licensePath)
		if err != nil {
			return nil, err
		}
		project.License = strings.TrimRight(string(license), "\n")
	}
	return project, nil
}

// options assembles the conversion options for one weight.
func (project *Project) options(w *ProjectWeight) *Options {
	return &Options{
		UnitsPerEm: project.UnitsPerEm,
		Codepoints: project.Codepoints,

		FamilyName:      project.FamilyName,
		Version:         project.Version,
		Weight:          w.Weight,
		Copyright:       project.Copyright,
		Designer:        project.Designer,
		DesignerURL:     project.DesignerURL,
		Manufacturer:    project.Manufacturer,
		ManufacturerURL: project.ManufacturerURL,
		License:         project.License,
		LicenseURL:      project.LicenseURL,

		Ascent:             w.Ascent,
		Descent:            w.Descent,
		CapHeight:          w.CapHeight,
		XHeight:            w.XHeight,
		UnderlinePosition:  w.UnderlinePosition,
		UnderlineThickness: w.UnderlineThickness,
		StrikeoutPosition:  w.StrikeoutPosition,
		StrikeoutThickness: w.StrikeoutThickness,
		GlyphOffsetX:       w.GlyphOffsetX,
		GlyphOffsetY:       w.GlyphOffsetY,
	}
}

// Pipeline builds a project: for each weight it converts the BDF source into
// a UFO designspace under the build directory and runs gftools builder on the
// generated configuration. The first failing step aborts the pipeline.
type Pipeline struct {
	Project *Project

	BuildDir     string // output directory, default "build"
	VenvDir      string // python virtual environment, default ".venv"
	Requirements string // pip requirements file installed at bootstrap
	Python       string // python interpreter, default "python3"
	GFTools      string // gftools executable, default from venv or PATH
	SkipVenv     bool   // use an already provisioned environment

	Stdout io.Writer // external tool output, default os.Stdout
	Stderr io.Writer

	Info    *log.Logger
	Warning *log.Logger
}

func (p *Pipeline) buildDir() string {
	if p.BuildDir == "" {
		return "build"
	}
	return p.BuildDir
}

func (p *Pipeline) venvDir() string {
	if p.VenvDir == "" {
		return ".venv"
	}
	return p.VenvDir
}

func (p *Pipeline) infof(format string, args ...interface{}) {
	if p.Info != nil {
		p.Info.Printf(format, args...)
	}
}

func (p *Pipeline) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = p.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = p.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd
}

// Bootstrap provisions the python environment that gftools runs in. An
// existing virtual environment is reused; requirements are installed with pip,
// which is a no-op when they are already satisfied.
func (p *Pipeline) Bootstrap(ctx context.Context) error {
	venv := p.venvDir()
	if _, err := os.Stat(venv); os.IsNotExist(err) {
		python := p.Python
		if python == "" {
			python = "python3"
		}
		if _, err := exec.LookPath(python); err != nil {
			return fmt.Errorf("python interpreter not found: %v", err)
		}
		p.infof("creating virtual environment %s", venv)
		if err := p.command(ctx, python, "-m", "venv", venv).Run(); err != nil {
			return fmt.Errorf("creating virtual environment: %v", err)
		}
	} else if err != nil {
		return err
	}

	if p.Requirements != "" {
		p.infof("installing %s", p.Requirements)
		pip := filepath.Join(venv, "bin", "pip")
		if err := p.command(ctx, pip, "install", "--quiet", "-r", p.Requirements).Run(); err != nil {
			return fmt.Errorf("installing requirements: %v", err)
		}
	}
	return nil
}

// gftools returns the gftools executable to invoke, preferring the virtual
// environment's over the one on PATH.
func (p *Pipeline) gftools() string {
	if p.GFTools != "" {
		return p.GFTools
	}
	venvGFTools := filepath.Join(p.venvDir(), "bin", "gftools")
	if _, err := os.Stat(venvGFTools); err == nil {
		return venvGFTools
	}
	return "gftools"
}

// RunBuilder invokes gftools builder on a generated configuration file.
func (p *Pipeline) RunBuilder(ctx context.Context, config string) error {
	gftools := p.gftools()
	if _, err := exec.LookPath(gftools); err != nil {
		return fmt.Errorf("gftools not found: %v", err)
	}
	p.infof("running %s builder %s", gftools, config)
	if err := p.command(ctx, gftools, "builder", config).Run(); err != nil {
		return fmt.Errorf("gftools builder: %v", err)
	}
	return nil
}

// BuildWeight converts one weight's BDF source and builds its fonts.
func (p *Pipeline) BuildWeight(ctx context.Context, w *ProjectWeight) error {
	b, err := os.ReadFile(w.Source)
	if err != nil {
		return err
	}
	bdf, err := ParseBDF(b)
	if err != nil {
		return err
	}

	opts := p.Project.options(w)
	opts.Info = p.Info
	opts.Warning = p.Warning
	opts.OutputDir = ".." // fonts go into the shared build directory

	name := strings.TrimSuffix(filepath.Base(w.Source), filepath.Ext(w.Source))
	dir := filepath.Join(p.buildDir(), name)
	ds, err := Convert(bdf, opts, dir)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.infof("building %s %s", ds.FamilyName, ds.StyleName)
	return p.RunBuilder(ctx, filepath.Join(dir, "config.yaml"))
}

// Run builds all weights in order, bootstrapping the environment first. The
// first error halts the remaining sequence.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.SkipVenv {
		if err := p.Bootstrap(ctx); err != nil {
			return err
		}
	}
	for i := range p.Project.Weights {
		w := &p.Project.Weights[i]
		if err := p.BuildWeight(ctx, w); err != nil {
			return fmt.Errorf("%s: %v", w.Source, err)
		}
	}
	return nil
}
