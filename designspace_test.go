package bdfbuild

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/test"
	"gopkg.in/yaml.v3"
)

func TestDesignSpaceWrite(t *testing.T) {
	ds := &DesignSpace{
		FamilyName: "Tiny",
		StyleName:  "Regular",
		Axes:       DefaultAxes,
		Instances:  DefaultInstances,
	}
	test.T(t, ds.FileName(), "Tiny-Regular.designspace")

	dirs := ds.MasterDirs()
	test.T(t, len(dirs), 8)
	test.T(t, dirs[0], "Tiny-Regular-Thin-Square-NoBleed.ufo")
	test.T(t, dirs[7], "Tiny-Regular-Thick-Round-Bleed.ufo")

	dir := t.TempDir()
	test.Error(t, ds.Write(dir))

	b, err := os.ReadFile(filepath.Join(dir, ds.FileName()))
	test.Error(t, err)

	doc := dsDocument{}
	test.Error(t, xml.Unmarshal(b, &doc))
	test.T(t, doc.Format, "4.1")

	test.T(t, len(doc.Axes), 3)
	test.T(t, doc.Axes[0], dsAxis{"ESIZ", "Element Size", 10, 100, 100})
	test.T(t, doc.Axes[1], dsAxis{"ROND", "Roundness", 0, 100, 0})
	test.T(t, doc.Axes[2], dsAxis{"BLED", "Bleed", 0, 100, 0})

	test.T(t, len(doc.Sources), 8)
	test.T(t, doc.Sources[0].Filename, "Tiny-Regular-Thin-Square-NoBleed.ufo")
	test.T(t, doc.Sources[0].FamilyName, "Tiny")
	test.T(t, doc.Sources[0].StyleName, "Regular Thin Square NoBleed")
	test.T(t, doc.Sources[0].Location, []dsDimension{
		{"Element Size", 10}, {"Roundness", 0}, {"Bleed", 0},
	})
	test.T(t, doc.Sources[7].Location, []dsDimension{
		{"Element Size", 100}, {"Roundness", 100}, {"Bleed", 100},
	})

	test.T(t, len(doc.Instances), 4)
	test.T(t, doc.Instances[0].StyleName, "Regular Solid")
	test.T(t, doc.Instances[0].Location, []dsDimension{
		{"Element Size", 100}, {"Roundness", 0}, {"Bleed", 0},
	})
	test.T(t, doc.Instances[2].StyleName, "Regular CRT")
	test.T(t, doc.Instances[2].Location, []dsDimension{
		{"Element Size", 70}, {"Roundness", 60}, {"Bleed", 60},
	})
}

func TestWriteBuilderConfig(t *testing.T) {
	ds := &DesignSpace{
		FamilyName: "Tiny",
		StyleName:  "Bold",
		Axes:       DefaultAxes,
		Instances:  DefaultInstances,
	}

	dir := t.TempDir()
	path, err := ds.WriteBuilderConfig(dir, "..")
	test.Error(t, err)
	test.T(t, path, filepath.Join(dir, "config.yaml"))

	b, err := os.ReadFile(path)
	test.Error(t, err)

	config := BuilderConfig{}
	test.Error(t, yaml.Unmarshal(b, &config))
	test.T(t, config.Sources, []string{"Tiny-Bold.designspace"})
	test.T(t, config.AxisOrder, []string{"ESIZ", "ROND", "BLED"})
	test.T(t, config.OutputDir, "..")
}
