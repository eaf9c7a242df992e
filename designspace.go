package bdfbuild

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Axis is a variable design axis of the generated designspace.
type Axis struct {
	Tag     string
	Name    string
	Min     int
	Max     int
	Default int
}

// DefaultAxes are the pixel design axes: element size (how much of the pixel
// cell each pixel fills), corner roundness, and horizontal bleed.
var DefaultAxes = []Axis{
	{"ESIZ", "Element Size", 10, 100, 100},
	{"ROND", "Roundness", 0, 100, 0},
	{"BLED", "Bleed", 0, 100, 0},
}

// Instance is a named style at a fixed location on the axes, in axis order.
type Instance struct {
	Name     string
	Location []int
}

// DefaultInstances name the pixel styles shipped with the fonts.
var DefaultInstances = []Instance{
	{"Solid", []int{100, 0, 0}},
	{"LCD", []int{85, 0, 0}},
	{"CRT", []int{70, 60, 60}},
	{"Matrix", []int{85, 80, 0}},
}

// master is one corner of the design cube that a UFO source is generated for.
type master struct {
	name  string
	shape PixelShape
}

var masters = []master{
	{"Thin Square NoBleed", PixelShape{0.1, 0, 0}},
	{"Thick Square NoBleed", PixelShape{1, 0, 0}},
	{"Thin Round NoBleed", PixelShape{0.1, 1, 0}},
	{"Thick Round NoBleed", PixelShape{1, 1, 0}},
	{"Thin Square Bleed", PixelShape{0.1, 0, 1}},
	{"Thick Square Bleed", PixelShape{1, 0, 1}},
	{"Thin Round Bleed", PixelShape{0.1, 1, 1}},
	{"Thick Round Bleed", PixelShape{1, 1, 1}},
}

func (m master) location(axes []Axis) []int {
	loc := make([]int, len(axes))
	for i := range axes {
		switch axes[i].Tag {
		case "ESIZ":
			loc[i] = int(100 * m.shape.Volume)
		case "ROND":
			loc[i] = int(100 * m.shape.Roundness)
		case "BLED":
			loc[i] = int(100 * m.shape.Bleed)
		default:
			loc[i] = axes[i].Default
		}
	}
	return loc
}

type dsDimension struct {
	Name   string `xml:"name,attr"`
	XValue int    `xml:"xvalue,attr"`
}

type dsAxis struct {
	Tag     string `xml:"tag,attr"`
	Name    string `xml:"name,attr"`
	Minimum int    `xml:"minimum,attr"`
	Maximum int    `xml:"maximum,attr"`
	Default int    `xml:"default,attr"`
}

type dsSource struct {
	Filename   string        `xml:"filename,attr"`
	Name       string        `xml:"name,attr"`
	FamilyName string        `xml:"familyname,attr"`
	StyleName  string        `xml:"stylename,attr"`
	Location   []dsDimension `xml:"location>dimension"`
}

type dsInstance struct {
	Filename   string        `xml:"filename,attr"`
	Name       string        `xml:"name,attr"`
	FamilyName string        `xml:"familyname,attr"`
	StyleName  string        `xml:"stylename,attr"`
	Location   []dsDimension `xml:"location>dimension"`
}

type dsDocument struct {
	XMLName   xml.Name     `xml:"designspace"`
	Format    string       `xml:"format,attr"`
	Axes      []dsAxis     `xml:"axes>axis"`
	Sources   []dsSource   `xml:"sources>source"`
	Instances []dsInstance `xml:"instances>instance"`
}

func dimensions(axes []Axis, location []int) []dsDimension {
	dims := make([]dsDimension, len(axes))
	for i, axis := range axes {
		dims[i] = dsDimension{axis.Name, location[i]}
	}
	return dims
}

func fileName(fontName string) string {
	return strings.ReplaceAll(fontName, " ", "-")
}

// DesignSpace describes the variable design of one weight: the corner master
// UFOs, the axes they interpolate over, and the named instances.
type DesignSpace struct {
	FamilyName string
	StyleName  string
	Axes       []Axis
	Instances  []Instance
}

// FileName returns the name of the designspace document file.
func (ds *DesignSpace) FileName() string {
	return fileName(ds.FamilyName+" "+ds.StyleName) + ".designspace"
}

// MasterDirs returns the names of the UFO source directories, in master order.
func (ds *DesignSpace) MasterDirs() []string {
	dirs := make([]string, len(masters))
	for i, m := range masters {
		dirs[i] = fileName(ds.FamilyName+" "+ds.StyleName+" "+m.name) + ".ufo"
	}
	return dirs
}

// Write writes the designspace document into dir.
func (ds *DesignSpace) Write(dir string) error {
	doc := dsDocument{Format: "4.1"}
	for _, axis := range ds.Axes {
		doc.Axes = append(doc.Axes, dsAxis{axis.Tag, axis.Name, axis.Min, axis.Max, axis.Default})
	}
	for i, m := range masters {
		styleName := ds.StyleName + " " + m.name
		name := fileName(ds.FamilyName + " " + styleName)
		doc.Sources = append(doc.Sources, dsSource{
			Filename:   name + ".ufo",
			Name:       name,
			FamilyName: ds.FamilyName,
			StyleName:  styleName,
			Location:   dimensions(ds.Axes, masters[i].location(ds.Axes)),
		})
	}
	for _, instance := range ds.Instances {
		styleName := ds.StyleName
		if instance.Name != "" {
			styleName += " " + instance.Name
		}
		fontName := ds.FamilyName + " " + styleName
		doc.Instances = append(doc.Instances, dsInstance{
			Filename:   fileName(fontName) + ".ufo",
			Name:       fontName,
			FamilyName: ds.FamilyName,
			StyleName:  styleName,
			Location:   dimensions(ds.Axes, instance.Location),
		})
	}

	b, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	b = append([]byte(xml.Header), b...)
	b = append(b, '\n')
	return os.WriteFile(filepath.Join(dir, ds.FileName()), b, 0644)
}

// BuilderConfig is the configuration consumed by gftools builder.
type BuilderConfig struct {
	Sources   []string `yaml:"sources"`
	AxisOrder []string `yaml:"axisOrder"`
	OutputDir string   `yaml:"outputDir,omitempty"`
	BuildTTF  bool     `yaml:"buildTTF,omitempty"`
	BuildOTF  bool     `yaml:"buildOTF,omitempty"`
}

// WriteBuilderConfig writes the gftools builder configuration for the
// designspace into dir and returns its path.
func (ds *DesignSpace) WriteBuilderConfig(dir, outputDir string) (string, error) {
	config := BuilderConfig{
		Sources:   []string{ds.FileName()},
		OutputDir: outputDir,
	}
	for _, axis := range ds.Axes {
		config.AxisOrder = append(config.AxisOrder, axis.Tag)
	}
	b, err := yaml.Marshal(&config)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, b, 0644); err != nil {
		return "", err
	}
	return path, nil
}
