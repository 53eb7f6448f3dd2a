package domain

import (
	"fmt"
	"strings"
)

// Fixed container settings. These do not vary per session.
const (
	HostPort      = 3003
	ContainerPort = 3000
	ImageTag      = "react-app"
	RecipeFile    = "Dockerfile"
)

// BuildDescriptor is the static recipe the container image is built from.
type BuildDescriptor struct {
	BaseImage   string
	WorkDir     string
	Manifests   []string // copied before Install so the dependency layer caches
	Install     string
	Start       []string
	ExposedPort int
}

// DefaultDescriptor returns the recipe used for every session.
func DefaultDescriptor() BuildDescriptor {
	return BuildDescriptor{
		BaseImage:   "node:16",
		WorkDir:     "/app",
		Manifests:   []string{"package*.json"},
		Install:     "npm install",
		Start:       []string{"npm", "start"},
		ExposedPort: ContainerPort,
	}
}

// Render returns the descriptor in Dockerfile syntax.
func (d BuildDescriptor) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FROM %s\n", d.BaseImage)
	if d.WorkDir != "" {
		fmt.Fprintf(&b, "WORKDIR %s\n", d.WorkDir)
	}
	if len(d.Manifests) > 0 {
		fmt.Fprintf(&b, "COPY %s ./\n", strings.Join(d.Manifests, " "))
	}
	if d.Install != "" {
		fmt.Fprintf(&b, "RUN %s\n", d.Install)
	}
	b.WriteString("COPY . .\n")
	if d.ExposedPort > 0 {
		fmt.Fprintf(&b, "EXPOSE %d\n", d.ExposedPort)
	}
	if len(d.Start) > 0 {
		quoted := make([]string, len(d.Start))
		for i, arg := range d.Start {
			quoted[i] = fmt.Sprintf("%q", arg)
		}
		fmt.Fprintf(&b, "CMD [%s]\n", strings.Join(quoted, ", "))
	}
	return b.String()
}
