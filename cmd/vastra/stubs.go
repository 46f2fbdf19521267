package main

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed stubs/*.stub
var defaultStubs embed.FS

// StubData holds the variables passed to the .stub templates.
type StubData struct {
	Name  string // e.g. Coupon
	Lower string // e.g. coupon
}

// renderStub locates the stub (a project-local override under .vastra/stubs/
// wins over the embedded default) and executes it as a text/template.
func renderStub(stubName string, data StubData) (string, error) {
	var stubContent []byte
	var err error

	userPath := filepath.Join(".vastra", "stubs", stubName+".stub")
	if _, errStat := os.Stat(userPath); errStat == nil {
		stubContent, err = os.ReadFile(userPath)
		if err != nil {
			return "", fmt.Errorf("failed to read stub override %s: %w", userPath, err)
		}
	} else {
		stubContent, err = defaultStubs.ReadFile("stubs/" + stubName + ".stub")
		if err != nil {
			return "", fmt.Errorf("embedded stub not found: %s", stubName)
		}
	}

	t, err := template.New(stubName).Parse(string(stubContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse stub %s: %w", stubName, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute stub %s: %w", stubName, err)
	}

	return buf.String(), nil
}
