//go:build linux

package ibus

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

// Component describes the engine to the IBus daemon.
type Component struct {
	XMLName     xml.Name          `xml:"component"`
	Name        string            `xml:"name"`
	Description string            `xml:"description"`
	Exec        string            `xml:"exec"`
	Version     string            `xml:"version"`
	Author      string            `xml:"author"`
	License     string            `xml:"license"`
	Homepage    string            `xml:"homepage"`
	Textdomain  string            `xml:"textdomain"`
	Engines     []EngineComponent `xml:"engines>engine"`
}

// EngineComponent is one <engine> entry of a component.
type EngineComponent struct {
	Name        string `xml:"name"`
	Language    string `xml:"language"`
	License     string `xml:"license"`
	Author      string `xml:"author"`
	Icon        string `xml:"icon"`
	Layout      string `xml:"layout"`
	LongName    string `xml:"longname"`
	Description string `xml:"description"`
	Rank        int    `xml:"rank"`
	Symbol      string `xml:"symbol"`
	Setup       string `xml:"setup,omitempty"`
}

const componentFile = "zhuyin.xml"

// NewComponent returns the component for an engine binary at execPath,
// started by IBus with -ibus.
func NewComponent(execPath, setupPath string) Component {
	return Component{
		Name:        ZhuyinBusName,
		Description: "Zhuyin phonetic input method",
		Exec:        execPath + " -ibus",
		Version:     ZhuyinEngineVersion,
		Author:      "Zhuyin",
		License:     "GPL-2.0-or-later",
		Homepage:    "https://github.com/zhuyin-ime/zhuyin",
		Textdomain:  "zhuyin",
		Engines: []EngineComponent{{
			Name:        ZhuyinEngineName,
			Language:    "zh_TW",
			License:     "GPL-2.0-or-later",
			Author:      "Zhuyin",
			Icon:        "zhuyin",
			Layout:      "us",
			LongName:    "Zhuyin",
			Description: "Chinese phonetic (Zhuyin) input method",
			Rank:        99,
			Symbol:      "注",
			Setup:       setupPath,
		}},
	}
}

// Marshal renders the component XML document.
func (c Component) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(c, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal component: %w", err)
	}
	return append([]byte(`<?xml version="1.0" encoding="utf-8"?>`+"\n"), body...), nil
}

// ComponentDir is where per-user IBus components live.
func ComponentDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "ibus", "component"), nil
}

// Install writes the component file into dir and returns its path.
func Install(dir string, c Component) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	data, err := c.Marshal()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, componentFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Uninstall removes the component file from dir.
func Uninstall(dir string) error {
	return os.Remove(filepath.Join(dir, componentFile))
}
