package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/slidedeck/internal/log"
)

// SaveDeckSettings persists the wrap toggle under deck.wrap. Comments and
// every other key in the file are left as they are.
func SaveDeckSettings(configPath string, wrap bool) error {
	return updateFile(configPath, func(root *yaml.Node) {
		setScalar(root, []string{"deck", "wrap"}, strconv.FormatBool(wrap), "!!bool")
	})
}

// SaveUIToggles persists the sidebar and notes toggles under ui.
func SaveUIToggles(configPath string, showSidebar, showNotes bool) error {
	return updateFile(configPath, func(root *yaml.Node) {
		setScalar(root, []string{"ui", "show_sidebar"}, strconv.FormatBool(showSidebar), "!!bool")
		setScalar(root, []string{"ui", "show_notes"}, strconv.FormatBool(showNotes), "!!bool")
	})
}

// updateFile loads configPath as a yaml.Node tree, lets edit change the root
// mapping, and writes the result back atomically.
func updateFile(configPath string, edit func(root *yaml.Node)) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: config path comes from the user
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	edit(doc.Content[0])

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := writeAtomic(configPath, buf.Bytes()); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to save config", err, "path", configPath)
		return err
	}
	log.Debug(log.CatConfig, "Saved config", "path", configPath)
	return nil
}

// setScalar walks path through nested mappings, creating missing ones, and
// sets the final key to value.
func setScalar(mapping *yaml.Node, path []string, value, tag string) {
	for i, key := range path {
		last := i == len(path)-1
		child := lookup(mapping, key)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode}
			if last {
				child = &yaml.Node{Kind: yaml.ScalarNode}
			}
			mapping.Content = append(mapping.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: key},
				child,
			)
		}
		if last {
			child.Kind = yaml.ScalarNode
			child.Tag = tag
			child.Value = value
			child.Content = nil
			return
		}
		if child.Kind != yaml.MappingNode {
			// A scalar sits where a section belongs; replace it.
			child.Kind = yaml.MappingNode
			child.Tag = ""
			child.Value = ""
			child.Content = nil
		}
		mapping = child
	}
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".slidedeck.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
