package main

import (
	"os"
	"path/filepath"
)

// keyfobHome returns the path to the keyfob home directory (~/.keyfob).
func keyfobHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".keyfob"), nil
}
