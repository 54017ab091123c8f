package config

import (
	"fmt"
	"os"

	"github.com/oscimu/osciemu/internal/memory"
)

// LoadFileAsMemory reads path in full and wraps it as an ArrayMemory whose
// size equals the file length and whose cell i equals byte i. No header,
// no interpretation of the contents.
func LoadFileAsMemory(path string) (*memory.ArrayMemory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return memory.NewArrayMemoryFromBytes(b), nil
}
