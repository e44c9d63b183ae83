package dag

import (
	"fmt"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a stable blake3 digest of the graph's shape: its node
// IDs and edges. It ignores the work attached to nodes and the order in
// which nodes and edges were added.
func (g *Graph) Fingerprint() (string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	hasher := blake3.New()
	for _, id := range g.sortedIDs() {
		if _, err := fmt.Fprintf(hasher, "node %s\n", id); err != nil {
			return "", fmt.Errorf("hash graph: %w", err)
		}
		for _, depID := range sortedKeys(g.nodes[id].deps) {
			if _, err := fmt.Fprintf(hasher, "edge %s -> %s\n", depID, id); err != nil {
				return "", fmt.Errorf("hash graph: %w", err)
			}
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
