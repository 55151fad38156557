// Package names generates player identities: a random UUID and a short
// display name derived from it.
package names

import (
	"fmt"

	"github.com/google/uuid"
)

var adjectives = []string{
	"amber", "bold", "brisk", "calm", "clever", "crimson", "dusty", "eager",
	"fancy", "fuzzy", "gentle", "giddy", "golden", "happy", "hollow", "icy",
	"jolly", "lucky", "mellow", "misty", "nimble", "odd", "proud", "quiet",
	"rapid", "rusty", "shy", "silent", "sly", "sunny", "swift", "tidy",
}

var nouns = []string{
	"badger", "beacon", "comet", "crane", "falcon", "ferret", "glacier", "harbor",
	"heron", "island", "jaguar", "kettle", "lantern", "lemur", "meadow", "moth",
	"nebula", "otter", "panda", "pebble", "quartz", "raven", "river", "rocket",
	"salmon", "spruce", "tiger", "tunnel", "walrus", "willow", "yak", "zephyr",
}

// Identity is a player's stable ID and human readable name.
type Identity struct {
	ID   uuid.UUID
	Name string
}

// New generates a fresh identity.
func New() Identity {
	id := uuid.New()
	return Identity{ID: id, Name: Humanize(id)}
}

// Humanize folds id into an "adjective-noun" pair. Equal IDs always map to
// the same name.
func Humanize(id uuid.UUID) string {
	var a, n byte
	for i, b := range id {
		if i%2 == 0 {
			a ^= b
		} else {
			n ^= b
		}
	}
	return fmt.Sprintf("%s-%s", adjectives[int(a)%len(adjectives)], nouns[int(n)%len(nouns)])
}

// Parse returns the identity for a string UUID.
func Parse(s string) (Identity, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse player id: %v", err)
	}
	return Identity{ID: id, Name: Humanize(id)}, nil
}
