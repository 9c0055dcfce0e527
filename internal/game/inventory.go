package game

// Item is something a player can carry.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var (
	// ArtifactItem is the only item rooms spawn with.
	ArtifactItem = Item{
		Name:        "Mysterious Artifact",
		Description: "An object humming with a faint, unplaceable energy.",
	}
	// PuzzleTokenItem is granted for solving a room's puzzle.
	PuzzleTokenItem = Item{
		Name:        "Puzzle Token",
		Description: "A token awarded for solving a puzzle.",
	}
)

// Inventory is the ordered list of items a player carries. It only grows.
type Inventory []Item

// Add appends items to the inventory.
func (inv *Inventory) Add(items ...Item) {
	*inv = append(*inv, items...)
}

// Count returns how many items named name are held.
func (inv Inventory) Count(name string) int {
	n := 0
	for _, it := range inv {
		if it.Name == name {
			n++
		}
	}
	return n
}
