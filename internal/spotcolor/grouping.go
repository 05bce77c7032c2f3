package spotcolor

import "sort"

// ColorGroup is a set of literal colours treated as one ink.
type ColorGroup struct {
	// Representative is the most frequent member, the one that seeded the group.
	Representative ColorKey `json:"representative"`

	// Frequency is the summed pixel count of all members.
	Frequency int `json:"frequency"`

	// Members lists the literal colours in the order they were absorbed.
	Members []ColorKey `json:"members"`
}

// groupColors clusters colours in a single greedy pass.
//
// colors must be sorted by descending count. Each unassigned colour seeds a
// new group and absorbs every later unassigned colour within tol of the seed.
// The returned groups are sorted by descending frequency; equal frequencies
// keep seed order.
func groupColors(colors []colorCount, tol float64, w Weights) []ColorGroup {
	assigned := make([]bool, len(colors))
	groups := make([]ColorGroup, 0)

	for i, seed := range colors {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		g := ColorGroup{
			Representative: seed.key,
			Frequency:      seed.count,
			Members:        []ColorKey{seed.key},
		}
		for j := i + 1; j < len(colors); j++ {
			if assigned[j] {
				continue
			}
			if Distance(seed.key, colors[j].key, w) <= tol {
				assigned[j] = true
				g.Frequency += colors[j].count
				g.Members = append(g.Members, colors[j].key)
			}
		}
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Frequency > groups[j].Frequency
	})
	return groups
}
