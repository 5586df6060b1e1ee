package gameupdate

import (
	"fmt"
	"strings"
)

// Status renders the state as the status block the narrator reads at the
// top of every conversation.
func (s *State) Status() string {
	var b strings.Builder
	p := s.Player

	loc := p.Location
	if p.SubLocation != "" {
		loc += " (" + p.SubLocation + ")"
	}
	fmt.Fprintf(&b, "PLAYER STATUS:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Health: %d/%d\n", p.Health, p.MaxHealth)
	fmt.Fprintf(&b, "- Gold: %d pieces\n", p.Gold)
	fmt.Fprintf(&b, "- Current Location: %s\n", loc)
	fmt.Fprintf(&b, "- Inventory: %s\n\n", strings.Join(p.Inventory, ", "))

	current := make([]string, 0, len(s.Story.CurrentObjectives))
	for _, o := range s.Story.CurrentObjectives {
		if o.PromisedReward != "" {
			current = append(current, fmt.Sprintf("%s (Reward: %s)", o.Title, o.PromisedReward))
			continue
		}
		current = append(current, o.Title)
	}
	done := make([]string, 0, len(s.Story.CompletedObjectives))
	for _, o := range s.Story.CompletedObjectives {
		done = append(done, fmt.Sprintf("%s (%s)", o.Title, o.ActualReward))
	}
	fmt.Fprintf(&b, "STORY PROGRESS:\n")
	fmt.Fprintf(&b, "- Current Objectives: %s\n", strings.Join(current, ", "))
	fmt.Fprintf(&b, "- Known Locations: %s\n", strings.Join(s.Story.KnownLocations, ", "))
	fmt.Fprintf(&b, "- Completed Objectives: %s\n", strings.Join(done, ", "))

	if here, ok := s.Locations[p.Location]; ok {
		fmt.Fprintf(&b, "\nCURRENT LOCATION (%s):\n", p.Location)
		fmt.Fprintf(&b, "- Type: %s\n", here.Type)
		fmt.Fprintf(&b, "- Description: %s\n", here.Description)
		fmt.Fprintf(&b, "- Available Features: %s\n", strings.Join(here.Features, ", "))
		fmt.Fprintf(&b, "- NPCs Present: %s\n", strings.Join(here.NPCs, ", "))
	}

	fmt.Fprintf(&b, "\nSHIP STATUS:\n")
	if !s.Ship.HasShip {
		b.WriteString("- No ship currently owned (must acquire one to sail to other locations)")
		return b.String()
	}
	sh := s.Ship
	fmt.Fprintf(&b, "- Ship: %s (%s)\n", sh.Name, sh.Type)
	fmt.Fprintf(&b, "- Crew: %d/%d\n", sh.Crew, sh.MaxCrew)
	fmt.Fprintf(&b, "- Hull: %d/%d\n", sh.Hull, sh.MaxHull)
	fmt.Fprintf(&b, "- Cannons: %d\n", sh.Cannons)
	fmt.Fprintf(&b, "- Sails: %d/%d", sh.Sails, sh.MaxSails)
	return b.String()
}
