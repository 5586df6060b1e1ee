package gameupdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	text := "You win the duel.\n\n[GAME_UPDATE]\nhealth: -10\ngold: +50\nnot a directive\ninventory_add: silver key: ornate\n[/GAME_UPDATE]\n"

	narrative, ds := Parse(text)
	require.Equal(t, "You win the duel.", narrative)
	require.Equal(t, []Directive{
		{Key: "health", Value: "-10"},
		{Key: "gold", Value: "+50"},
		{Key: "inventory_add", Value: "silver key: ornate"},
	}, ds)
}

func TestParseWithoutBlock(t *testing.T) {
	narrative, ds := Parse("  Calm seas today.  ")
	require.Equal(t, "Calm seas today.", narrative)
	require.Empty(t, ds)
}

func TestParseOnlyFirstBlock(t *testing.T) {
	text := "a [GAME_UPDATE]gold: +1[/GAME_UPDATE] b [GAME_UPDATE]gold: +2[/GAME_UPDATE]"
	narrative, ds := Parse(text)
	require.Equal(t, "a  b [GAME_UPDATE]gold: +2[/GAME_UPDATE]", narrative)
	require.Equal(t, []Directive{{Key: "gold", Value: "+1"}}, ds)
}

func TestApplyClampsHealthAndGold(t *testing.T) {
	s := NewState()
	s.Apply([]Directive{{Key: "health", Value: "+30"}, {Key: "gold", Value: "-100"}})
	require.Equal(t, 100, s.Player.Health)
	require.Equal(t, 0, s.Player.Gold)

	s.Apply([]Directive{{Key: "health", Value: "-250"}})
	require.Equal(t, 0, s.Player.Health)

	notes := s.Apply([]Directive{{Key: "gold", Value: "lots"}})
	require.Empty(t, notes)
	require.Equal(t, 0, s.Player.Gold)
}

func TestApplyInventory(t *testing.T) {
	s := NewState()
	notes := s.Apply([]Directive{
		{Key: "inventory_add", Value: "bandana"},
		{Key: "inventory_add", Value: "spyglass"},
		{Key: "inventory_remove", Value: "rusty cutlass"},
		{Key: "inventory_remove", Value: "parrot"},
	})
	require.Equal(t, []string{"Item acquired: spyglass", "Item removed: rusty cutlass"}, notes)
	require.Contains(t, s.Player.Inventory, "spyglass")
	require.NotContains(t, s.Player.Inventory, "rusty cutlass")
	require.Len(t, s.Player.Inventory, 6)
}

func TestApplyLocations(t *testing.T) {
	s := NewState()

	s.Apply([]Directive{{Key: "location", Value: "Skull Island"}})
	require.Equal(t, "Port Haven", s.Player.Location, "unknown locations are unreachable")

	s.Apply([]Directive{
		{Key: "location_discover", Value: "Skull Island"},
		{Key: "location", Value: "Skull Island"},
	})
	require.Equal(t, "Skull Island", s.Player.Location)
	require.Empty(t, s.Player.SubLocation)
	require.Equal(t, "unknown", s.Locations["Skull Island"].Type)

	s.Apply([]Directive{{Key: "sublocation", Value: "beach"}})
	require.Equal(t, "beach", s.Player.SubLocation)
}

func TestApplyDiscoverOnBareState(t *testing.T) {
	s := &State{Player: Player{Name: "Anne", Health: 50, MaxHealth: 100}}

	notes := s.Apply([]Directive{{Key: "location_discover", Value: "Tortuga"}})
	require.Equal(t, []string{"Location discovered: Tortuga"}, notes)
	require.Equal(t, "unknown", s.Locations["Tortuga"].Type)
	require.Contains(t, s.Story.KnownLocations, "Tortuga")
}

func TestApplyObjectivesAndShip(t *testing.T) {
	s := NewState()
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	s.Apply([]Directive{
		{Key: "objective_add", Value: "find_rum|Find the rum|Search the tavern cellar|10 gold|Tavern Keeper|"},
		{Key: "objective_add", Value: "find_rum|Duplicate"},
		{Key: "objective_add", Value: "Chart the reef"},
	})
	require.Len(t, s.Story.CurrentObjectives, 4)
	require.Equal(t, "Port Haven", s.Story.CurrentObjectives[2].Location)
	require.Equal(t, "quest_1700000000000", s.Story.CurrentObjectives[3].ID)

	notes := s.Apply([]Directive{{Key: "objective_complete", Value: "find_rum|5 gold"}})
	require.Equal(t, []string{"Objective completed: Find the rum (Received: 5 gold)"}, notes)
	require.Len(t, s.Story.CompletedObjectives, 1)
	require.Equal(t, "5 gold", s.Story.CompletedObjectives[0].ActualReward)

	s.Apply([]Directive{{Key: "ship_acquire", Value: "sloop|Sea Wraith|12|x|4|80"}})
	require.True(t, s.Ship.HasShip)
	require.Equal(t, 12, s.Ship.MaxCrew)
	require.Equal(t, 100, s.Ship.Hull)
	require.Equal(t, 80, s.Ship.Sails)
	require.Contains(t, s.Status(), "- Ship: Sea Wraith (sloop)")
}

func TestStatus(t *testing.T) {
	status := NewState().Status()
	require.Contains(t, status, "- Health: 100/100")
	require.Contains(t, status, "- Current Location: Port Haven (town square)")
	require.Contains(t, status, "Explore Port Haven (Reward: Knowledge of the area)")
	require.Contains(t, status, "- No ship currently owned")
}
