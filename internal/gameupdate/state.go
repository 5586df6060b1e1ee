package gameupdate

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Player struct {
	Name        string   `json:"name"`
	Health      int      `json:"health"`
	MaxHealth   int      `json:"maxHealth"`
	Gold        int      `json:"gold"`
	Location    string   `json:"location"`
	SubLocation string   `json:"subLocation,omitempty"`
	Inventory   []string `json:"inventory"`
}

type Objective struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PromisedReward string    `json:"promisedReward,omitempty"`
	Giver          string    `json:"giver,omitempty"`
	Location       string    `json:"location"`
	ActualReward   string    `json:"actualReward,omitempty"`
	CompletedAt    time.Time `json:"completedAt,omitzero"`
}

type Story struct {
	CurrentObjectives   []Objective `json:"currentObjectives"`
	KnownLocations      []string    `json:"knownLocations"`
	CompletedObjectives []Objective `json:"completedObjectives"`
}

type Location struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	NPCs        []string `json:"npcs"`
	Discovered  bool     `json:"discovered"`
}

type Ship struct {
	HasShip  bool   `json:"hasShip"`
	Type     string `json:"type,omitempty"`
	Name     string `json:"name,omitempty"`
	Crew     int    `json:"crew"`
	MaxCrew  int    `json:"maxCrew"`
	Hull     int    `json:"hull"`
	MaxHull  int    `json:"maxHull"`
	Cannons  int    `json:"cannons"`
	Sails    int    `json:"sails"`
	MaxSails int    `json:"maxSails"`
}

// State is everything a client tracks between narrator replies.
type State struct {
	Player    Player              `json:"player"`
	Story     Story               `json:"story"`
	Locations map[string]Location `json:"locations"`
	Ship      Ship                `json:"ship"`

	now func() time.Time
}

// NewState returns the opening position of a new adventure.
func NewState() *State {
	return &State{
		Player: Player{
			Name:        "Captain Redbeard",
			Health:      100,
			MaxHealth:   100,
			Gold:        25,
			Location:    "Port Haven",
			SubLocation: "town square",
			Inventory: []string{
				"rusty cutlass", "leather boots", "linen shirt",
				"cotton trousers", "bandana", "torn map fragment",
			},
		},
		Story: Story{
			CurrentObjectives: []Objective{
				{
					ID:          "acquire_ship",
					Title:       "Find a way to acquire a ship",
					Description: "You need a ship to sail to other locations and begin your pirate adventures",
					Location:    "Port Haven",
				},
				{
					ID:             "explore_port_haven",
					Title:          "Explore Port Haven",
					Description:    "Get familiar with the island settlement and its inhabitants",
					PromisedReward: "Knowledge of the area",
					Location:       "Port Haven",
				},
			},
			KnownLocations: []string{"Port Haven"},
		},
		Locations: map[string]Location{
			"Port Haven": {
				Type:        "town",
				Description: "A small island settlement with a busy harbor",
				Features:    []string{"tavern", "dock", "market", "blacksmith"},
				NPCs:        []string{"Tavern Keeper", "Harbor Master", "Old Sailor"},
				Discovered:  true,
			},
		},
		now: time.Now,
	}
}

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// parseInt reads the leading integer of s, so "+5 gold" is 5.
func parseInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

func parseIntOr(s string, def int) int {
	if n, ok := parseInt(s); ok && n != 0 {
		return n
	}
	return def
}

// Apply folds directives into s and returns a human readable note per change.
// Unknown keys and directives that change nothing produce no note.
func (s *State) Apply(directives []Directive) []string {
	var notes []string
	note := func(format string, args ...any) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}

	for _, d := range directives {
		v := d.Value
		switch d.Key {
		case "health":
			n, ok := parseInt(v)
			if !ok {
				continue
			}
			s.Player.Health = max(0, min(s.Player.MaxHealth, s.Player.Health+n))
			note("Health %s: %d", gainedLost(n), abs(n))

		case "gold":
			n, ok := parseInt(v)
			if !ok {
				continue
			}
			s.Player.Gold = max(0, s.Player.Gold+n)
			note("Gold %s: %d", gainedLost(n), abs(n))

		case "inventory_add":
			if !slices.Contains(s.Player.Inventory, v) {
				s.Player.Inventory = append(s.Player.Inventory, v)
				note("Item acquired: %s", v)
			}

		case "inventory_remove":
			if i := slices.Index(s.Player.Inventory, v); i >= 0 {
				s.Player.Inventory = slices.Delete(s.Player.Inventory, i, i+1)
				note("Item removed: %s", v)
			}

		case "location":
			if slices.Contains(s.Story.KnownLocations, v) {
				s.Player.Location = v
				s.Player.SubLocation = ""
				note("Moved to: %s", v)
			}

		case "sublocation":
			s.Player.SubLocation = v
			note("Entered: %s in %s", v, s.Player.Location)

		case "objective_add":
			if o, ok := s.addObjective(v); ok {
				note("New objective: %s", o.Title)
			}

		case "objective_complete":
			if o, ok := s.completeObjective(v); ok {
				note("Objective completed: %s (Received: %s)", o.Title, o.ActualReward)
			}

		case "location_discover":
			if !slices.Contains(s.Story.KnownLocations, v) {
				s.Story.KnownLocations = append(s.Story.KnownLocations, v)
				if s.Locations == nil {
					s.Locations = map[string]Location{}
				}
				if _, ok := s.Locations[v]; !ok {
					s.Locations[v] = Location{
						Type:        "unknown",
						Description: "A location you've heard about",
						Features:    []string{},
						NPCs:        []string{},
					}
				}
				note("Location discovered: %s", v)
			}

		case "ship_acquire":
			parts := strings.Split(v, "|")
			if len(parts) < 6 {
				continue
			}
			crew := parseIntOr(parts[2], 0)
			hull := parseIntOr(parts[3], 100)
			sails := parseIntOr(parts[5], 100)
			s.Ship = Ship{
				HasShip:  true,
				Type:     parts[0],
				Name:     parts[1],
				Crew:     crew,
				MaxCrew:  crew,
				Hull:     hull,
				MaxHull:  hull,
				Cannons:  parseIntOr(parts[4], 0),
				Sails:    sails,
				MaxSails: sails,
			}
			note("Ship acquired: %s (%s)", parts[1], parts[0])
		}
	}
	return notes
}

func (s *State) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// addObjective parses "id|title|description|reward|giver|location"; a value
// without "|" is a bare title.
func (s *State) addObjective(v string) (Objective, bool) {
	parts := strings.Split(v, "|")
	at := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}
	fallback := func(val, def string) string {
		if val == "" {
			return def
		}
		return val
	}

	generated := fmt.Sprintf("quest_%d", s.clock().UnixMilli())
	if len(parts) < 2 {
		o := Objective{ID: generated, Title: v, Description: v, Location: s.Player.Location}
		s.Story.CurrentObjectives = append(s.Story.CurrentObjectives, o)
		return o, true
	}

	o := Objective{
		ID:             fallback(at(0), generated),
		Title:          fallback(at(1), v),
		Description:    fallback(at(2), at(1)),
		PromisedReward: at(3),
		Giver:          at(4),
		Location:       fallback(at(5), s.Player.Location),
	}
	if slices.ContainsFunc(s.Story.CurrentObjectives, func(c Objective) bool { return c.ID == o.ID }) {
		return Objective{}, false
	}
	s.Story.CurrentObjectives = append(s.Story.CurrentObjectives, o)
	return o, true
}

// completeObjective parses "id|actual_reward"; the id may also be the title.
func (s *State) completeObjective(v string) (Objective, bool) {
	id, reward, _ := strings.Cut(v, "|")
	id = strings.TrimSpace(id)
	if reward = strings.TrimSpace(reward); reward == "" {
		reward = "No reward"
	}

	i := slices.IndexFunc(s.Story.CurrentObjectives, func(o Objective) bool {
		return o.ID == id || o.Title == id || o.Title == v
	})
	if i < 0 {
		return Objective{}, false
	}
	o := s.Story.CurrentObjectives[i]
	o.ActualReward = reward
	o.CompletedAt = s.clock().UTC()
	s.Story.CurrentObjectives = slices.Delete(s.Story.CurrentObjectives, i, i+1)
	s.Story.CompletedObjectives = append(s.Story.CompletedObjectives, o)
	return o, true
}

func gainedLost(n int) string {
	if n > 0 {
		return "gained"
	}
	return "lost"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
