package tools

import "encoding/json"

var emptyArgsSchema = json.RawMessage(`{"type": "object", "properties": {}}`)

var builtin = []Descriptor{
	{
		Name:        ToolGetEnemyInfo,
		Description: "Get detailed information about an enemy in the game world",
		Kind:        KindRead,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"category": {"type": "string", "description": "The category of the enemy (e.g., pirates, navy, mythical, ghost, town)"},
				"name": {"type": "string", "description": "The name of the enemy"}
			},
			"required": ["category", "name"]
		}`),
	},
	{
		Name:        ToolGetRandomEnemy,
		Description: "Get a random enemy from the game world",
		Kind:        KindRead,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"category": {"type": "string", "description": "The category of enemy to retrieve (e.g., pirates, navy, mythical, ghost, town)"},
				"name": {"type": "string", "description": "The name of the enemy to retrieve (optional)"},
				"count": {"type": "integer", "minimum": 1, "description": "The number of random enemies to return"}
			},
			"required": ["category", "count"]
		}`),
	},
	{
		Name:        ToolCreateEnemy,
		Description: "Create a new enemy in the game world",
		Kind:        KindCreation,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"category": {"type": "string", "description": "The category of the enemy (e.g., pirates, navy, mythical, ghost, town)"},
				"name": {"type": "string", "description": "The name of the enemy"},
				"health": {"type": "number", "description": "The health points of the enemy"},
				"damage": {"type": "number", "description": "The damage the enemy can inflict"},
				"skill": {"type": "number", "description": "The skill level of the enemy"},
				"loot": {"type": "array", "items": {"type": "string"}, "description": "Possible loot dropped by the enemy"},
				"description": {"type": "string", "description": "A description of the enemy"},
				"weaknesses": {"type": "array", "items": {"type": "string"}, "description": "The enemy's weaknesses"},
				"resistances": {"type": "array", "items": {"type": "string"}, "description": "The enemy's resistances"}
			},
			"required": ["category", "name", "health", "damage", "skill", "loot", "description"]
		}`),
	},
	{
		Name:        ToolListAllEnemies,
		Description: "List all enemy categories and the specific enemies in each category",
		Kind:        KindDiscovery,
		Parameters:  emptyArgsSchema,
	},
	{
		Name:        ToolListEnemyCategories,
		Description: "List all available enemy categories in the game world",
		Kind:        KindDiscovery,
		Parameters:  emptyArgsSchema,
	},
	{
		Name:        ToolGetItemInfo,
		Description: "Get detailed information about an item in the game world",
		Kind:        KindRead,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "The name of the item"}
			},
			"required": ["name"]
		}`),
	},
	{
		Name:        ToolGetShopItems,
		Description: "Get a list of items available in a shop, filtered by type and limited by count",
		Kind:        KindRead,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"type": {"type": "string", "description": "The category/type of items to retrieve (e.g., weapon, clothing, ammo, consumable, currency, quest), or any"},
				"count": {"type": "integer", "minimum": 1, "description": "The number of items to return"}
			},
			"required": ["type", "count"]
		}`),
	},
	{
		Name:        ToolGetRandomItems,
		Description: "Get a random selection of items from the game world",
		Kind:        KindRead,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"count": {"type": "integer", "minimum": 1, "description": "The number of random items to return"}
			},
			"required": ["count"]
		}`),
	},
	{
		Name:        ToolAddItem,
		Description: "Add a new item to the ITEMS list if it does not already exist",
		Kind:        KindCreation,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"category": {"type": "string", "description": "The top-level category for the item (e.g., weapons, clothing, ammo, consumables, treasure)"},
				"subcategory": {"type": "string", "description": "The subcategory for the item, if any (e.g., head, body, legs, feet)"},
				"key": {"type": "string", "description": "The unique key for the item within its category/subcategory"},
				"itemData": {
					"type": "object",
					"description": "The full item object to add: name, type and description plus any type-specific fields",
					"properties": {
						"name": {"type": "string"},
						"type": {"type": "string"},
						"description": {"type": "string"}
					},
					"required": ["name"]
				}
			},
			"required": ["category", "key", "itemData"]
		}`),
	},
	{
		Name:        ToolListItemTypes,
		Description: "List all available item types in the game world",
		Kind:        KindDiscovery,
		Parameters:  emptyArgsSchema,
	},
	{
		Name:        ToolListItemCategories,
		Description: "List all available item categories and subcategories in the game world",
		Kind:        KindDiscovery,
		Parameters:  emptyArgsSchema,
	},
}
