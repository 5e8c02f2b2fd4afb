package main

// Achievement definitions
type AchievementDef struct {
	ID          string
	Name        string
	Description string
}

var Achievements = []AchievementDef{
	{"first_wreck", "First Wreck", "Destroy your first vehicle"},
	{"demolisher", "Demolisher", "Destroy 100 vehicles"},
	{"scrapyard_king", "Scrapyard King", "Destroy 1000 vehicles"},
	{"rampage", "Rampage", "Destroy 10 vehicles in a single match"},
	{"untouchable", "Untouchable", "Win a match without being destroyed"},
	{"champion", "Champion", "Win 10 matches"},
	{"road_warrior", "Road Warrior", "Drive in the arena for 1 hour total"},
}

// CheckAchievements checks if any new achievements should be unlocked for a
// player after a match. Returns the newly unlocked definitions.
func CheckAchievements(db *DB, playerID int64, matchKills, matchDeaths int, won bool) []AchievementDef {
	if db == nil {
		return nil
	}

	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil
	}

	has, err := db.GetAchievements(playerID)
	if err != nil {
		return nil
	}

	var unlocked []AchievementDef

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_wreck":
			return stats.Kills >= 1
		case "demolisher":
			return stats.Kills >= 100
		case "scrapyard_king":
			return stats.Kills >= 1000
		case "rampage":
			return matchKills >= 10
		case "untouchable":
			return won && matchDeaths == 0
		case "champion":
			return stats.Wins >= 10
		case "road_warrior":
			return stats.Playtime >= 3600
		}
		return false
	}

	for _, def := range Achievements {
		if check(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(playerID, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
			}
		}
	}

	return unlocked
}
