package mlb

// Wire types for the MLB Stats API. Only the fields the tracker reads are
// declared; everything else in the payloads is ignored by the decoder.

type feedResponse struct {
	GameData struct {
		Game struct {
			Pk int64 `json:"pk"`
		} `json:"game"`
		Status struct {
			DetailedState string `json:"detailedState"`
		} `json:"status"`
	} `json:"gameData"`
	LiveData struct {
		Linescore struct {
			CurrentInning int    `json:"currentInning"`
			InningState   string `json:"inningState"`
			Teams         struct {
				Home struct {
					Runs int `json:"runs"`
				} `json:"home"`
				Away struct {
					Runs int `json:"runs"`
				} `json:"away"`
			} `json:"teams"`
		} `json:"linescore"`
		Boxscore struct {
			Teams struct {
				Home boxTeam `json:"home"`
				Away boxTeam `json:"away"`
			} `json:"teams"`
		} `json:"boxscore"`
	} `json:"liveData"`
}

type boxTeam struct {
	Players map[string]boxPlayer `json:"players"`
}

type boxPlayer struct {
	Person struct {
		ID int64 `json:"id"`
	} `json:"person"`
	Stats struct {
		Batting  *battingStats  `json:"batting"`
		Pitching *pitchingStats `json:"pitching"`
	} `json:"stats"`
}

type battingStats struct {
	AtBats      int `json:"atBats"`
	Hits        int `json:"hits"`
	Doubles     int `json:"doubles"`
	Triples     int `json:"triples"`
	HomeRuns    int `json:"homeRuns"`
	Runs        int `json:"runs"`
	RBI         int `json:"rbi"`
	BaseOnBalls int `json:"baseOnBalls"`
	StolenBases int `json:"stolenBases"`
}

type pitchingStats struct {
	InningsPitched  string `json:"inningsPitched"`
	StrikeOuts      int    `json:"strikeOuts"`
	BaseOnBalls     int    `json:"baseOnBalls"`
	Hits            int    `json:"hits"`
	EarnedRuns      int    `json:"earnedRuns"`
	NumberOfPitches int    `json:"numberOfPitches"`
}

type scheduleResponse struct {
	Dates []struct {
		Games []scheduleGame `json:"games"`
	} `json:"dates"`
}

type scheduleGame struct {
	GamePk       int64  `json:"gamePk"`
	OfficialDate string `json:"officialDate"`
	GameDate     string `json:"gameDate"`
	Status       struct {
		DetailedState string `json:"detailedState"`
	} `json:"status"`
	Teams struct {
		Home scheduleTeam `json:"home"`
		Away scheduleTeam `json:"away"`
	} `json:"teams"`
}

type scheduleTeam struct {
	Team struct {
		ID int64 `json:"id"`
	} `json:"team"`
	ProbablePitcher *struct {
		ID int64 `json:"id"`
	} `json:"probablePitcher"`
	Score int `json:"score"`
}

type teamsResponse struct {
	Teams []struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Abbreviation string `json:"abbreviation"`
		League       struct {
			Name string `json:"name"`
		} `json:"league"`
		Division struct {
			Name string `json:"name"`
		} `json:"division"`
	} `json:"teams"`
}

type rosterResponse struct {
	Roster []struct {
		Person struct {
			ID       int64  `json:"id"`
			FullName string `json:"fullName"`
		} `json:"person"`
		Position struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"position"`
	} `json:"roster"`
}
