package bets

// validator.go — accepts only bets on entities actually playing today.
// Pitcher props must name a probable pitcher, player props an active player
// on a team with a game, team bets a team on today's slate.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

// Validation is the outcome of checking a parsed bet against the day context.
type Validation struct {
	OK          bool
	GameID      int64
	PlayerID    int64
	PitcherID   int64
	TeamID      int64
	Errors      []string
	Suggestions []string
}

// Validate resolves the parsed bet's subject inside the day context.
func Validate(snap *Context, kind domain.BetKind, parsed domain.ParsedBet) Validation {
	var v Validation

	if len(snap.Games) == 0 {
		v.Errors = append(v.Errors, "no games loaded for today, refresh the schedule first")
		return v
	}

	player := strings.ToLower(strings.TrimSpace(parsed.PlayerName))

	switch {
	case kind.IsPitcherStat() && player != "":
		return validatePitcher(snap, player)
	case kind.IsCountingStat() && player != "":
		return validatePlayer(snap, player)
	case parsed.TeamName != "":
		return validateTeam(snap, parsed.TeamName)
	case kind == domain.KindTotal:
		// A run-total bet needs a game, resolvable only via a team name.
		v.Errors = append(v.Errors, "total bet names no team to resolve the game")
		return v
	}

	v.Errors = append(v.Errors, "could not determine the bet's subject")
	return v
}

func validatePitcher(snap *Context, name string) Validation {
	var v Validation
	if p, ok := snap.Pitchers[name]; ok {
		if g, ok := snap.GameForTeam(p.TeamID); ok {
			v.OK = true
			v.PitcherID = p.ID
			v.GameID = g.ID
			return v
		}
	}

	v.Errors = append(v.Errors, fmt.Sprintf("%q is not a probable pitcher today", name))
	v.Suggestions = closestNames(snap.Pitchers, name)
	return v
}

func validatePlayer(snap *Context, name string) Validation {
	var v Validation
	if p, ok := snap.Players[name]; ok {
		g, ok := snap.GameForTeam(p.TeamID)
		if !ok {
			v.Errors = append(v.Errors, fmt.Sprintf("%s's team is not playing today", p.FullName))
			return v
		}
		v.OK = true
		v.PlayerID = p.ID
		v.GameID = g.ID
		return v
	}

	v.Errors = append(v.Errors, fmt.Sprintf("%q not found in today's active rosters", name))
	v.Suggestions = closestNames(snap.Players, name)
	return v
}

func validateTeam(snap *Context, name string) Validation {
	var v Validation
	team, ok := snap.FindTeam(name)
	if !ok {
		v.Errors = append(v.Errors, fmt.Sprintf("no team matching %q", name))
		return v
	}
	g, ok := snap.GameForTeam(team.ID)
	if !ok {
		v.Errors = append(v.Errors, fmt.Sprintf("%s is not playing today", team.Name))
		return v
	}
	v.OK = true
	v.TeamID = team.ID
	v.GameID = g.ID
	return v
}

// closestNames suggests entries sharing a word with the asked-for name.
func closestNames(candidates map[string]domain.Player, name string) []string {
	words := strings.Fields(name)
	var matches []string
	for candidate := range candidates {
		for _, w := range words {
			if strings.Contains(candidate, w) {
				matches = append(matches, candidates[candidate].FullName)
				break
			}
		}
	}
	sort.Strings(matches)
	if len(matches) > 3 {
		matches = matches[:3]
	}
	return matches
}
