package domain

// CommunityTier orders communities from free to premium. Tier drives the
// milestone alert budget and notification priority.
type CommunityTier int

const (
	TierFree CommunityTier = iota + 1
	TierPlus
	TierPremium
)

// Community is one chat community receiving notifications.
type Community struct {
	ID     int64
	Name   string
	Tier   CommunityTier
	Active bool
}

// DefaultCommunities is the standard three-tier setup seeded on first start.
func DefaultCommunities() []Community {
	return []Community{
		{Name: "StatEdge", Tier: TierFree, Active: true},
		{Name: "StatEdge+", Tier: TierPlus, Active: true},
		{Name: "StatEdge Premium", Tier: TierPremium, Active: true},
	}
}
