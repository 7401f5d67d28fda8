package players

// PlayerStore defines the interface for the player directory.
type PlayerStore interface {
	Create(username, name, phone string) (*Player, error)
	Get(playerID int64) (*Player, error)
	GetByUsername(username string) (*Player, error)
	GetMany(playerIDs []int64) ([]Player, error)
	List(filter string, limit, offset int) ([]ListItem, error)
	UpdateProfile(playerID int64, name, bio, phone string) (*Player, error)
	UpdateAdmin(playerID int64, hand HandPreference, tier SkillTier) error
	SetActive(playerID int64, active bool) error
}
