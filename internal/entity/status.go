package entity

// Toggle statuses used by suppliers, products, users and stores.
const (
	StatusOn  = "on"
	StatusOff = "off"
)

// Order statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
)

// Campaign statuses.
const (
	CampaignActive   = "active"
	CampaignInactive = "inactive"
	CampaignPlanned  = "planned"
)

// User levels.
const (
	LevelAdmin = "admin"
	LevelUser  = "user"
)
