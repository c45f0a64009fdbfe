package constants

// Context keys
const (
	ContextKeyIdentity = "identity"
)

// Cookie carrying the signed access token
const (
	AccessTokenCookie = "access_token"
)

// Seeded role IDs, ascending privilege
const (
	RoleObserver uint64 = 1
	RoleEngineer uint64 = 2
	RoleManager  uint64 = 3
)

// Seeded project status IDs
const (
	ProjectStatusActive    uint64 = 1
	ProjectStatusCompleted uint64 = 2
	ProjectStatusOnHold    uint64 = 3
)

// Seeded defect status IDs
const (
	StatusNew         uint64 = 1
	StatusInProgress  uint64 = 2
	StatusUnderReview uint64 = 3
	StatusClosed      uint64 = 4
	StatusCancelled   uint64 = 5
)

// Priority banding: low == 1, medium == 2, high >= 3
const (
	PriorityLow    int16 = 1
	PriorityMedium int16 = 2
	PriorityHigh   int16 = 3
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const MinPasswordLength = 6
