package constants

const (
	MAX_PAGE_SIZE              = 255
	DEFAULT_OBSERVER_PAGE_SIZE = 50
	DEFAULT_ARTIFACTS_LIMIT    = 20
	MAX_RECENT_OBSERVATIONS    = 100
	DEFAULT_OFFSET             = uint64(0)
	// MAX_AMOUNT_DIGITS bounds decimal wei amounts accepted in request bodies (uint256 has 78)
	MAX_AMOUNT_DIGITS = 78
)
