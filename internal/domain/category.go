package domain

// Leave categories scope balance bookkeeping. The ledger and the request
// lifecycle share this enum, so it lives outside both modules.
const (
	CategoryCompensate = "COMPENSATE"
	CategoryAnnual     = "ANNUAL"
	CategorySick       = "SICK"
	CategoryPersonal   = "PERSONAL"
	CategoryOther      = "OTHER"
)

func Categories() []string {
	return []string{
		CategoryCompensate,
		CategoryAnnual,
		CategorySick,
		CategoryPersonal,
		CategoryOther,
	}
}

func IsValidCategory(category string) bool {
	switch category {
	case CategoryCompensate, CategoryAnnual, CategorySick, CategoryPersonal, CategoryOther:
		return true
	default:
		return false
	}
}
