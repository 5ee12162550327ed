package domain

// EnforceRequest is the authorization question middleware asks the RBAC
// service. Kept here so middleware does not depend on the rbac package.
type EnforceRequest struct {
	UserID   string
	Resource string
	Action   string
}
