package scope

import "context"

// Scope is the permission envelope resolved for an authenticated caller:
// the charge tag ids and charge point ids the caller may see, plus the
// admin flag. Empty sets on a non-admin scope mean "nothing", never
// "everything": downstream filters fail closed.
type Scope struct {
	TagIDs   []string `json:"tag_ids"`
	PointIDs []string `json:"point_ids"`
	IsAdmin  bool     `json:"is_admin"`
}

// HasAssignedTag reports whether the caller has any charge history to show.
// Admins always do; restricted callers need at least one permitted tag.
func (s Scope) HasAssignedTag() bool {
	return s.IsAdmin || len(s.TagIDs) > 0
}

// PermitsTag reports membership in the permitted tag set.
func (s Scope) PermitsTag(tagID string) bool {
	for _, id := range s.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// PermitsPoint reports membership in the permitted charge point set.
func (s Scope) PermitsPoint(pointID string) bool {
	for _, id := range s.PointIDs {
		if id == pointID {
			return true
		}
	}
	return false
}

// Provider resolves the permission scope of an authenticated user.
type Provider interface {
	Resolve(ctx context.Context, userID int64) (Scope, error)
}
