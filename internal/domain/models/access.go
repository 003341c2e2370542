package models

// AccessLevel is the effective permission a user has on a page, as an
// ordered enumeration. Gating is a single comparison against a minimum
// level instead of per-role conditionals.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessView
	AccessEdit
	AccessOwner
)

// AtLeast reports whether l satisfies the given minimum level.
func (l AccessLevel) AtLeast(min AccessLevel) bool {
	return l >= min
}

func (l AccessLevel) String() string {
	switch l {
	case AccessView:
		return "view"
	case AccessEdit:
		return "edit"
	case AccessOwner:
		return "owner"
	default:
		return "none"
	}
}

// AccessFromPermission maps a share permission to its access level.
func AccessFromPermission(p Permission) AccessLevel {
	if p == PermissionEdit {
		return AccessEdit
	}
	return AccessView
}
