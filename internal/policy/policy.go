// Package policy is the single place where role and ownership rules are
// evaluated. Handlers and services call into it instead of re-deriving
// role checks per endpoint.
//
// Roles ascend Observer < Engineer < Manager, but endpoint gates are
// role-set membership, not numeric comparison. The Observer row filter
// narrows reads to defects the caller is responsible for; list endpoints
// filter silently while single-item endpoints reject with Forbidden.
package policy

import (
	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/constants"
)

// Action names an endpoint-level permission gate.
type Action string

const (
	ActionViewAll        Action = "view_all"
	ActionManageDefects  Action = "manage_defects"
	ActionManageProjects Action = "manage_projects"
	ActionManageUsers    Action = "manage_users"
)

var actionRoles = map[Action]map[uint64]struct{}{
	ActionViewAll: {
		constants.RoleObserver: {},
		constants.RoleEngineer: {},
		constants.RoleManager:  {},
	},
	ActionManageDefects: {
		constants.RoleEngineer: {},
		constants.RoleManager:  {},
	},
	ActionManageProjects: {
		constants.RoleManager: {},
	},
	ActionManageUsers: {
		constants.RoleManager: {},
	},
}

// Allows reports whether the role's set membership permits the action.
func Allows(roleID uint64, action Action) bool {
	roles, ok := actionRoles[action]
	if !ok {
		return false
	}
	_, ok = roles[roleID]
	return ok
}

// CanSeeDefect decides single-item visibility. Observers see only defects
// assigned to them; Engineers and Managers see everything.
func CanSeeDefect(roleID, userID uint64, responsibleID *uint64) bool {
	if roleID != constants.RoleObserver {
		return true
	}
	return responsibleID != nil && *responsibleID == userID
}

// CanUpdateDefect gates defect updates. Engineers may only mutate defects
// assigned to them; Managers are unrestricted.
func CanUpdateDefect(roleID, userID uint64, responsibleID *uint64) bool {
	switch roleID {
	case constants.RoleManager:
		return true
	case constants.RoleEngineer:
		return responsibleID != nil && *responsibleID == userID
	default:
		return false
	}
}

// CanModifyDefectChild gates edits and deletes of comments and
// attachments. Permitted to the Observer who owns the parent defect, the
// Engineer who authored the row, or any Manager.
func CanModifyDefectChild(roleID, userID, authorID uint64, responsibleID *uint64) bool {
	switch roleID {
	case constants.RoleManager:
		return true
	case constants.RoleEngineer:
		return authorID == userID
	case constants.RoleObserver:
		return responsibleID != nil && *responsibleID == userID
	default:
		return false
	}
}

// CanAddDefectChild gates creating comments and attachments on a defect.
// Observers may comment only on defects they own; other roles need the
// manage-defects gate.
func CanAddDefectChild(roleID, userID uint64, responsibleID *uint64) bool {
	if roleID == constants.RoleObserver {
		return responsibleID != nil && *responsibleID == userID
	}
	return Allows(roleID, ActionManageDefects)
}

// CanAssignRole enforces the role cap: an actor may not create or promote
// a user to a role above their own.
func CanAssignRole(actorRoleID, targetRoleID uint64) bool {
	return targetRoleID <= actorRoleID
}

// CanEditUser permits Managers to edit anyone and users to edit only
// their own profile.
func CanEditUser(actorRoleID, actorID, targetID uint64) bool {
	if actorRoleID == constants.RoleManager {
		return true
	}
	return actorID == targetID
}

// CanDeleteUser forbids self-deletion even for Managers.
func CanDeleteUser(actorRoleID, actorID, targetID uint64) bool {
	if actorID == targetID {
		return false
	}
	return Allows(actorRoleID, ActionManageUsers)
}

// DefectScope returns a gorm scope applying the Observer row filter to a
// defect query. Non-observer roles pass through unrestricted.
func DefectScope(roleID, userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if roleID != constants.RoleObserver {
			return db
		}
		return db.Where("defects.responsible_id = ?", userID)
	}
}
